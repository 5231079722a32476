package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recovery-center/internal/domain"
)

func newAuth(users *memUsers, codes *memCodes, allowedDomain string) *AuthService {
	return NewAuthService(users, codes, allowedDomain, "test-secret", 24)
}

func TestRegisterRequiresVerifiedEmail(t *testing.T) {
	users, codes := newMemUsers(), newMemCodes()
	svc := newAuth(users, codes, "")

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	codes.markVerified("alice@example.com")
	u, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secret1", u.Password, "password must be stored hashed")
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	users, codes := newMemUsers(), newMemCodes()
	svc := newAuth(users, codes, "")
	codes.markVerified("alice@example.com")

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Alicia", "alice@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterEnforcesDomainAllowlist(t *testing.T) {
	users, codes := newMemUsers(), newMemCodes()
	svc := newAuth(users, codes, "campus.edu")
	codes.markVerified("alice@gmail.com")
	codes.markVerified("bob@Campus.EDU")

	_, err := svc.Register(context.Background(), "Alice", "alice@gmail.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailNotAllowed)

	_, err = svc.Register(context.Background(), "Bob", "bob@Campus.EDU", "secret1")
	assert.NoError(t, err, "domain match is case insensitive")
}

func TestRegisterValidatesInput(t *testing.T) {
	users, codes := newMemUsers(), newMemCodes()
	svc := newAuth(users, codes, "")

	_, err := svc.Register(context.Background(), "", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrNicknameEmpty)

	_, err = svc.Register(context.Background(), "Alice", "not-an-email", "secret1")
	assert.ErrorIs(t, err, domain.ErrEmailInvalid)

	_, err = svc.Register(context.Background(), "Alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooWeak)
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	users, codes := newMemUsers(), newMemCodes()
	svc := newAuth(users, codes, "")
	codes.markVerified("alice@example.com")

	created, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	token, u, err := svc.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	uid, uname, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, uid)
	assert.Equal(t, "Alice", uname)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users, codes := newMemUsers(), newMemCodes()
	svc := newAuth(users, codes, "")
	codes.markVerified("alice@example.com")

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	users, codes := newMemUsers(), newMemCodes()
	svc := newAuth(users, codes, "")
	other := NewAuthService(users, codes, "", "other-secret", 24)

	token, err := other.CreateToken("u1", "Alice")
	require.NoError(t, err)

	_, _, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.ParseToken("")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
