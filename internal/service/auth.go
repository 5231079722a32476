package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"recovery-center/internal/domain"
	"recovery-center/internal/storage"
)

// UserStore is the account persistence port shared by auth and groups.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	SetJoinedGroup(ctx context.Context, id domain.UserID, group domain.GroupID) error
}

// VerifiedChecker answers whether an email finished code verification.
type VerifiedChecker interface {
	IsVerified(ctx context.Context, email string) (bool, error)
}

type AuthService struct {
	users    UserStore
	verified VerifiedChecker

	// allowedDomain restricts signups to one email domain ("" allows any).
	allowedDomain string
	jwtSecret     []byte
	jwtExpiry     time.Duration
}

func NewAuthService(users UserStore, verified VerifiedChecker, allowedDomain, jwtSecret string, expiryHours int) *AuthService {
	return &AuthService{
		users:         users,
		verified:      verified,
		allowedDomain: strings.ToLower(allowedDomain),
		jwtSecret:     []byte(jwtSecret),
		jwtExpiry:     time.Duration(expiryHours) * time.Hour,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if err := domain.ValidateNickname(name); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < domain.MinPasswordLen {
		return nil, domain.ErrPasswordTooWeak
	}
	if s.allowedDomain != "" && !strings.HasSuffix(strings.ToLower(email), "@"+s.allowedDomain) {
		return nil, ErrEmailNotAllowed
	}

	ok, err := s.verified.IsVerified(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check verification: %w", err)
	}
	if !ok {
		return nil, ErrEmailNotVerified
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login returns a signed token and the account. A missing account and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.CreateToken(u.ID, u.Name)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) CreateToken(id domain.UserID, name string) (string, error) {
	claims := jwt.MapClaims{
		"uid":   string(id),
		"uname": name,
		"exp":   time.Now().Add(s.jwtExpiry).Unix(),
		"iat":   time.Now().Unix(),
		"iss":   "recovery-center",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ParseToken(tokenStr string) (domain.UserID, string, error) {
	if tokenStr == "" {
		return "", "", ErrInvalidCredentials
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	uid, ok1 := claims["uid"].(string)
	uname, ok2 := claims["uname"].(string)
	if !ok1 || !ok2 {
		return "", "", ErrInvalidCredentials
	}
	return domain.UserID(uid), uname, nil
}
