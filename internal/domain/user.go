// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	MaxNicknameLen = 36
	MinPasswordLen = 6
)

var (
	ErrNicknameTooLong = errors.New("nickname too long")
	ErrNicknameEmpty   = errors.New("nickname empty")
	ErrEmailInvalid    = errors.New("email invalid")
	ErrPasswordTooWeak = errors.New("password too short")
)

type UserID string

// User is a registered account. Password always holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID       UserID `json:"id" bson:"_id,omitempty"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Password string `json:"-" bson:"password"`

	// JoinedGroup enforces the one-group-per-account rule. Empty means none.
	JoinedGroup GroupID   `json:"joinedGroup,omitempty" bson:"joinedGroup,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

func ValidateNickname(name string) error {
	if len(name) == 0 {
		return ErrNicknameEmpty
	}
	if len(name) > MaxNicknameLen {
		return ErrNicknameTooLong
	}
	return nil
}

func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return ErrEmailInvalid
	}
	return nil
}
