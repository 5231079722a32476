package storage

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyReacted = errors.New("already reacted")
	ErrEmailTaken     = errors.New("email already registered")
)
