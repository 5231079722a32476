package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotAllowed    = errors.New("email domain not allowed")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCode        = errors.New("invalid or expired code")

	ErrNotFound       = errors.New("not found")
	ErrAlreadyReacted = errors.New("already reacted")

	ErrGroupFull      = errors.New("group is full")
	ErrAlreadyInGroup = errors.New("already joined a group")
	ErrNotGroupMember = errors.New("not a group member")
	ErrNotCreator     = errors.New("only the creator may delete the group")
)
