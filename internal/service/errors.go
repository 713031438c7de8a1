package service

import "errors"

// Sentinel errors the controllers translate into HTTP responses.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidData        = errors.New("invalid data")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrNotFound           = errors.New("expense not found")
	ErrNotOwner           = errors.New("not the owner of this expense")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
