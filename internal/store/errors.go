package store

import "errors"

// Sentinel errors surfaced by the repositories. Handlers map these to
// form messages or error pages; anything else is treated as fatal.
var (
	ErrNotFound             = errors.New("entity not found")
	ErrDuplicateAuthor      = errors.New("author name already exists")
	ErrDuplicateAssociation = errors.New("book already linked to author")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrDuplicatePhone       = errors.New("phone number already used on an order")
	ErrInvalidCredentials   = errors.New("invalid email or password")
)
