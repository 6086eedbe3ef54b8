package module

import "errors"

// Sentinel errors for catalog lookups and validation.
var (
	ErrNotFound       = errors.New("not found in catalog")
	ErrDuplicateID    = errors.New("duplicate catalog id")
	ErrInvalidSize    = errors.New("invalid object size")
	ErrInvalidArea    = errors.New("invalid area definition")
	ErrInvalidFaction = errors.New("invalid faction")
)
