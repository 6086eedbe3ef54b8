package area

import (
	"errors"
	"fmt"
)

// Sentinel errors for area state mutation and loading.
// Lookup and bounds errors wrap ErrInvalidData.
var (
	ErrInvalidData   = errors.New("invalid area data")
	ErrOutOfBounds   = fmt.Errorf("%w: location out of bounds", ErrInvalidData)
	ErrUnknownEntity = fmt.Errorf("%w: unknown entity", ErrInvalidData)
	ErrUnknownProp   = fmt.Errorf("%w: unknown prop", ErrInvalidData)
	ErrSaveMismatch  = errors.New("save does not match area definition")
)
