package sim

import "errors"

var (
	// ErrNoArea is returned when an operation needs an entered area.
	ErrNoArea = errors.New("no current area")

	// ErrBlocked is returned when a destination is not passable.
	ErrBlocked = errors.New("destination blocked")

	// ErrNoTransition is returned when no transition covers a cell.
	ErrNoTransition = errors.New("no transition at location")

	// ErrNotInArea is returned for entities outside the current area.
	ErrNotInArea = errors.New("entity not in current area")
)
