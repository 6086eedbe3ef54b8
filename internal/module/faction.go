package module

import "fmt"

// Faction decides who fights whom.
type Faction string

const (
	FactionFriendly Faction = "friendly"
	FactionHostile  Faction = "hostile"
	FactionNeutral  Faction = "neutral"
)

// Validate rejects unknown faction names.
func (f Faction) Validate() error {
	switch f {
	case FactionFriendly, FactionHostile, FactionNeutral:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFaction, string(f))
	}
}

// IsHostile reports whether members of f attack members of other.
// Neutrals are hostile to nobody.
func (f Faction) IsHostile(other Faction) bool {
	switch f {
	case FactionFriendly:
		return other == FactionHostile
	case FactionHostile:
		return other == FactionFriendly
	default:
		return false
	}
}

// IsFriendly reports whether f and other are on the same side.
func (f Faction) IsFriendly(other Faction) bool {
	return f != FactionNeutral && f == other
}
