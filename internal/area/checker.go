package area

import (
	"slices"

	"github.com/udisondev/tacgrid/internal/model"
)

// PathChecker adapts a State to geo.LocationChecker for one requester.
type PathChecker struct {
	state     *State
	requester *model.Entity
	ignore    []model.EntityID
}

// NewPathChecker builds a checker for requester. The requester itself is
// always ignored as an obstacle; extra entities may be passed too.
func NewPathChecker(s *State, requester *model.Entity, ignore ...model.EntityID) *PathChecker {
	return &PathChecker{
		state:     s,
		requester: requester,
		ignore:    append(slices.Clone(ignore), requester.ID),
	}
}

// Goal shifts the destination so the requester's footprint ends up
// centered on it.
func (c *PathChecker) Goal(x, y float32) (float32, float32) {
	return x - float32(c.requester.Size.Width/2), y - float32(c.requester.Size.Height/2)
}

// Passable reports whether the requester may stand with its anchor at (x, y).
func (c *PathChecker) Passable(x, y int32) bool {
	return c.state.IsPassable(c.requester, c.ignore, x, y)
}
