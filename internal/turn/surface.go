package turn

import (
	"slices"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
)

// Surface is an area effect zone. The manager owns its lifecycle and
// point list; areas only mirror membership in their grids.
type Surface struct {
	ID     model.SurfaceID
	AreaID string
	Name   string
	Points []geo.Point

	// Owner is set for auras, which follow their owner around.
	Owner model.EntityID

	members map[model.EntityID]uint32
}

// IsAura reports whether the surface moves with an entity.
func (s *Surface) IsAura() bool {
	return s.Owner != model.NoEntity
}

// Members returns the entities inside the surface, sorted.
func (s *Surface) Members() []model.EntityID {
	ids := make([]model.EntityID, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// SquaresMoved returns how far an entity has walked inside the surface.
func (s *Surface) SquaresMoved(id model.EntityID) uint32 {
	return s.members[id]
}
