package area

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
)

// AddActor creates an entity from a template, stores it in the turn
// manager and places it at (x, y). On failure the entity is dropped from
// the manager again.
func (s *State) AddActor(tpl *module.ActorTemplate, x, y int32, uniqueID string, party bool, aiGroup int) (model.EntityID, error) {
	e := model.NewEntity(tpl, uniqueID, model.NewLocation(s.def.ID, x, y), party)
	e.AIGroup = aiGroup
	id := s.mgr.AddEntity(e)

	if err := s.AddEntity(id, x, y); err != nil {
		s.mgr.RemoveEntity(id)
		return model.NoEntity, fmt.Errorf("adding actor %q: %w", tpl.ID, err)
	}
	return id, nil
}

// AddEntity registers an existing manager entity at (x, y): footprint,
// threat relations, surface membership and, for party members, sight.
// An impassable location is logged but accepted.
func (s *State) AddEntity(id model.EntityID, x, y int32) error {
	e := s.mgr.Entity(id)
	if e == nil {
		return fmt.Errorf("entity %d: %w", id, ErrUnknownEntity)
	}
	if s.Contains(id) {
		return fmt.Errorf("%w: entity %d already in area %q", ErrInvalidData, id, s.def.ID)
	}
	if !geo.RectInBounds(x, y, e.Size.Width, e.Size.Height, s.width, s.height) {
		return fmt.Errorf("entity %d at %d,%d: %w", id, x, y, ErrOutOfBounds)
	}

	if !s.IsPassable(e, []model.EntityID{id}, x, y) {
		slog.Info("entity location is not passable", "area", s.def.ID, "entity", e.Name(), "x", x, "y", y)
	}

	e.Location = model.NewLocation(s.def.ID, x, y)
	s.entities = append(s.entities, id)

	s.computeThreatened(e, false)

	for _, surface := range s.addEntityPoints(e) {
		s.mgr.AddToSurface(id, surface)
	}

	if e.Party {
		s.memberVis[id] = make([]bool, len(s.pcVis))
		s.computeMemberVisibility(e, 0, 0, true)
		s.updateView(0, 0, s.width-1, s.height-1)
		s.fullRedraw()
	}
	return nil
}

// RemoveEntity clears an entity's footprint and relations from the area.
// The entity stays in the turn manager.
func (s *State) RemoveEntity(id model.EntityID) error {
	e := s.mgr.Entity(id)
	if e == nil || !s.Contains(id) {
		return fmt.Errorf("entity %d: %w", id, ErrUnknownEntity)
	}
	slog.Debug("removing entity", "area", s.def.ID, "entity", e.Name(), "id", id)

	surfaces := s.clearEntityPoints(e, e.Location.X, e.Location.Y)
	s.entities = slices.DeleteFunc(s.entities, func(other model.EntityID) bool { return other == id })
	s.computeThreatened(e, true)

	for _, surface := range surfaces {
		s.mgr.RemoveFromSurface(id, surface)
	}

	if _, ok := s.memberVis[id]; ok {
		delete(s.memberVis, id)
		s.updateView(0, 0, s.width-1, s.height-1)
		s.fullRedraw()
	}
	return nil
}

// MoveEntity moves an entity's anchor to (x, y) and runs the move
// protocol. The destination is validated before anything changes; passability
// is the caller's concern.
func (s *State) MoveEntity(id model.EntityID, x, y int32) error {
	e := s.mgr.Entity(id)
	if e == nil || !s.Contains(id) {
		return fmt.Errorf("entity %d: %w", id, ErrUnknownEntity)
	}
	if !geo.RectInBounds(x, y, e.Size.Width, e.Size.Height, s.width, s.height) {
		return fmt.Errorf("moving entity %d to %d,%d: %w", id, x, y, ErrOutOfBounds)
	}
	if x == e.Location.X && y == e.Location.Y {
		return nil
	}

	oldX, oldY := e.Location.X, e.Location.Y
	e.Location = e.Location.WithCoordinates(x, y)
	s.updateEntityPosition(e, oldX, oldY)
	return nil
}

// updateEntityPosition re-registers an entity already moved from (oldX, oldY).
//
// The mover's old cells are cleared before its auras are translated so the
// owner never appears in an aura diff; its own auras then show up in both
// surface sets and count as movement within the surface.
func (s *State) updateEntityPosition(e *model.Entity, oldX, oldY int32) {
	dx := e.Location.X - oldX
	dy := e.Location.Y - oldY

	oldSurfaces := s.clearEntityPoints(e, oldX, oldY)

	for _, aura := range s.mgr.AurasFor(e.ID) {
		if !slices.Contains(s.surfaces, aura) {
			continue
		}
		s.translateAura(aura, dx, dy)
	}

	newSurfaces := s.addEntityPoints(e)

	s.computeThreatened(e, false)

	for _, surface := range difference(oldSurfaces, newSurfaces) {
		s.mgr.RemoveFromSurface(e.ID, surface)
	}
	for _, surface := range difference(newSurfaces, oldSurfaces) {
		s.mgr.AddToSurface(e.ID, surface)
	}
	for _, surface := range intersection(newSurfaces, oldSurfaces) {
		s.mgr.IncrementSurfaceSquaresMoved(e.ID, surface)
	}

	if e.Party {
		s.partialRedraw(dx, dy)
		s.computeMemberVisibility(e, dx, dy, false)
		r := s.sightRadius(e)
		cx, cy := s.sightOrigin(e)
		s.updateView(min(cx, cx-dx)-r, min(cy, cy-dy)-r, max(cx, cx-dx)+r, max(cy, cy-dy)+r)
		s.checkTriggerGrid(e)
	}

	s.mgr.FireOnMovedNextUpdate(e.ID)
}

// addEntityPoints writes the footprint and returns the surfaces it covers.
func (s *State) addEntityPoints(e *model.Entity) []model.SurfaceID {
	set := make(map[model.SurfaceID]struct{})
	for _, p := range e.Points() {
		idx := s.index(p.X, p.Y)
		s.entityGrid[idx] = append(s.entityGrid[idx], e.ID)
		for _, surface := range s.surfaceGrid[idx] {
			set[surface] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// clearEntityPoints removes the footprint anchored at (x, y) and returns
// the surfaces it covered.
func (s *State) clearEntityPoints(e *model.Entity, x, y int32) []model.SurfaceID {
	set := make(map[model.SurfaceID]struct{})
	for _, p := range e.PointsAt(x, y) {
		idx := s.index(p.X, p.Y)
		s.entityGrid[idx] = slices.DeleteFunc(s.entityGrid[idx], func(other model.EntityID) bool {
			return other == e.ID
		})
		for _, surface := range s.surfaceGrid[idx] {
			set[surface] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// computeThreatened refreshes melee threat between mover and every
// hostile entity in the area, both directions. removal clears them all.
func (s *State) computeThreatened(mover *model.Entity, removal bool) {
	for _, id := range s.entities {
		if id == mover.ID {
			continue
		}
		other := s.mgr.Entity(id)
		if other == nil || !mover.IsHostile(other) {
			continue
		}
		checkThreatened(mover, other, removal)
		checkThreatened(other, mover, removal)
	}
}

func checkThreatened(att, def *model.Entity, removal bool) {
	if removal || !isThreat(att, def) {
		att.RemoveThreatening(def.ID)
		def.RemoveThreatener(att.ID)
		return
	}
	att.AddThreatening(def.ID)
	def.AddThreatener(att.ID)
}

func isThreat(att, def *model.Entity) bool {
	if !att.IsMelee() || att.AttackDisabled || att.Dead {
		return false
	}
	return att.CanReach(att.Dist(def.Location.Point(), def.Size))
}

// difference returns sorted a minus sorted b.
func difference[T ~int32](a, b []T) []T {
	var out []T
	for _, v := range a {
		if _, found := slices.BinarySearch(b, v); !found {
			out = append(out, v)
		}
	}
	return out
}

// intersection returns the values present in both sorted slices.
func intersection[T ~int32](a, b []T) []T {
	var out []T
	for _, v := range a {
		if _, found := slices.BinarySearch(b, v); found {
			out = append(out, v)
		}
	}
	return out
}
