package area

import (
	"log/slog"
	"slices"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
)

// AddSurface mirrors a manager surface into the grid and enters every
// entity standing on it. Points outside the area are ignored. Returns the
// entities now inside.
func (s *State) AddSurface(id model.SurfaceID) []model.EntityID {
	if slices.Contains(s.surfaces, id) {
		return nil
	}
	s.surfaces = append(s.surfaces, id)

	entities := s.addSurfacePoints(id, s.mgr.SurfacePoints(id))
	for _, e := range entities {
		s.mgr.AddToSurface(e, id)
	}
	slog.Debug("surface added", "area", s.def.ID, "surface", id, "entities", len(entities))
	return entities
}

// RemoveSurface clears a surface from the grid and makes every entity on
// it leave. Returns the entities that were inside.
func (s *State) RemoveSurface(id model.SurfaceID) []model.EntityID {
	if !slices.Contains(s.surfaces, id) {
		return nil
	}
	s.surfaces = slices.DeleteFunc(s.surfaces, func(other model.SurfaceID) bool { return other == id })

	entities := s.removeSurfacePoints(id, s.mgr.SurfacePoints(id))
	for _, e := range entities {
		s.mgr.RemoveFromSurface(e, id)
	}
	slog.Debug("surface removed", "area", s.def.ID, "surface", id, "entities", len(entities))
	return entities
}

// Surfaces returns the surfaces registered in this area.
func (s *State) Surfaces() []model.SurfaceID {
	return slices.Clone(s.surfaces)
}

// translateAura shifts an aura by (dx, dy) and diffs the entities under it.
func (s *State) translateAura(id model.SurfaceID, dx, dy int32) {
	points := s.mgr.SurfacePoints(id)
	oldEntities := s.removeSurfacePoints(id, points)

	moved := make([]geo.Point, len(points))
	for i, p := range points {
		moved[i] = p.Add(dx, dy)
	}
	s.mgr.SetSurfacePoints(id, moved)
	newEntities := s.addSurfacePoints(id, moved)

	slog.Debug("update aura", "area", s.def.ID, "surface", id, "dx", dx, "dy", dy)

	for _, e := range difference(oldEntities, newEntities) {
		s.mgr.RemoveFromSurface(e, id)
	}
	for _, e := range difference(newEntities, oldEntities) {
		s.mgr.AddToSurface(e, id)
	}
}

func (s *State) addSurfacePoints(id model.SurfaceID, points []geo.Point) []model.EntityID {
	entities := make(map[model.EntityID]struct{})
	for _, p := range points {
		if !s.CoordsValid(p.X, p.Y) {
			continue
		}
		idx := s.index(p.X, p.Y)
		if !slices.Contains(s.surfaceGrid[idx], id) {
			s.surfaceGrid[idx] = append(s.surfaceGrid[idx], id)
		}
		for _, e := range s.entityGrid[idx] {
			entities[e] = struct{}{}
		}
	}
	return sortedKeys(entities)
}

func (s *State) removeSurfacePoints(id model.SurfaceID, points []geo.Point) []model.EntityID {
	entities := make(map[model.EntityID]struct{})
	for _, p := range points {
		if !s.CoordsValid(p.X, p.Y) {
			continue
		}
		idx := s.index(p.X, p.Y)
		s.surfaceGrid[idx] = slices.DeleteFunc(s.surfaceGrid[idx], func(other model.SurfaceID) bool {
			return other == id
		})
		for _, e := range s.entityGrid[idx] {
			entities[e] = struct{}{}
		}
	}
	return sortedKeys(entities)
}
