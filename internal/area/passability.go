package area

import (
	"slices"

	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
)

// IsTerrainPassable checks only the base layer for an object of the given size.
func (s *State) IsTerrainPassable(size *module.ObjectSize, x, y int32) bool {
	if !s.CoordsValid(x, y) {
		return false
	}
	return s.def.Terrain().IsPassable(size, x, y)
}

// IsPlaceable reports whether an object of the given size fits at (x, y)
// considering terrain and props. Entities are not considered.
func (s *State) IsPlaceable(size *module.ObjectSize, x, y int32) bool {
	if !s.IsTerrainPassable(size, x, y) {
		return false
	}
	for _, p := range size.Points(x, y) {
		if !s.propPass[s.index(p.X, p.Y)] {
			return false
		}
	}
	return true
}

// IsPassable reports whether the requester may stand with its anchor at
// (x, y): terrain, prop overlay and no occupants other than the ignored ones.
func (s *State) IsPassable(requester *model.Entity, ignore []model.EntityID, x, y int32) bool {
	if !s.IsTerrainPassable(requester.Size, x, y) {
		return false
	}
	for _, p := range requester.PointsAt(x, y) {
		if !s.pointEntitiesPassable(ignore, p.X, p.Y) {
			return false
		}
	}
	return true
}

// IsPassableSize is IsPassable for an anonymous object that must not
// overlap any entity.
func (s *State) IsPassableSize(size *module.ObjectSize, x, y int32) bool {
	if !s.IsTerrainPassable(size, x, y) {
		return false
	}
	for _, p := range size.Points(x, y) {
		if !s.pointEntitiesPassable(nil, p.X, p.Y) {
			return false
		}
	}
	return true
}

// PropPassable reports the prop passability overlay at (x, y).
func (s *State) PropPassable(x, y int32) bool {
	if !s.CoordsValid(x, y) {
		return false
	}
	return s.propPass[s.index(x, y)]
}

// PropTransparent reports the prop visibility overlay at (x, y).
func (s *State) PropTransparent(x, y int32) bool {
	if !s.CoordsValid(x, y) {
		return false
	}
	return s.propVis[s.index(x, y)]
}

func (s *State) pointEntitiesPassable(ignore []model.EntityID, x, y int32) bool {
	if !s.CoordsValid(x, y) {
		return false
	}
	idx := s.index(x, y)
	if !s.propPass[idx] {
		return false
	}
	for _, id := range s.entityGrid[idx] {
		if !slices.Contains(ignore, id) {
			return false
		}
	}
	return true
}
