package model

import "github.com/udisondev/tacgrid/internal/game/geo"

// Location is an entity anchor: the top-left cell of its footprint.
// Value type, passed by value.
type Location struct {
	AreaID string
	X      int32
	Y      int32
}

// NewLocation creates a Location in the given area.
func NewLocation(areaID string, x, y int32) Location {
	return Location{AreaID: areaID, X: x, Y: y}
}

// Point returns the anchor cell.
func (l Location) Point() geo.Point {
	return geo.Pt(l.X, l.Y)
}

// WithCoordinates returns a copy moved to (x, y) in the same area.
func (l Location) WithCoordinates(x, y int32) Location {
	l.X = x
	l.Y = y
	return l
}
