package module

import (
	"fmt"
	"math"

	"github.com/udisondev/tacgrid/internal/game/geo"
)

// ObjectSize is a rectangular footprint shared by actors and props.
type ObjectSize struct {
	ID       string  `yaml:"id"`
	Width    int32   `yaml:"width"`
	Height   int32   `yaml:"height"`
	Diagonal float32 `yaml:"-"`

	relative []geo.Point
}

// NewObjectSize builds a footprint and precomputes its relative cells.
func NewObjectSize(id string, width, height int32) (*ObjectSize, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %q is %dx%d", ErrInvalidSize, id, width, height)
	}

	s := &ObjectSize{
		ID:       id,
		Width:    width,
		Height:   height,
		Diagonal: float32(math.Sqrt(float64(width*width + height*height))),
		relative: make([]geo.Point, 0, width*height),
	}
	for y := range height {
		for x := range width {
			s.relative = append(s.relative, geo.Pt(x, y))
		}
	}
	return s, nil
}

// RelativePoints returns the footprint cells relative to the anchor.
// The slice is shared; callers must not modify it.
func (s *ObjectSize) RelativePoints() []geo.Point {
	return s.relative
}

// Points returns the footprint cells for an anchor at (x, y), row by row.
func (s *ObjectSize) Points(x, y int32) []geo.Point {
	points := make([]geo.Point, len(s.relative))
	for i, p := range s.relative {
		points[i] = geo.Pt(x+p.X, y+p.Y)
	}
	return points
}

// Contains reports whether the relative cell (dx, dy) is part of the footprint.
func (s *ObjectSize) Contains(dx, dy int32) bool {
	return dx >= 0 && dy >= 0 && dx < s.Width && dy < s.Height
}
