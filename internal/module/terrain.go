package module

import (
	"fmt"

	"github.com/udisondev/tacgrid/internal/game/geo"
)

// Terrain tile glyphs used in area files.
const (
	TileFloor = '.'
	TileWall  = '#' // blocks movement and sight
	TileChasm = '~' // blocks movement only
	TileGrass = '"' // blocks sight only
)

// Terrain is the static base layer of an area.
//
// Path grids answer "can an object of this size stand with its anchor
// here" and are built once per size when the area joins a catalog.
type Terrain struct {
	width       int32
	height      int32
	passable    []bool
	transparent []bool
	pathGrids   map[string][]bool
}

// ParseTerrain builds terrain from glyph rows. Rows must match the
// declared dimensions exactly.
func ParseTerrain(rows []string, width, height int32) (*Terrain, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidArea, width, height)
	}
	if int32(len(rows)) != height {
		return nil, fmt.Errorf("%w: %d terrain rows, want %d", ErrInvalidArea, len(rows), height)
	}

	n := int(width) * int(height)
	t := &Terrain{
		width:       width,
		height:      height,
		passable:    make([]bool, n),
		transparent: make([]bool, n),
		pathGrids:   make(map[string][]bool),
	}

	for y, row := range rows {
		if int32(len(row)) != width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrInvalidArea, y, len(row), width)
		}
		for x := range len(row) {
			idx := x + y*int(width)
			switch row[x] {
			case TileFloor:
				t.passable[idx], t.transparent[idx] = true, true
			case TileWall:
			case TileChasm:
				t.transparent[idx] = true
			case TileGrass:
				t.passable[idx] = true
			default:
				return nil, fmt.Errorf("%w: unknown tile %q at %d,%d", ErrInvalidArea, row[x], x, y)
			}
		}
	}
	return t, nil
}

// Width returns the terrain width.
func (t *Terrain) Width() int32 { return t.width }

// Height returns the terrain height.
func (t *Terrain) Height() int32 { return t.height }

// BuildPathGrid precomputes passability for the given size.
func (t *Terrain) BuildPathGrid(size *ObjectSize) {
	grid := make([]bool, len(t.passable))
	for y := range t.height {
		for x := range t.width {
			grid[geo.CellIndex(x, y, t.width)] = t.footprintPassable(size, x, y)
		}
	}
	t.pathGrids[size.ID] = grid
}

// IsPassable reports whether an object of the given size may have its
// anchor at (x, y). Sizes without a prebuilt grid are checked cell by cell.
func (t *Terrain) IsPassable(size *ObjectSize, x, y int32) bool {
	if !geo.InBounds(x, y, t.width, t.height) {
		return false
	}
	if grid, ok := t.pathGrids[size.ID]; ok {
		return grid[geo.CellIndex(x, y, t.width)]
	}
	return t.footprintPassable(size, x, y)
}

// IsTransparent reports whether (x, y) lets sight through.
// Out of bounds cells are opaque.
func (t *Terrain) IsTransparent(x, y int32) bool {
	if !geo.InBounds(x, y, t.width, t.height) {
		return false
	}
	return t.transparent[geo.CellIndex(x, y, t.width)]
}

func (t *Terrain) footprintPassable(size *ObjectSize, x, y int32) bool {
	if !geo.RectInBounds(x, y, size.Width, size.Height, t.width, t.height) {
		return false
	}
	for _, p := range size.RelativePoints() {
		if !t.passable[geo.CellIndex(x+p.X, y+p.Y, t.width)] {
			return false
		}
	}
	return true
}
