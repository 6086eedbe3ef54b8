package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func blockSet(points ...Point) BlockFunc {
	set := make(map[Point]bool, len(points))
	for _, p := range points {
		set[p] = true
	}
	return func(x, y int32) bool { return set[Pt(x, y)] }
}

func TestHasLineOfSight(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int32
		blocks         BlockFunc
		want           bool
	}{
		{"same cell", 3, 3, 3, 3, blockSet(Pt(3, 3)), true},
		{"clear row", 0, 0, 6, 0, blockSet(), true},
		{"wall between", 0, 0, 6, 0, blockSet(Pt(3, 0)), false},
		{"blocked target still visible", 0, 0, 6, 0, blockSet(Pt(6, 0)), true},
		{"blocked origin ignored", 0, 0, 6, 0, blockSet(Pt(0, 0)), true},
		{"wall beside the line", 0, 0, 6, 0, blockSet(Pt(3, 1)), true},
		{"diagonal blocked", 0, 0, 4, 4, blockSet(Pt(2, 2)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasLineOfSight(tt.x1, tt.y1, tt.x2, tt.y2, tt.blocks))
		})
	}
}
