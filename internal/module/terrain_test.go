package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerrain(t *testing.T) {
	terrain, err := ParseTerrain([]string{
		`..#`,
		`.~"`,
	}, 3, 2)
	require.NoError(t, err)

	one, err := NewObjectSize("1x1", 1, 1)
	require.NoError(t, err)

	tests := []struct {
		name        string
		x, y        int32
		passable    bool
		transparent bool
	}{
		{"floor", 0, 0, true, true},
		{"wall", 2, 0, false, false},
		{"chasm", 1, 1, false, true},
		{"grass", 2, 1, true, false},
		{"out of bounds", 3, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.passable, terrain.IsPassable(one, tt.x, tt.y))
			assert.Equal(t, tt.transparent, terrain.IsTransparent(tt.x, tt.y))
		})
	}
}

func TestParseTerrainErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		w, h int32
	}{
		{"row count", []string{"..."}, 3, 2},
		{"row width", []string{"...", ".."}, 3, 2},
		{"unknown glyph", []string{"..x", "..."}, 3, 2},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTerrain(tt.rows, tt.w, tt.h)
			assert.ErrorIs(t, err, ErrInvalidArea)
		})
	}
}

func TestPathGridLargeSize(t *testing.T) {
	terrain, err := ParseTerrain([]string{
		`....`,
		`..#.`,
		`....`,
	}, 4, 3)
	require.NoError(t, err)

	two, err := NewObjectSize("2x2", 2, 2)
	require.NoError(t, err)

	lazy := terrain.IsPassable(two, 0, 0)
	terrain.BuildPathGrid(two)

	assert.Equal(t, lazy, terrain.IsPassable(two, 0, 0))
	assert.True(t, terrain.IsPassable(two, 0, 0))
	assert.False(t, terrain.IsPassable(two, 1, 0), "covers the wall")
	assert.False(t, terrain.IsPassable(two, 2, 1), "covers the wall")
	assert.False(t, terrain.IsPassable(two, 3, 0), "sticks out of the area")
	assert.True(t, terrain.IsPassable(two, 0, 1))
}
