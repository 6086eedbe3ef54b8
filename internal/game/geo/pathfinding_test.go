package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridChecker is a LocationChecker over a fixed set of blocked cells.
type gridChecker struct {
	width, height int32
	blocked       map[Point]bool
	queries       map[Point]int
}

func newGridChecker(width, height int32) *gridChecker {
	return &gridChecker{
		width:   width,
		height:  height,
		blocked: make(map[Point]bool),
		queries: make(map[Point]int),
	}
}

func (c *gridChecker) Goal(x, y float32) (float32, float32) { return x, y }

func (c *gridChecker) Passable(x, y int32) bool {
	c.queries[Pt(x, y)]++
	if !InBounds(x, y, c.width, c.height) {
		return false
	}
	return !c.blocked[Pt(x, y)]
}

func (c *gridChecker) block(points ...Point) {
	for _, p := range points {
		c.blocked[p] = true
	}
}

func assertContiguous(t *testing.T, path []Point) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		dx := abs32(path[i].X - path[i-1].X)
		dy := abs32(path[i].Y - path[i-1].Y)
		assert.Equal(t, int32(1), dx+dy, "step %d: %v -> %v is not a cardinal step", i, path[i-1], path[i])
	}
}

func TestFindManhattanBaseline(t *testing.T) {
	pf := NewPathFinder(10, 10)
	checker := newGridChecker(10, 10)

	path := pf.Find(checker, 0, 0, 5, 5, 0)
	require.NotNil(t, path)

	// 10 unit steps plus the start cell
	assert.Len(t, path, 11)
	assert.Equal(t, Pt(0, 0), path[0])
	assert.Equal(t, Pt(5, 5), path[len(path)-1])
	assertContiguous(t, path)

	// each cell on an open-grid route costs exactly its step count
	for i, p := range path {
		cell := int32(CellIndex(p.X, p.Y, pf.width))
		assert.Equal(t, int32(i)*StepCost, pf.g(cell), "g at step %d (%v)", i, p)
	}
}

func TestFindObstacleRouting(t *testing.T) {
	pf := NewPathFinder(10, 10)
	checker := newGridChecker(10, 10)
	for x := range int32(10) {
		if x != 7 {
			checker.block(Pt(x, 3))
		}
	}

	path := pf.Find(checker, 1, 0, 1, 6, 0)
	require.NotNil(t, path)
	assertContiguous(t, path)
	assert.Contains(t, path, Pt(7, 3), "the only gap in row 3 must be used")
	for _, p := range path {
		if p.Y == 3 {
			assert.Equal(t, int32(7), p.X)
		}
	}
	assert.Equal(t, Pt(1, 6), path[len(path)-1])
}

func TestFindIterationCap(t *testing.T) {
	const size = 21
	checker := newGridChecker(size, size)
	// Serpentine maze: every odd row is a wall with a single gap that
	// alternates between the right and left edge.
	for y := int32(1); y < size; y += 2 {
		gap := int32(size - 1)
		if (y/2)%2 == 1 {
			gap = 0
		}
		for x := range int32(size) {
			if x != gap {
				checker.block(Pt(x, y))
			}
		}
	}

	pf := NewPathFinder(size, size)
	pf.SetMaxIterations(50)
	assert.Nil(t, pf.Find(checker, 0, 0, 0, size-1, 0), "budget too small, must give up")

	pf.SetMaxIterations(DefaultMaxIterations)
	path := pf.Find(checker, 0, 0, 0, size-1, 0)
	require.NotNil(t, path, "with the default budget the maze is solvable")
	assertContiguous(t, path)
}

func TestFindAlreadyThere(t *testing.T) {
	pf := NewPathFinder(10, 10)
	checker := newGridChecker(10, 10)

	assert.Nil(t, pf.Find(checker, 4, 4, 4, 4, 0))
	assert.Nil(t, pf.Find(checker, 4, 4, 5, 4, 1.5), "start within dest_dist")
}

func TestFindDestinationOutOfBounds(t *testing.T) {
	pf := NewPathFinder(10, 10)
	checker := newGridChecker(10, 10)

	tests := []struct {
		name string
		x, y float32
	}{
		{"negative x", -1, 3},
		{"negative y", 3, -0.5},
		{"x past width", 10, 3},
		{"y past height", 3, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, pf.Find(checker, 0, 0, tt.x, tt.y, 0))
		})
	}
	assert.Empty(t, checker.queries, "no search may be attempted")
}

func TestFindNoPath(t *testing.T) {
	pf := NewPathFinder(6, 6)
	checker := newGridChecker(6, 6)
	for x := range int32(6) {
		checker.block(Pt(x, 2))
	}

	assert.Nil(t, pf.Find(checker, 0, 0, 0, 5, 0))
}

func TestFindAcceptanceRadius(t *testing.T) {
	pf := NewPathFinder(20, 20)
	checker := newGridChecker(20, 20)

	path := pf.Find(checker, 0, 0, 10, 0, 3)
	require.NotNil(t, path)
	last := path[len(path)-1]
	dx := float32(last.X) - 10
	dy := float32(last.Y)
	assert.LessOrEqual(t, dx*dx+dy*dy, float32(9))
	assert.Equal(t, Pt(7, 0), last, "first cell inside the radius is accepted")
}

func TestFindQueriesPassabilityOnce(t *testing.T) {
	pf := NewPathFinder(8, 8)
	checker := newGridChecker(8, 8)
	checker.block(Pt(3, 3), Pt(3, 4), Pt(4, 3))

	path := pf.Find(checker, 0, 0, 7, 7, 0)
	require.NotNil(t, path)
	for p, n := range checker.queries {
		assert.Equal(t, 1, n, "cell %v queried %d times", p, n)
	}
}

func TestFindReusesState(t *testing.T) {
	pf := NewPathFinder(10, 10)
	open := newGridChecker(10, 10)
	walled := newGridChecker(10, 10)
	for y := range int32(10) {
		walled.block(Pt(5, y))
	}

	first := pf.Find(open, 0, 0, 9, 0, 0)
	require.NotNil(t, first)
	assert.Nil(t, pf.Find(walled, 0, 0, 9, 0, 0))

	again := pf.Find(open, 0, 0, 9, 0, 0)
	assert.Equal(t, first, again, "searches are deterministic and independent")
}

func TestScoreInvariant(t *testing.T) {
	pf := NewPathFinder(12, 12)
	checker := newGridChecker(12, 12)
	checker.block(Pt(5, 4), Pt(5, 5), Pt(5, 6), Pt(5, 7))

	require.NotNil(t, pf.Find(checker, 1, 6, 10, 6, 0))
	for cell := range pf.scoreGen {
		if pf.scoreGen[cell] != pf.generation {
			continue
		}
		c := int32(cell)
		assert.Equal(t, pf.f(c), pf.g(c)+pf.distSquared(c), "cell %d", cell)
	}
}

func TestGenerationWrap(t *testing.T) {
	pf := NewPathFinder(5, 5)
	checker := newGridChecker(5, 5)
	pf.generation = ^uint32(0)

	path := pf.Find(checker, 0, 0, 4, 4, 0)
	require.NotNil(t, path)
	assert.Equal(t, uint32(1), pf.generation)
	assert.Len(t, path, 9)
}

func TestNeighborsAtEdges(t *testing.T) {
	pf := NewPathFinder(4, 3)

	tests := []struct {
		name string
		cell int32
		want [4]int32
	}{
		{"top-left", 0, [4]int32{-1, 4, 1, -1}},
		{"top-right", 3, [4]int32{-1, 7, -1, 2}},
		{"center", 5, [4]int32{1, 9, 6, 4}},
		{"bottom-left", 8, [4]int32{4, -1, 9, -1}},
		{"second row first column", 4, [4]int32{0, 8, 5, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pf.neighbors(tt.cell))
		})
	}
}
