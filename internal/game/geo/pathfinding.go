package geo

import (
	"container/heap"
	"log/slog"
)

// LocationChecker supplies per-search goal normalization and passability.
// A fresh checker is normally built for each search by the caller.
type LocationChecker interface {
	// Goal snaps the requested destination to the position used for the
	// heuristic and the goal test.
	Goal(x, y float32) (float32, float32)

	// Passable reports whether the requester may stand at (x, y).
	Passable(x, y int32) bool
}

// PathFinder is a reusable A* search over a fixed width×height grid.
// Not safe for concurrent use; keep one per area (or per goroutine).
//
// Score arrays are never bulk-reset: every cell records the search
// generation it was last written in, and a stale generation reads as
// infinity.
type PathFinder struct {
	width  int32
	height int32

	gScore []int32
	fScore []int32
	parent []int32

	scoreGen  []uint32 // generation the scores/parent were written in
	closedGen []uint32 // generation the cell was closed in
	passGen   []uint32 // generation the cell was found passable in
	openGen   []uint32 // generation the cell entered the open set in
	heapPos   []int32

	generation uint32
	open       openHeap

	goalX float32
	goalY float32

	maxIterations int
}

// NewPathFinder preallocates working state for a width×height grid.
func NewPathFinder(width, height int32) *PathFinder {
	n := int(width) * int(height)
	pf := &PathFinder{
		width:         width,
		height:        height,
		gScore:        make([]int32, n),
		fScore:        make([]int32, n),
		parent:        make([]int32, n),
		scoreGen:      make([]uint32, n),
		closedGen:     make([]uint32, n),
		passGen:       make([]uint32, n),
		openGen:       make([]uint32, n),
		heapPos:       make([]int32, n),
		maxIterations: DefaultMaxIterations,
	}
	pf.open = openHeap{entries: make([]openEntry, 0, 64), pos: pf.heapPos}
	return pf
}

// Width returns the grid width.
func (pf *PathFinder) Width() int32 { return pf.width }

// Height returns the grid height.
func (pf *PathFinder) Height() int32 { return pf.height }

// MaxIterations returns the current expansion budget.
func (pf *PathFinder) MaxIterations() int { return pf.maxIterations }

// SetMaxIterations overrides the expansion budget (default: DefaultMaxIterations).
func (pf *PathFinder) SetMaxIterations(iterations int) {
	pf.maxIterations = iterations
}

// Find searches a 4-directional path from (startX, startY) to any cell whose
// squared distance to the normalized goal is at most destDist².
//
// Returns the cells from start to the accepted goal in traversal order, or
// nil when the destination is out of bounds, no path exists, the iteration
// budget ran out, or the start cell already satisfies the goal test.
//
// The heuristic is the squared Euclidean distance while steps cost 1, so the
// result is fast and usually short but not guaranteed to be the shortest.
func (pf *PathFinder) Find(checker LocationChecker, startX, startY int32, destX, destY, destDist float32) []Point {
	if destX < 0 || destY < 0 {
		return nil
	}
	if destX >= float32(pf.width) || destY >= float32(pf.height) {
		return nil
	}
	if !InBounds(startX, startY, pf.width, pf.height) {
		return nil
	}

	pf.goalX, pf.goalY = checker.Goal(destX, destY)
	destDistSquared := int32(destDist * destDist)
	start := int32(CellIndex(startX, startY, pf.width))

	pf.nextGeneration()
	pf.open.entries = pf.open.entries[:0]

	pf.setScore(start, 0, -1)
	pf.pushOpen(start)

	iterations := 0
	for iterations < pf.maxIterations && pf.open.Len() > 0 {
		current := pf.popOpen()
		if pf.distSquared(current) <= destDistSquared {
			path := pf.reconstruct(current)
			if len(path) == 1 && path[0].X == startX && path[0].Y == startY {
				slog.Debug("path find: already at destination", "x", startX, "y", startY)
				return nil
			}
			return path
		}

		pf.closedGen[current] = pf.generation

		for _, neighbor := range pf.neighbors(current) {
			if neighbor < 0 || pf.closedGen[neighbor] == pf.generation {
				continue
			}

			if pf.passGen[neighbor] != pf.generation {
				p := CellPoint(int(neighbor), pf.width)
				if !checker.Passable(p.X, p.Y) {
					pf.closedGen[neighbor] = pf.generation
					continue
				}
				pf.passGen[neighbor] = pf.generation
			}

			tentative := pf.g(current) + pf.cost(current, neighbor)
			if tentative >= pf.g(neighbor) {
				pf.pushOpen(neighbor)
				continue
			}

			pf.setScore(neighbor, tentative, current)
			pf.pushOpen(neighbor)
		}

		iterations++
	}

	slog.Debug("path find: no path",
		"from_x", startX, "from_y", startY,
		"to_x", destX, "to_y", destY,
		"iterations", iterations, "open", pf.open.Len())
	return nil
}

// nextGeneration starts a new search. Arrays are only wiped when the
// generation counter wraps.
func (pf *PathFinder) nextGeneration() {
	pf.generation++
	if pf.generation != 0 {
		return
	}
	clear(pf.scoreGen)
	clear(pf.closedGen)
	clear(pf.passGen)
	clear(pf.openGen)
	pf.generation = 1
}

func (pf *PathFinder) g(cell int32) int32 {
	if pf.scoreGen[cell] != pf.generation {
		return scoreInfinity
	}
	return pf.gScore[cell]
}

func (pf *PathFinder) f(cell int32) int32 {
	if pf.scoreGen[cell] != pf.generation {
		return scoreInfinity
	}
	return pf.fScore[cell]
}

// setScore writes g and f together so that f == g + h always holds.
func (pf *PathFinder) setScore(cell, g, from int32) {
	pf.scoreGen[cell] = pf.generation
	pf.gScore[cell] = g
	pf.fScore[cell] = g + pf.distSquared(cell)
	pf.parent[cell] = from
}

func (pf *PathFinder) cost(_, _ int32) int32 {
	return StepCost
}

// neighbors returns top, bottom, right, left; -1 marks a missing neighbor.
func (pf *PathFinder) neighbors(cell int32) [4]int32 {
	width := pf.width
	n := [4]int32{-1, -1, -1, -1}

	top := cell - width
	bottom := cell + width
	right := cell + 1
	left := cell - 1

	if top >= 0 {
		n[0] = top
	}
	if bottom < width*pf.height {
		n[1] = bottom
	}
	if cell%width != width-1 {
		n[2] = right
	}
	if cell%width != 0 {
		n[3] = left
	}
	return n
}

func (pf *PathFinder) distSquared(cell int32) int32 {
	x := float32(cell % pf.width)
	y := float32(cell / pf.width)
	dx := x - pf.goalX
	dy := y - pf.goalY
	return int32(dx*dx + dy*dy)
}

func (pf *PathFinder) reconstruct(cell int32) []Point {
	path := make([]Point, 0, 32)
	for c := cell; c >= 0; c = pf.parent[c] {
		path = append(path, CellPoint(int(c), pf.width))
	}

	// Reverse (built goal → start)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// pushOpen inserts cell into the open set, or restores heap order when it
// is already there with an improved f-score.
func (pf *PathFinder) pushOpen(cell int32) {
	if pf.openGen[cell] == pf.generation {
		pos := pf.heapPos[cell]
		if pos >= 0 && pf.open.entries[pos].f != pf.f(cell) {
			pf.open.entries[pos].f = pf.f(cell)
			heap.Fix(&pf.open, int(pos))
		}
		return
	}
	pf.openGen[cell] = pf.generation
	heap.Push(&pf.open, openEntry{cell: cell, f: pf.f(cell)})
}

func (pf *PathFinder) popOpen() int32 {
	return heap.Pop(&pf.open).(openEntry).cell
}

type openEntry struct {
	cell int32
	f    int32
}

// openHeap is a min-heap by f-score; ties fall out in heap order.
// pos is shared with PathFinder.heapPos so membership and heap stay in sync.
type openHeap struct {
	entries []openEntry
	pos     []int32
}

func (h *openHeap) Len() int           { return len(h.entries) }
func (h *openHeap) Less(i, j int) bool { return h.entries[i].f < h.entries[j].f }
func (h *openHeap) Swap(i, j int) {
	e := h.entries
	e[i], e[j] = e[j], e[i]
	h.pos[e[i].cell] = int32(i)
	h.pos[e[j].cell] = int32(j)
}
func (h *openHeap) Push(x any) {
	entry := x.(openEntry)
	h.pos[entry.cell] = int32(len(h.entries))
	h.entries = append(h.entries, entry)
}
func (h *openHeap) Pop() any {
	old := h.entries
	n := len(old)
	entry := old[n-1]
	h.entries = old[:n-1]
	h.pos[entry.cell] = -1
	return entry
}
