package geo

// BlockFunc reports whether the cell at (x, y) blocks sight.
type BlockFunc func(x, y int32) bool

// HasLineOfSight traces a Bresenham line between two cells and reports
// whether no intermediate cell blocks sight. The endpoints themselves are
// never tested, so a viewer standing in a doorway can still see out.
func HasLineOfSight(x1, y1, x2, y2 int32, blocks BlockFunc) bool {
	if x1 == x2 && y1 == y2 {
		return true
	}

	it := NewLineIterator(x1, y1, x2, y2)
	it.Next() // Skip start point

	for it.Next() {
		cx, cy := it.X(), it.Y()
		if cx == x2 && cy == y2 {
			return true
		}
		if blocks(cx, cy) {
			return false
		}
	}
	return true
}
