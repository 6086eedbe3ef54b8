package geo

// LineIterator walks the cells of a 2D Bresenham line from start to end,
// both inclusive.
type LineIterator struct {
	currentX, currentY int32
	targetX, targetY   int32
	deltaX, deltaY     int32
	stepX, stepY       int32
	err                int32
	xDominant          bool
	started            bool
}

// NewLineIterator creates a Bresenham iterator from (sx, sy) to (ex, ey).
func NewLineIterator(sx, sy, ex, ey int32) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentY: sy,
		targetX: ex, targetY: ey,
		deltaX: abs32(ex - sx),
		deltaY: abs32(ey - sy),
		stepX:  1,
		stepY:  1,
	}
	if ex < sx {
		it.stepX = -1
	}
	if ey < sy {
		it.stepY = -1
	}

	it.xDominant = it.deltaX >= it.deltaY
	if it.xDominant {
		it.err = it.deltaX / 2
	} else {
		it.err = it.deltaY / 2
	}
	return it
}

// Next advances to the next cell. The first call yields the start cell;
// returns false once the target has been yielded.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true
	}

	if it.currentX == it.targetX && it.currentY == it.targetY {
		return false
	}

	if it.xDominant {
		it.currentX += it.stepX
		it.err += it.deltaY
		if it.err >= it.deltaX {
			it.currentY += it.stepY
			it.err -= it.deltaX
		}
	} else {
		it.currentY += it.stepY
		it.err += it.deltaX
		if it.err >= it.deltaY {
			it.currentX += it.stepX
			it.err -= it.deltaY
		}
	}
	return true
}

// X returns current X position.
func (it *LineIterator) X() int32 { return it.currentX }

// Y returns current Y position.
func (it *LineIterator) Y() int32 { return it.currentY }
