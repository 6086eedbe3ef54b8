package geo

// Point is an integer cell coordinate on an area grid.
type Point struct {
	X int32 `yaml:"x"`
	Y int32 `yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy int32) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// CellIndex converts (x, y) to the linear cell index x + y*width.
// No bounds checking is done.
func CellIndex(x, y, width int32) int {
	return int(x) + int(y)*int(width)
}

// CellPoint converts a linear cell index back to coordinates.
func CellPoint(index int, width int32) Point {
	w := int(width)
	return Point{X: int32(index % w), Y: int32(index / w)}
}

// InBounds reports whether (x, y) lies inside a width×height grid.
func InBounds(x, y, width, height int32) bool {
	return x >= 0 && y >= 0 && x < width && y < height
}

// RectInBounds reports whether the w×h rectangle anchored at (x, y)
// lies completely inside a width×height grid.
func RectInBounds(x, y, w, h, width, height int32) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	return InBounds(x, y, width, height) && x+w <= width && y+h <= height
}

// RectsOverlap reports whether two axis-aligned rectangles intersect.
func RectsOverlap(ax, ay, aw, ah, bx, by, bw, bh int32) bool {
	// one box is left of the other
	if ax >= bx+bw || bx >= ax+aw {
		return false
	}
	// one box is above the other
	if ay >= by+bh || by >= ay+ah {
		return false
	}
	return true
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
