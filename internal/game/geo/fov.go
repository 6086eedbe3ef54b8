package geo

// octants transform (dx, dy) of the canonical octant into the eight
// directions around the viewer.
var octants = [4][8]int32{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// FieldOfView describes a recursive shadowcasting request on a bounded grid.
type FieldOfView struct {
	Width, Height int32
	Radius        int32
	Blocks        BlockFunc
	// Visit is called for every visible cell; a cell may be visited more
	// than once when it lies on an octant border.
	Visit func(x, y int32)
}

// Cast computes the cells visible from (cx, cy). The origin is always
// visible; blocking cells are visible but hide whatever lies behind them.
func (f *FieldOfView) Cast(cx, cy int32) {
	if !InBounds(cx, cy, f.Width, f.Height) {
		return
	}
	f.Visit(cx, cy)
	if f.Radius <= 0 {
		return
	}

	for i := range 8 {
		f.castLight(cx, cy, 1, 1.0, 0.0,
			octants[0][i], octants[1][i], octants[2][i], octants[3][i])
	}
}

func (f *FieldOfView) castLight(cx, cy, row int32, start, end float64, xx, xy, yx, yy int32) {
	if start < end {
		return
	}

	radiusSq := f.Radius * f.Radius

	for j := row; j <= f.Radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			x := cx + dx*xx + dy*xy
			y := cy + dx*yx + dy*yy

			inside := InBounds(x, y, f.Width, f.Height)
			if inside && dx*dx+dy*dy <= radiusSq {
				f.Visit(x, y)
			}

			opaque := !inside || f.Blocks(x, y)
			if blocked {
				if opaque {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if opaque && j < f.Radius {
				blocked = true
				f.castLight(cx, cy, j+1, start, lSlope, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
