package area

import (
	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
)

// IsPCVisible reports whether any party member currently sees (x, y).
func (s *State) IsPCVisible(x, y int32) bool {
	if !s.CoordsValid(x, y) {
		return false
	}
	return s.pcVis[s.index(x, y)]
}

// IsPCExplored reports whether the party has ever seen (x, y).
func (s *State) IsPCExplored(x, y int32) bool {
	if !s.CoordsValid(x, y) {
		return false
	}
	return s.pcExplored[s.index(x, y)]
}

// MemberSees reports whether a particular party member sees (x, y).
func (s *State) MemberSees(id model.EntityID, x, y int32) bool {
	vis, ok := s.memberVis[id]
	if !ok || !s.CoordsValid(x, y) {
		return false
	}
	return vis[s.index(x, y)]
}

// ExploredCount returns how many cells have been explored.
func (s *State) ExploredCount() int {
	n := 0
	for _, v := range s.pcExplored {
		if v {
			n++
		}
	}
	return n
}

// RecomputeVisibility rebuilds every party member's sight and the merged
// grid from scratch. Used on area entry and after door toggles.
func (s *State) RecomputeVisibility() {
	for _, e := range s.partyInArea() {
		if _, ok := s.memberVis[e.ID]; !ok {
			s.memberVis[e.ID] = make([]bool, len(s.pcVis))
		}
		s.computeMemberVisibility(e, 0, 0, true)
	}
	s.updateView(0, 0, s.width-1, s.height-1)
	if s.redraw.Kind == RedrawNone {
		s.fullRedraw()
	}
}

// HasVisibility reports whether a clear line runs between the centers of
// two entities. Terrain and closed doors block it.
func (s *State) HasVisibility(viewer, target *model.Entity) bool {
	x1, y1 := s.sightOrigin(viewer)
	x2, y2 := s.sightOrigin(target)
	return geo.HasLineOfSight(x1, y1, x2, y2, s.blocksSight)
}

func (s *State) blocksSight(x, y int32) bool {
	if !s.CoordsValid(x, y) {
		return true
	}
	return !s.def.Terrain().IsTransparent(x, y) || !s.propVis[s.index(x, y)]
}

func (s *State) sightOrigin(e *model.Entity) (int32, int32) {
	return e.Location.X + e.Size.Width/2, e.Location.Y + e.Size.Height/2
}

func (s *State) sightRadius(e *model.Entity) int32 {
	if e.VisionRadius > 0 {
		return e.VisionRadius
	}
	return s.visionRadius
}

// computeMemberVisibility recasts one member's sight. A full pass clears the
// whole grid; an incremental pass after a move by (dx, dy) only clears the
// window around the previous origin, which bounds everything it could see.
// Newly seen cells and props touching them become explored.
func (s *State) computeMemberVisibility(e *model.Entity, dx, dy int32, full bool) {
	vis, ok := s.memberVis[e.ID]
	if !ok {
		return
	}

	r := s.sightRadius(e)
	cx, cy := s.sightOrigin(e)

	if full {
		clear(vis)
	} else {
		s.clearWindow(vis, cx-dx-r, cy-dy-r, cx-dx+r, cy-dy+r)
	}

	seenProps := make(map[model.PropID]struct{})
	fov := geo.FieldOfView{
		Width:  s.width,
		Height: s.height,
		Radius: r,
		Blocks: s.blocksSight,
		Visit: func(x, y int32) {
			idx := s.index(x, y)
			vis[idx] = true
			s.pcExplored[idx] = true
			if prop := s.propGrid[idx]; prop != model.NoProp {
				seenProps[prop] = struct{}{}
			}
		},
	}
	fov.Cast(cx, cy)

	// partially visible props are explored in full
	for id := range seenProps {
		prop := s.Prop(id)
		if prop == nil {
			continue
		}
		for _, p := range prop.Points() {
			s.pcExplored[s.index(p.X, p.Y)] = true
		}
	}
}

// updateView re-merges member sight into the shared grid for the
// rectangle (x0, y0)-(x1, y1), clipped to the area.
func (s *State) updateView(x0, y0, x1, y1 int32) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, s.width-1), min(y1, s.height-1)

	members := s.partyInArea()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			idx := s.index(x, y)
			seen := false
			for _, m := range members {
				if vis, ok := s.memberVis[m.ID]; ok && vis[idx] {
					seen = true
					break
				}
			}
			s.pcVis[idx] = seen
		}
	}
}

func (s *State) clearWindow(vis []bool, x0, y0, x1, y1 int32) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, s.width-1), min(y1, s.height-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			vis[s.index(x, y)] = false
		}
	}
}
