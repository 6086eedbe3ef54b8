package area

import (
	"log/slog"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
)

// BumpPartyOverlap de-stacks party members whose footprints overlap, as
// free movement allows stacking that combat does not. For each overlapping
// pair the earlier roster member is moved to the nearest free anchor and
// runs the full move protocol. Members with no room stay and are logged.
// Returns the number of members moved.
func (s *State) BumpPartyOverlap() int {
	slog.Debug("combat initiated, checking for party overlap", "area", s.def.ID)
	party := s.partyInArea()
	if len(party) < 2 {
		return 0
	}

	toBump := make([]bool, len(party))
	for i := 0; i < len(party)-1; i++ {
		a := party[i]
		for j := i + 1; j < len(party); j++ {
			b := party[j]
			if geo.RectsOverlap(
				a.Location.X, a.Location.Y, a.Size.Width, a.Size.Height,
				b.Location.X, b.Location.Y, b.Size.Width, b.Size.Height,
			) {
				toBump[i] = true
			}
		}
	}

	bumped := 0
	for i, member := range party {
		if !toBump[i] {
			continue
		}
		oldX, oldY := member.Location.X, member.Location.Y
		p, ok := s.FindFreeSpot(member, oldX, oldY, s.bumpRadius)
		if !ok {
			slog.Warn("unable to bump party member to avoid overlap", "entity", member.Name(), "x", oldX, "y", oldY)
			continue
		}

		slog.Info("bumping party member", "entity", member.Name(), "from_x", oldX, "from_y", oldY, "to_x", p.X, "to_y", p.Y)
		member.Location = member.Location.WithCoordinates(p.X, p.Y)
		s.updateEntityPosition(member, oldX, oldY)
		bumped++
	}
	return bumped
}

// FindFreeSpot scans square rings of radius 1..maxRadius around (x, y),
// rows top to bottom and cells left to right, and returns the first
// anchor where e fits ignoring its own occupancy.
func (s *State) FindFreeSpot(e *model.Entity, x, y, maxRadius int32) (geo.Point, bool) {
	ignore := []model.EntityID{e.ID}
	return s.FindSpot(x, y, maxRadius, func(cx, cy int32) bool {
		return s.IsPassable(e, ignore, cx, cy)
	})
}

// FindSpot walks the same rings as FindFreeSpot and returns the first
// cell accepted by fits.
func (s *State) FindSpot(x, y, maxRadius int32, fits func(x, y int32) bool) (geo.Point, bool) {
	for r := int32(1); r <= maxRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs32(dx), abs32(dy)) != r {
					continue
				}
				if fits(x+dx, y+dy) {
					return geo.Pt(x+dx, y+dy), true
				}
			}
		}
	}
	return geo.Point{}, false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
