package area

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
)

// Populate adds the definition's actors, props, triggers, transitions and
// auto-spawn encounters. Bad actors and props are skipped with a warning.
func (s *State) Populate() {
	for _, placement := range s.def.Actors {
		tpl, err := s.catalog.Actor(placement.ID)
		if err != nil {
			slog.Warn("skip actor", "area", s.def.ID, "actor", placement.ID, "err", err)
			continue
		}
		x, y := placement.Location.X, placement.Location.Y
		if _, err := s.AddActor(tpl, x, y, placement.UniqueID, false, model.NoAIGroup); err != nil {
			slog.Warn("skip actor", "area", s.def.ID, "actor", placement.ID, "err", err)
		}
	}

	for _, placement := range s.def.Props {
		tpl, err := s.catalog.Prop(placement.ID)
		if err != nil {
			slog.Warn("skip prop", "area", s.def.ID, "prop", placement.ID, "err", err)
			continue
		}
		x, y := placement.Location.X, placement.Location.Y
		if _, err := s.AddProp(tpl, x, y, !placement.Disabled, false); err != nil {
			slog.Warn("skip prop", "area", s.def.ID, "prop", placement.ID, "err", err)
		}
	}

	for i, tr := range s.def.Triggers {
		s.addTrigger(i, TriggerState{Enabled: tr.InitiallyEnabled()})
	}

	s.addTransitions()

	for i, enc := range s.def.Encounters {
		if enc.AutoSpawn {
			if _, err := s.SpawnEncounter(i); err != nil {
				slog.Warn("spawn encounter", "area", s.def.ID, "encounter", i, "err", err)
			}
		}
	}
}

// SpawnEncounter places the encounter's actors at random free spots in its
// rectangle. Actors that do not fit are skipped with a warning.
func (s *State) SpawnEncounter(index int) ([]model.EntityID, error) {
	enc, err := s.encounter(index)
	if err != nil {
		return nil, err
	}
	group := s.mgr.NextAIGroup(s.def.ID, index)

	var spawned []model.EntityID
	for _, actorID := range enc.Actors {
		tpl, err := s.catalog.Actor(actorID)
		if err != nil {
			slog.Warn("skip encounter actor", "area", s.def.ID, "encounter", index, "err", err)
			continue
		}
		p, ok := s.genLocation(tpl.Size, enc)
		if !ok {
			slog.Warn("unable to generate location for encounter",
				"area", s.def.ID, "encounter", index, "x", enc.Location.X, "y", enc.Location.Y)
			continue
		}
		id, err := s.AddActor(tpl, p.X, p.Y, "", false, group)
		if err != nil {
			slog.Warn("error adding actor for spawned encounter", "area", s.def.ID, "err", err)
			continue
		}
		spawned = append(spawned, id)
	}
	return spawned, nil
}

// SpawnEncounterAt spawns the encounter anchored at (x, y), if any.
func (s *State) SpawnEncounterAt(x, y int32) (bool, error) {
	for i, enc := range s.def.Encounters {
		if enc.Location.X == x && enc.Location.Y == y {
			if _, err := s.SpawnEncounter(i); err != nil {
				return false, fmt.Errorf("spawning encounter at %d,%d: %w", x, y, err)
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *State) genLocation(size *module.ObjectSize, enc *module.Encounter) (geo.Point, bool) {
	available := s.availableLocations(size, enc)
	if len(available) == 0 {
		return geo.Point{}, false
	}
	return available[s.rng.IntN(len(available))], true
}

// availableLocations lists anchors inside the encounter rectangle where the
// whole footprint is free of terrain obstacles and entities.
func (s *State) availableLocations(size *module.ObjectSize, enc *module.Encounter) []geo.Point {
	var out []geo.Point
	maxX := enc.Location.X + enc.Width - size.Width + 1
	maxY := enc.Location.Y + enc.Height - size.Height + 1
	for y := enc.Location.Y; y < maxY; y++ {
		for x := enc.Location.X; x < maxX; x++ {
			if s.IsPassableSize(size, x, y) {
				out = append(out, geo.Pt(x, y))
			}
		}
	}
	return out
}
