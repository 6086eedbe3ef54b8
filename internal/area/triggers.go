package area

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
)

// Triggers returns a copy of the trigger states, aligned with the
// definition's trigger list.
func (s *State) Triggers() []TriggerState {
	out := make([]TriggerState, len(s.triggers))
	copy(out, s.triggers)
	return out
}

// TriggerAt returns the trigger index covering (x, y), or -1.
func (s *State) TriggerAt(x, y int32) int {
	if !s.CoordsValid(x, y) {
		return -1
	}
	return s.triggerGrid[s.index(x, y)]
}

// TransitionAt returns the transition covering (x, y), or nil.
func (s *State) TransitionAt(x, y int32) *module.Transition {
	if !s.CoordsValid(x, y) {
		return nil
	}
	idx := s.transitionGrid[s.index(x, y)]
	if idx < 0 {
		return nil
	}
	return &s.def.Transitions[idx]
}

// SetTriggerEnabledAt enables or disables the trigger covering (x, y).
func (s *State) SetTriggerEnabledAt(x, y int32, enabled bool) bool {
	if !s.CoordsValid(x, y) {
		slog.Warn("invalid coords to enable trigger", "area", s.def.ID, "x", x, "y", y)
		return false
	}
	idx := s.triggerGrid[s.index(x, y)]
	if idx < 0 {
		return false
	}
	s.triggers[idx].Enabled = enabled
	return true
}

// FireOnAreaLoad fires every on_area_load trigger the first time the party
// arrives. Later calls do nothing.
func (s *State) FireOnAreaLoad(target model.EntityID) {
	if s.onLoadFired {
		return
	}
	s.onLoadFired = true
	for i, tr := range s.def.Triggers {
		if tr.Kind != module.TriggerOnAreaLoad || !s.triggers[i].Enabled || s.triggers[i].Fired {
			continue
		}
		s.triggers[i].Fired = true
		s.mgr.FireTrigger(s.def.ID, i, tr.OnActivate, target)
	}
}

// FireOnEncounterActivated fires the encounter's activation triggers once.
func (s *State) FireOnEncounterActivated(encounter int, target model.EntityID) error {
	enc, err := s.encounter(encounter)
	if err != nil {
		return err
	}
	slog.Info("encounter activated", "area", s.def.ID, "encounter", encounter)
	for _, ti := range enc.Triggers {
		if s.triggers[ti].Fired {
			continue
		}
		s.triggers[ti].Fired = true
		tr := s.def.Triggers[ti]
		if tr.Kind == module.TriggerOnEncounterActivated {
			s.mgr.FireTrigger(s.def.ID, ti, tr.OnActivate, target)
		}
	}
	return nil
}

// FireOnEncounterCleared marks the encounter's triggers fired and runs the
// on_encounter_cleared ones.
func (s *State) FireOnEncounterCleared(encounter int, target model.EntityID) error {
	enc, err := s.encounter(encounter)
	if err != nil {
		return err
	}
	slog.Info("encounter cleared", "area", s.def.ID, "encounter", encounter)
	for _, ti := range enc.Triggers {
		s.triggers[ti].Fired = true
		tr := s.def.Triggers[ti]
		if tr.Kind == module.TriggerOnEncounterCleared {
			s.mgr.FireTrigger(s.def.ID, ti, tr.OnActivate, target)
		}
	}
	return nil
}

func (s *State) encounter(index int) (*module.Encounter, error) {
	if index < 0 || index >= len(s.def.Encounters) {
		return nil, fmt.Errorf("%w: encounter %d in area %q", ErrInvalidData, index, s.def.ID)
	}
	return &s.def.Encounters[index], nil
}

// addTrigger appends trigger state and, for on_player_enter triggers,
// claims its cells. Only called while populating or loading.
func (s *State) addTrigger(index int, state TriggerState) {
	s.triggers = append(s.triggers, state)

	tr := s.def.Triggers[index]
	if tr.Kind != module.TriggerOnPlayerEnter {
		return
	}
	for y := tr.Location.Y; y < tr.Location.Y+tr.Height; y++ {
		for x := tr.Location.X; x < tr.Location.X+tr.Width; x++ {
			if s.CoordsValid(x, y) {
				s.triggerGrid[s.index(x, y)] = index
			}
		}
	}
}

func (s *State) addTransitions() {
	for i, tr := range s.def.Transitions {
		slog.Debug("adding transition", "area", s.def.ID, "index", i, "x", tr.From.X, "y", tr.From.Y)
		for y := tr.From.Y; y < tr.From.Y+tr.Height; y++ {
			for x := tr.From.X; x < tr.From.X+tr.Width; x++ {
				if s.CoordsValid(x, y) {
					s.transitionGrid[s.index(x, y)] = i
				}
			}
		}
	}
}

// checkTriggerGrid fires the trigger under a party member's anchor once.
func (s *State) checkTriggerGrid(e *model.Entity) {
	idx := s.triggerGrid[s.index(e.Location.X, e.Location.Y)]
	if idx < 0 {
		return
	}
	if !s.triggers[idx].Enabled || s.triggers[idx].Fired {
		return
	}
	s.triggers[idx].Fired = true
	s.mgr.FireTrigger(s.def.ID, idx, s.def.Triggers[idx].OnActivate, e.ID)
}
