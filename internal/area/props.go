package area

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
)

// PropState is a placed prop.
type PropState struct {
	ID        model.PropID
	Template  *module.PropTemplate
	Location  geo.Point
	Enabled   bool
	Temporary bool

	// Active means open for doors and already looted for containers.
	Active bool

	markedForRemoval bool
}

// IsDoor reports whether the prop changes the overlays when toggled.
func (p *PropState) IsDoor() bool {
	return p.Template.IsDoor()
}

// Points returns the cells the prop covers.
func (p *PropState) Points() []geo.Point {
	return p.Template.Size.Points(p.Location.X, p.Location.Y)
}

// MarkForRemoval schedules removal on the next Update.
func (p *PropState) MarkForRemoval() {
	p.markedForRemoval = true
}

// IsMarkedForRemoval reports whether the prop goes away on the next Update.
func (p *PropState) IsMarkedForRemoval() bool {
	return p.markedForRemoval
}

// AddProp places a prop. The whole footprint must be inside the area.
// Cells already holding a prop are overwritten without complaint.
func (s *State) AddProp(tpl *module.PropTemplate, x, y int32, enabled, temporary bool) (model.PropID, error) {
	if !geo.RectInBounds(x, y, tpl.Size.Width, tpl.Size.Height, s.width, s.height) {
		return model.NoProp, fmt.Errorf("prop %q at %d,%d: %w", tpl.ID, x, y, ErrOutOfBounds)
	}

	id := s.findPropIndexToAdd()
	prop := &PropState{
		ID:        id,
		Template:  tpl,
		Location:  geo.Pt(x, y),
		Enabled:   enabled,
		Temporary: temporary,
	}
	if tpl.Door != nil {
		prop.Active = tpl.Door.InitiallyOpen
	}

	for _, p := range prop.Points() {
		s.propGrid[s.index(p.X, p.Y)] = id
	}
	s.props[id] = prop
	s.updatePropOverlays(prop)

	slog.Debug("prop added", "area", s.def.ID, "prop", tpl.ID, "id", id, "x", x, "y", y)
	return id, nil
}

// RemoveProp frees a prop slot. Cells since taken by another prop keep
// that prop; door overlays under the footprint reset to open.
func (s *State) RemoveProp(id model.PropID) error {
	prop := s.Prop(id)
	if prop == nil {
		return fmt.Errorf("prop %d: %w", id, ErrUnknownProp)
	}
	slog.Debug("removing prop", "area", s.def.ID, "prop", prop.Template.ID, "id", id)

	var survivors []model.PropID
	for _, p := range prop.Points() {
		idx := s.index(p.X, p.Y)
		owner := s.propGrid[idx]
		if owner != id {
			if owner != model.NoProp && !slices.Contains(survivors, owner) {
				survivors = append(survivors, owner)
			}
			continue
		}
		s.propGrid[idx] = model.NoProp
		if prop.IsDoor() {
			s.propVis[idx] = true
			s.propPass[idx] = true
		}
	}
	s.props[id] = nil

	for _, sid := range survivors {
		if other := s.Prop(sid); other != nil {
			s.updatePropOverlays(other)
		}
	}
	return nil
}

// Prop returns a placed prop, or nil.
func (s *State) Prop(id model.PropID) *PropState {
	if id < 0 || int(id) >= len(s.props) {
		return nil
	}
	return s.props[id]
}

// PropAt returns the prop covering (x, y), or nil.
func (s *State) PropAt(x, y int32) *PropState {
	if !s.CoordsValid(x, y) {
		return nil
	}
	return s.Prop(s.propGrid[s.index(x, y)])
}

// Props returns placed props in slot order.
func (s *State) Props() []*PropState {
	props := make([]*PropState, 0, len(s.props))
	for _, p := range s.props {
		if p != nil {
			props = append(props, p)
		}
	}
	return props
}

// SetPropEnabledAt enables or disables the prop at (x, y).
func (s *State) SetPropEnabledAt(x, y int32, enabled bool) bool {
	prop := s.PropAt(x, y)
	if prop == nil {
		return false
	}
	prop.Enabled = enabled
	return true
}

// TogglePropActive opens/closes a door or marks a container as used.
// Doors refresh the overlays and every party member's sight.
func (s *State) TogglePropActive(id model.PropID) error {
	prop := s.Prop(id)
	if prop == nil {
		return fmt.Errorf("prop %d: %w", id, ErrUnknownProp)
	}
	prop.Active = !prop.Active
	if !prop.IsDoor() {
		return nil
	}

	s.updatePropOverlays(prop)
	s.partialRedraw(0, 0)
	s.RecomputeVisibility()
	return nil
}

// CheckCreatePropContainerAt drops a temporary loot container at (x, y)
// unless a prop is already there. Failures are logged.
func (s *State) CheckCreatePropContainerAt(x, y int32) {
	if s.PropAt(x, y) != nil {
		return
	}

	tpl, err := s.catalog.Prop(s.catalog.Rules().LootDropProp)
	if err != nil {
		slog.Warn("unable to generate prop for item drop", "err", err)
		return
	}
	if _, err := s.AddProp(tpl, x, y, true, true); err != nil {
		slog.Warn("unable to add temp container", "x", x, "y", y, "err", err)
	}
}

// Update removes props marked for removal.
func (s *State) Update() {
	for _, prop := range s.props {
		if prop == nil || !prop.markedForRemoval {
			continue
		}
		if err := s.RemoveProp(prop.ID); err != nil {
			slog.Warn("remove prop", "id", prop.ID, "err", err)
		}
	}
}

func (s *State) findPropIndexToAdd() model.PropID {
	for i, p := range s.props {
		if p == nil {
			return model.PropID(i)
		}
	}
	s.props = append(s.props, nil)
	return model.PropID(len(s.props) - 1)
}

// updatePropOverlays applies door state: open doors clear the whole
// footprint, closed doors apply their invisible/impassable cells.
func (s *State) updatePropOverlays(prop *PropState) {
	door := prop.Template.Door
	if door == nil {
		return
	}

	if prop.Active {
		for _, p := range prop.Points() {
			idx := s.index(p.X, p.Y)
			s.propVis[idx] = true
			s.propPass[idx] = true
		}
		return
	}

	for _, p := range door.ClosedInvis {
		s.propVis[s.index(prop.Location.X+p.X, prop.Location.Y+p.Y)] = false
	}
	for _, p := range door.ClosedImpass {
		s.propPass[s.index(prop.Location.X+p.X, prop.Location.Y+p.Y)] = false
	}
}
