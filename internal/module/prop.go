package module

import (
	"fmt"

	"github.com/udisondev/tacgrid/internal/game/geo"
)

// DoorSpec marks a prop as a door. Closed doors hide the ClosedInvis cells
// and block the ClosedImpass cells; both are relative to the prop anchor.
type DoorSpec struct {
	InitiallyOpen bool        `yaml:"initially_open"`
	ClosedInvis   []geo.Point `yaml:"closed_invis"`
	ClosedImpass  []geo.Point `yaml:"closed_impass"`
}

// PropTemplate is a static prop kind (door, chest, boulder).
type PropTemplate struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	SizeID    string    `yaml:"size"`
	Door      *DoorSpec `yaml:"door,omitempty"`
	Container bool      `yaml:"container"`

	Size *ObjectSize `yaml:"-"`
}

// IsDoor reports whether toggling the prop changes the overlays.
func (p *PropTemplate) IsDoor() bool {
	return p.Door != nil
}

func (p *PropTemplate) validateDoor() error {
	if p.Door == nil {
		return nil
	}
	for _, pt := range p.Door.ClosedInvis {
		if !p.Size.Contains(pt.X, pt.Y) {
			return fmt.Errorf("prop %q: closed_invis point %d,%d outside size %q", p.ID, pt.X, pt.Y, p.SizeID)
		}
	}
	for _, pt := range p.Door.ClosedImpass {
		if !p.Size.Contains(pt.X, pt.Y) {
			return fmt.Errorf("prop %q: closed_impass point %d,%d outside size %q", p.ID, pt.X, pt.Y, p.SizeID)
		}
	}
	return nil
}
