package module

import (
	"fmt"

	"github.com/udisondev/tacgrid/internal/game/geo"
)

// TriggerKind selects when a trigger fires.
type TriggerKind string

const (
	TriggerOnPlayerEnter        TriggerKind = "on_player_enter"
	TriggerOnAreaLoad           TriggerKind = "on_area_load"
	TriggerOnEncounterActivated TriggerKind = "on_encounter_activated"
	TriggerOnEncounterCleared   TriggerKind = "on_encounter_cleared"
)

// ActorPlacement places an actor template in an area.
type ActorPlacement struct {
	ID       string    `yaml:"id"`
	UniqueID string    `yaml:"unique_id"`
	Location geo.Point `yaml:"location"`
}

// PropPlacement places a prop template in an area.
type PropPlacement struct {
	ID       string    `yaml:"id"`
	Location geo.Point `yaml:"location"`
	Disabled bool      `yaml:"disabled"`
}

// Trigger fires a named callback. Only on_player_enter triggers occupy cells.
type Trigger struct {
	Kind          TriggerKind `yaml:"kind"`
	Location      geo.Point   `yaml:"location"`
	Width         int32       `yaml:"width"`
	Height        int32       `yaml:"height"`
	StartDisabled bool        `yaml:"start_disabled"`
	OnActivate    string      `yaml:"on_activate"`
}

// InitiallyEnabled reports the enabled flag a fresh area starts with.
func (t Trigger) InitiallyEnabled() bool {
	return !t.StartDisabled
}

// Transition moves the party to another area when stepped on.
type Transition struct {
	From   geo.Point `yaml:"from"`
	Width  int32     `yaml:"width"`
	Height int32     `yaml:"height"`
	ToArea string    `yaml:"to_area"`
	To     geo.Point `yaml:"to"`
}

// Encounter is a rectangle that spawns a group of actors.
type Encounter struct {
	Location  geo.Point `yaml:"location"`
	Width     int32     `yaml:"width"`
	Height    int32     `yaml:"height"`
	Actors    []string  `yaml:"actors"`
	AutoSpawn bool      `yaml:"auto_spawn"`
	Triggers  []int     `yaml:"triggers"`
}

// Definition is the static description of one area.
type Definition struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Width       int32            `yaml:"width"`
	Height      int32            `yaml:"height"`
	VisDist     int32            `yaml:"vis_dist"`
	Seed        uint64           `yaml:"seed"`
	PartyStart  geo.Point        `yaml:"party_start"`
	Rows        []string         `yaml:"terrain"`
	Actors      []ActorPlacement `yaml:"actors"`
	Props       []PropPlacement  `yaml:"props"`
	Triggers    []Trigger        `yaml:"triggers"`
	Transitions []Transition     `yaml:"transitions"`
	Encounters  []Encounter      `yaml:"encounters"`

	terrain *Terrain
}

// Terrain returns the parsed base layer. Nil until the definition has
// been added to a catalog or Prepare was called.
func (d *Definition) Terrain() *Terrain {
	return d.terrain
}

// CoordsValid reports whether (x, y) lies inside the area.
func (d *Definition) CoordsValid(x, y int32) bool {
	return geo.InBounds(x, y, d.Width, d.Height)
}

// Prepare parses terrain and checks that static zones fit the area.
func (d *Definition) Prepare() error {
	terrain, err := ParseTerrain(d.Rows, d.Width, d.Height)
	if err != nil {
		return fmt.Errorf("area %q: %w", d.ID, err)
	}

	for i, tr := range d.Triggers {
		if tr.Kind != TriggerOnPlayerEnter {
			continue
		}
		if !geo.RectInBounds(tr.Location.X, tr.Location.Y, tr.Width, tr.Height, d.Width, d.Height) {
			return fmt.Errorf("%w: area %q trigger %d outside bounds", ErrInvalidArea, d.ID, i)
		}
	}
	for i, tr := range d.Transitions {
		if !geo.RectInBounds(tr.From.X, tr.From.Y, tr.Width, tr.Height, d.Width, d.Height) {
			return fmt.Errorf("%w: area %q transition %d outside bounds", ErrInvalidArea, d.ID, i)
		}
	}
	for i, enc := range d.Encounters {
		for _, ti := range enc.Triggers {
			if ti < 0 || ti >= len(d.Triggers) {
				return fmt.Errorf("%w: area %q encounter %d references trigger %d", ErrInvalidArea, d.ID, i, ti)
			}
		}
	}

	d.terrain = terrain
	return nil
}
