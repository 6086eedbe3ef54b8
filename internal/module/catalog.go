package module

import (
	"fmt"
	"maps"
	"slices"

	"github.com/udisondev/tacgrid/internal/game/geo"
)

// Rules holds module-wide settings.
type Rules struct {
	// LootDropProp is the prop spawned as a temporary container for drops.
	LootDropProp string `yaml:"loot_drop_prop"`
}

// Catalog is the read-only registry of sizes, props, actors and areas.
// Build it once at startup and share the pointer; lookups are safe for
// concurrent use after loading finishes.
type Catalog struct {
	rules  Rules
	sizes  map[string]*ObjectSize
	props  map[string]*PropTemplate
	actors map[string]*ActorTemplate
	areas  map[string]*Definition
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		sizes:  make(map[string]*ObjectSize),
		props:  make(map[string]*PropTemplate),
		actors: make(map[string]*ActorTemplate),
		areas:  make(map[string]*Definition),
	}
}

// Rules returns module-wide settings.
func (c *Catalog) Rules() Rules { return c.rules }

// SetRules replaces module-wide settings.
func (c *Catalog) SetRules(r Rules) { c.rules = r }

// AddSize registers a footprint.
func (c *Catalog) AddSize(id string, width, height int32) (*ObjectSize, error) {
	if _, ok := c.sizes[id]; ok {
		return nil, fmt.Errorf("%w: size %q", ErrDuplicateID, id)
	}
	size, err := NewObjectSize(id, width, height)
	if err != nil {
		return nil, err
	}
	c.sizes[id] = size
	return size, nil
}

// AddProp registers a prop template and resolves its size.
func (c *Catalog) AddProp(p PropTemplate) (*PropTemplate, error) {
	if _, ok := c.props[p.ID]; ok {
		return nil, fmt.Errorf("%w: prop %q", ErrDuplicateID, p.ID)
	}
	size, err := c.Size(p.SizeID)
	if err != nil {
		return nil, fmt.Errorf("prop %q: %w", p.ID, err)
	}
	p.Size = size
	if err := p.validateDoor(); err != nil {
		return nil, err
	}
	c.props[p.ID] = &p
	return &p, nil
}

// AddActor registers an actor template and resolves its size.
func (c *Catalog) AddActor(a ActorTemplate) (*ActorTemplate, error) {
	if _, ok := c.actors[a.ID]; ok {
		return nil, fmt.Errorf("%w: actor %q", ErrDuplicateID, a.ID)
	}
	size, err := c.Size(a.SizeID)
	if err != nil {
		return nil, fmt.Errorf("actor %q: %w", a.ID, err)
	}
	if a.Faction == "" {
		a.Faction = FactionNeutral
	}
	if err := a.Faction.Validate(); err != nil {
		return nil, fmt.Errorf("actor %q: %w", a.ID, err)
	}
	a.Size = size
	c.actors[a.ID] = &a
	return &a, nil
}

// AddArea registers an area definition, parsing its terrain if needed and
// building a path grid for every known size.
func (c *Catalog) AddArea(d *Definition) error {
	if _, ok := c.areas[d.ID]; ok {
		return fmt.Errorf("%w: area %q", ErrDuplicateID, d.ID)
	}
	if d.terrain == nil {
		if err := d.Prepare(); err != nil {
			return err
		}
	}
	for _, size := range c.sizes {
		d.terrain.BuildPathGrid(size)
	}
	c.areas[d.ID] = d
	return nil
}

// Size looks up a footprint by id.
func (c *Catalog) Size(id string) (*ObjectSize, error) {
	s, ok := c.sizes[id]
	if !ok {
		return nil, fmt.Errorf("size %q: %w", id, ErrNotFound)
	}
	return s, nil
}

// Prop looks up a prop template by id.
func (c *Catalog) Prop(id string) (*PropTemplate, error) {
	p, ok := c.props[id]
	if !ok {
		return nil, fmt.Errorf("prop %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// Actor looks up an actor template by id.
func (c *Catalog) Actor(id string) (*ActorTemplate, error) {
	a, ok := c.actors[id]
	if !ok {
		return nil, fmt.Errorf("actor %q: %w", id, ErrNotFound)
	}
	return a, nil
}

// Area looks up an area definition by id.
func (c *Catalog) Area(id string) (*Definition, error) {
	d, ok := c.areas[id]
	if !ok {
		return nil, fmt.Errorf("area %q: %w", id, ErrNotFound)
	}
	return d, nil
}

// AreaIDs returns all area ids in sorted order.
func (c *Catalog) AreaIDs() []string {
	return slices.Sorted(maps.Keys(c.areas))
}

// TransitionTargetsValid checks that every transition leads to a known
// area and lands inside it.
func (c *Catalog) TransitionTargetsValid() error {
	for _, id := range c.AreaIDs() {
		for i, tr := range c.areas[id].Transitions {
			to, err := c.Area(tr.ToArea)
			if err != nil {
				return fmt.Errorf("area %q transition %d: %w", id, i, err)
			}
			if !geo.InBounds(tr.To.X, tr.To.Y, to.Width, to.Height) {
				return fmt.Errorf("%w: area %q transition %d lands outside %q", ErrInvalidArea, id, i, to.ID)
			}
		}
	}
	return nil
}
