package model

import (
	"maps"
	"math"
	"slices"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/module"
)

// NoAIGroup marks an entity that was not spawned by an encounter.
const NoAIGroup = -1

// Entity is the mutable state of one actor instance.
// Grids never hold *Entity, only EntityID; the turn manager owns the arena.
type Entity struct {
	ID       EntityID
	UniqueID string
	Template *module.ActorTemplate
	Size     *module.ObjectSize
	Location Location
	Faction  module.Faction

	Party          bool
	Dead           bool
	AttackDisabled bool
	AIGroup        int

	MeleeReach   float32
	VisionRadius int32

	threatening map[EntityID]struct{}
	threateners map[EntityID]struct{}
}

// NewEntity creates an entity from a template. The ID is assigned by the
// arena owner.
func NewEntity(tpl *module.ActorTemplate, uniqueID string, loc Location, party bool) *Entity {
	if uniqueID == "" {
		uniqueID = tpl.ID
	}
	faction := tpl.Faction
	if party {
		faction = module.FactionFriendly
	}
	return &Entity{
		ID:           NoEntity,
		UniqueID:     uniqueID,
		Template:     tpl,
		Size:         tpl.Size,
		Location:     loc,
		Faction:      faction,
		Party:        party,
		AIGroup:      NoAIGroup,
		MeleeReach:   tpl.MeleeReach,
		VisionRadius: tpl.VisionRadius,
		threatening:  make(map[EntityID]struct{}),
		threateners:  make(map[EntityID]struct{}),
	}
}

// Name returns the template display name, falling back to the unique id.
func (e *Entity) Name() string {
	if e.Template != nil && e.Template.Name != "" {
		return e.Template.Name
	}
	return e.UniqueID
}

// Points returns the cells covered at the current location.
func (e *Entity) Points() []geo.Point {
	return e.Size.Points(e.Location.X, e.Location.Y)
}

// PointsAt returns the cells the entity would cover anchored at (x, y).
func (e *Entity) PointsAt(x, y int32) []geo.Point {
	return e.Size.Points(x, y)
}

// Center returns the footprint center in cell units.
func (e *Entity) Center() (float32, float32) {
	return float32(e.Location.X) + float32(e.Size.Width)/2,
		float32(e.Location.Y) + float32(e.Size.Height)/2
}

// Dist returns the edge-to-edge distance to an object of the given size
// anchored at pos, clamped at zero.
func (e *Entity) Dist(pos geo.Point, size *module.ObjectSize) float32 {
	x2 := float32(pos.X) + float32(size.Width)/2
	y2 := float32(pos.Y) + float32(size.Height)/2
	return e.dist(x2, y2, size.Diagonal/2)
}

// DistToEntity returns Dist to another entity's footprint.
func (e *Entity) DistToEntity(other *Entity) float32 {
	return e.Dist(other.Location.Point(), other.Size)
}

func (e *Entity) dist(x2, y2, offset float32) float32 {
	// integer halves on the near side match the footprint anchor grid
	x1 := float32(e.Location.X) + float32(e.Size.Width/2)
	y1 := float32(e.Location.Y) + float32(e.Size.Height/2)

	d := float32(math.Sqrt(float64((x1-x2)*(x1-x2) + (y1-y2)*(y1-y2))))
	d -= e.Size.Diagonal/2 + offset
	if d > 0 {
		return d
	}
	return 0
}

// IsHostile reports whether e and other are enemies.
func (e *Entity) IsHostile(other *Entity) bool {
	return e.Faction.IsHostile(other.Faction)
}

// IsMelee reports whether the entity attacks at melee reach.
func (e *Entity) IsMelee() bool {
	return e.MeleeReach > 0
}

// CanReach reports whether a target at dist is inside melee reach.
func (e *Entity) CanReach(dist float32) bool {
	return dist <= e.MeleeReach
}

// AddThreatening records that e threatens target.
func (e *Entity) AddThreatening(target EntityID) { e.threatening[target] = struct{}{} }

// RemoveThreatening clears a threatening relation.
func (e *Entity) RemoveThreatening(target EntityID) { delete(e.threatening, target) }

// AddThreatener records that attacker threatens e.
func (e *Entity) AddThreatener(attacker EntityID) { e.threateners[attacker] = struct{}{} }

// RemoveThreatener clears a threatener relation.
func (e *Entity) RemoveThreatener(attacker EntityID) { delete(e.threateners, attacker) }

// IsThreatening reports whether e threatens target.
func (e *Entity) IsThreatening(target EntityID) bool {
	_, ok := e.threatening[target]
	return ok
}

// IsThreatened reports whether anyone threatens e.
func (e *Entity) IsThreatened() bool {
	return len(e.threateners) > 0
}

// Threatening returns the entities e threatens, sorted.
func (e *Entity) Threatening() []EntityID {
	return slices.Sorted(maps.Keys(e.threatening))
}

// Threateners returns the entities threatening e, sorted.
func (e *Entity) Threateners() []EntityID {
	return slices.Sorted(maps.Keys(e.threateners))
}
