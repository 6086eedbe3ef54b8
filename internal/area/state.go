package area

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
)

// Defaults for State tuning knobs.
const (
	DefaultVisionRadius int32 = 12
	DefaultBumpRadius   int32 = 3
)

// TurnManager is the collaborator that owns entities and surfaces.
// State keeps its grids in sync and reports membership changes back.
type TurnManager interface {
	AddEntity(e *model.Entity) model.EntityID
	RemoveEntity(id model.EntityID)
	Entity(id model.EntityID) *model.Entity
	Party() []model.EntityID
	IsCombatActive() bool
	NextAIGroup(areaID string, encounter int) int

	SurfacePoints(id model.SurfaceID) []geo.Point
	SetSurfacePoints(id model.SurfaceID, points []geo.Point)
	AurasFor(owner model.EntityID) []model.SurfaceID
	AddToSurface(entity model.EntityID, surface model.SurfaceID)
	RemoveFromSurface(entity model.EntityID, surface model.SurfaceID)
	IncrementSurfaceSquaresMoved(entity model.EntityID, surface model.SurfaceID)

	FireOnMovedNextUpdate(entity model.EntityID)
	FireTrigger(areaID string, index int, callback string, target model.EntityID)
}

// RedrawKind tells the renderer how much of the fog layer is stale.
type RedrawKind int

const (
	RedrawNone RedrawKind = iota
	RedrawPartial
	RedrawFull
)

// Redraw is the outstanding fog redraw request. DeltaX/DeltaY is the
// displacement of the party member whose move caused a partial redraw,
// new anchor minus old anchor: a step right gives DeltaX == 1.
type Redraw struct {
	Kind   RedrawKind
	DeltaX int32
	DeltaY int32
}

// TriggerState is the mutable half of a trigger definition.
type TriggerState struct {
	Enabled bool
	Fired   bool
}

// State is the live spatial index of one area: parallel per-cell grids
// for entities, props, surfaces, triggers, transitions, prop overlays and
// party visibility.
//
// A State is mutated from a single goroutine. Different States share
// nothing mutable.
type State struct {
	def     *module.Definition
	catalog *module.Catalog
	mgr     TurnManager

	width  int32
	height int32
	seed   uint64
	rng    *rand.Rand

	visionRadius int32
	bumpRadius   int32

	props       []*PropState
	entities    []model.EntityID
	surfaces    []model.SurfaceID
	triggers    []TriggerState
	merchants   []*MerchantState
	onLoadFired bool

	propGrid       []model.PropID
	entityGrid     [][]model.EntityID
	surfaceGrid    [][]model.SurfaceID
	transitionGrid []int
	triggerGrid    []int

	propVis  []bool
	propPass []bool

	memberVis  map[model.EntityID][]bool
	pcVis      []bool
	pcExplored []bool
	redraw     Redraw
}

// New creates an empty state for a definition. Call Populate to add the
// definition's actors, props and zones, or use Load to restore a save.
func New(def *module.Definition, catalog *module.Catalog, mgr TurnManager) *State {
	n := int(def.Width) * int(def.Height)
	s := &State{
		def:            def,
		catalog:        catalog,
		mgr:            mgr,
		width:          def.Width,
		height:         def.Height,
		visionRadius:   DefaultVisionRadius,
		bumpRadius:     DefaultBumpRadius,
		propGrid:       make([]model.PropID, n),
		entityGrid:     make([][]model.EntityID, n),
		surfaceGrid:    make([][]model.SurfaceID, n),
		transitionGrid: make([]int, n),
		triggerGrid:    make([]int, n),
		propVis:        make([]bool, n),
		propPass:       make([]bool, n),
		memberVis:      make(map[model.EntityID][]bool),
		pcVis:          make([]bool, n),
		pcExplored:     make([]bool, n),
	}
	for i := range n {
		s.propGrid[i] = model.NoProp
		s.transitionGrid[i] = -1
		s.triggerGrid[i] = -1
		s.propVis[i] = true
		s.propPass[i] = true
	}
	if def.VisDist > 0 {
		s.visionRadius = def.VisDist
	}
	s.reseed(def.Seed)

	slog.Info("initializing area state", "area", def.ID, "width", def.Width, "height", def.Height)
	return s
}

func (s *State) reseed(seed uint64) {
	s.seed = seed
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ID returns the area id.
func (s *State) ID() string { return s.def.ID }

// Definition returns the static area definition.
func (s *State) Definition() *module.Definition { return s.def }

// Width returns the grid width.
func (s *State) Width() int32 { return s.width }

// Height returns the grid height.
func (s *State) Height() int32 { return s.height }

// SetVisionRadius sets the sight radius used by entities without their own.
func (s *State) SetVisionRadius(r int32) { s.visionRadius = r }

// SetBumpRadius sets the largest ring searched when de-stacking the party.
func (s *State) SetBumpRadius(r int32) { s.bumpRadius = r }

// CoordsValid reports whether (x, y) is inside the area.
func (s *State) CoordsValid(x, y int32) bool {
	return geo.InBounds(x, y, s.width, s.height)
}

func (s *State) index(x, y int32) int {
	return geo.CellIndex(x, y, s.width)
}

// TakeRedraw returns the outstanding redraw request and clears it.
func (s *State) TakeRedraw() Redraw {
	r := s.redraw
	s.redraw = Redraw{}
	return r
}

// PeekRedraw returns the outstanding redraw request without clearing it.
func (s *State) PeekRedraw() Redraw {
	return s.redraw
}

// partialRedraw records a partial redraw unless a stronger one is pending.
func (s *State) partialRedraw(dx, dy int32) {
	if s.redraw.Kind == RedrawNone {
		s.redraw = Redraw{Kind: RedrawPartial, DeltaX: dx, DeltaY: dy}
	}
}

func (s *State) fullRedraw() {
	s.redraw = Redraw{Kind: RedrawFull}
}

// Entities returns the entities in the area in insertion order.
func (s *State) Entities() []model.EntityID {
	return slices.Clone(s.entities)
}

// Contains reports whether an entity is registered in this area.
func (s *State) Contains(id model.EntityID) bool {
	return slices.Contains(s.entities, id)
}

// EntityAt returns the first entity covering (x, y), or model.NoEntity.
func (s *State) EntityAt(x, y int32) model.EntityID {
	if !s.CoordsValid(x, y) {
		return model.NoEntity
	}
	cell := s.entityGrid[s.index(x, y)]
	if len(cell) == 0 {
		return model.NoEntity
	}
	return cell[0]
}

// EntitiesAt returns every entity covering (x, y).
func (s *State) EntitiesAt(x, y int32) []model.EntityID {
	if !s.CoordsValid(x, y) {
		return nil
	}
	return slices.Clone(s.entityGrid[s.index(x, y)])
}

// EntitiesWithPoints returns the distinct entities covering any of the
// points, sorted. Points outside the area are ignored.
func (s *State) EntitiesWithPoints(points []geo.Point) []model.EntityID {
	set := make(map[model.EntityID]struct{})
	for _, p := range points {
		if !s.CoordsValid(p.X, p.Y) {
			continue
		}
		for _, id := range s.entityGrid[s.index(p.X, p.Y)] {
			set[id] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// SurfacesAt returns the surfaces covering (x, y).
func (s *State) SurfacesAt(x, y int32) []model.SurfaceID {
	if !s.CoordsValid(x, y) {
		return nil
	}
	return slices.Clone(s.surfaceGrid[s.index(x, y)])
}

// partyInArea returns the party members registered here, in roster order.
func (s *State) partyInArea() []*model.Entity {
	var members []*model.Entity
	for _, id := range s.mgr.Party() {
		if !s.Contains(id) {
			continue
		}
		if e := s.mgr.Entity(id); e != nil {
			members = append(members, e)
		}
	}
	return members
}

func sortedKeys[K ~int32](set map[K]struct{}) []K {
	keys := make([]K, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
