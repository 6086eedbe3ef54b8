package sim

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/tacgrid/internal/area"
	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
	"github.com/udisondev/tacgrid/internal/turn"
)

// Options tune the spatial layer. Zero values keep the built-in defaults.
type Options struct {
	MaxIterations int   // path search expansion budget
	VisionRadius  int32 // used by areas without vis_dist
	BumpRadius    int32 // ring limit when de-stacking the party
}

// DefaultOptions returns the built-in limits.
func DefaultOptions() Options {
	return Options{
		MaxIterations: geo.DefaultMaxIterations,
		VisionRadius:  area.DefaultVisionRadius,
		BumpRadius:    area.DefaultBumpRadius,
	}
}

// Simulation ties the catalog, the turn manager and the resident areas
// together. The party lives in exactly one area at a time.
//
// Not safe for concurrent use.
type Simulation struct {
	catalog *module.Catalog
	mgr     *turn.Manager
	opts    Options

	areas   map[string]*area.State
	finders map[string]*geo.PathFinder
	current *area.State
}

// New creates a simulation with no area entered.
func New(catalog *module.Catalog, mgr *turn.Manager, opts Options) *Simulation {
	return &Simulation{
		catalog: catalog,
		mgr:     mgr,
		opts:    opts,
		areas:   make(map[string]*area.State),
		finders: make(map[string]*geo.PathFinder),
	}
}

// Catalog returns the module catalog.
func (s *Simulation) Catalog() *module.Catalog { return s.catalog }

// Manager returns the turn manager.
func (s *Simulation) Manager() *turn.Manager { return s.mgr }

// Current returns the area the party is in, or nil.
func (s *Simulation) Current() *area.State { return s.current }

// Area returns a resident area, or nil.
func (s *Simulation) Area(id string) *area.State { return s.areas[id] }

// EnterArea makes an area current, creating and populating it on first
// visit. Party sight is rebuilt and on_area_load triggers fire once.
func (s *Simulation) EnterArea(id string) (*area.State, error) {
	st, err := s.resident(id)
	if err != nil {
		return nil, err
	}
	s.activate(st)
	return st, nil
}

// AddPartyMember creates a party member from an actor template in the
// current area.
func (s *Simulation) AddPartyMember(templateID string, x, y int32) (model.EntityID, error) {
	st, err := s.requireCurrent()
	if err != nil {
		return model.NoEntity, err
	}
	tpl, err := s.catalog.Actor(templateID)
	if err != nil {
		return model.NoEntity, fmt.Errorf("adding party member: %w", err)
	}
	id, err := st.AddActor(tpl, x, y, "", true, model.NoAIGroup)
	if err != nil {
		return model.NoEntity, fmt.Errorf("adding party member: %w", err)
	}
	slog.Info("party member joined", "entity", tpl.Name, "id", id, "area", st.ID(), "x", x, "y", y)
	return id, nil
}

// MoveEntity moves an entity in the current area to (x, y) if it may
// stand there. Outside combat party members may share cells.
func (s *Simulation) MoveEntity(id model.EntityID, x, y int32) error {
	st, e, err := s.entityInCurrent(id)
	if err != nil {
		return err
	}
	if !st.IsPassable(e, s.ignoreFor(e), x, y) {
		return fmt.Errorf("moving %s to %d,%d: %w", e.Name(), x, y, ErrBlocked)
	}
	return st.MoveEntity(id, x, y)
}

// FindPath searches a path for an entity towards (x, y), accepting any
// anchor within dist of the centered goal. A nil path means none exists.
func (s *Simulation) FindPath(id model.EntityID, x, y int32, dist float32) ([]geo.Point, error) {
	st, e, err := s.entityInCurrent(id)
	if err != nil {
		return nil, err
	}
	checker := area.NewPathChecker(st, e, s.ignoreFor(e)...)
	return s.finder(st).Find(checker, e.Location.X, e.Location.Y, float32(x), float32(y), dist), nil
}

// MoveAlong walks an entity along a path one cell at a time, running the
// full move protocol per step. Cells before the entity's position are
// skipped. Returns the steps taken; a blocked step stops the walk with
// ErrBlocked.
func (s *Simulation) MoveAlong(id model.EntityID, path []geo.Point) (int, error) {
	_, e, err := s.entityInCurrent(id)
	if err != nil {
		return 0, err
	}

	// -1 when the entity is not on the path walks it from the beginning
	start := slices.Index(path, e.Location.Point())

	steps := 0
	for _, p := range path[start+1:] {
		if err := s.MoveEntity(id, p.X, p.Y); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}

// StartCombat raises the combat flag and de-stacks the party once.
// Returns the number of members bumped.
func (s *Simulation) StartCombat() int {
	if s.mgr.IsCombatActive() {
		return 0
	}
	s.mgr.SetCombatActive(true)
	if s.current == nil {
		return 0
	}
	return s.current.BumpPartyOverlap()
}

// EndCombat clears the combat flag.
func (s *Simulation) EndCombat() {
	s.mgr.SetCombatActive(false)
}

// ToggleProp toggles the prop covering (x, y) in the current area.
func (s *Simulation) ToggleProp(x, y int32) error {
	st, err := s.requireCurrent()
	if err != nil {
		return err
	}
	prop := st.PropAt(x, y)
	if prop == nil {
		return fmt.Errorf("toggle at %d,%d: %w", x, y, area.ErrUnknownProp)
	}
	return st.TogglePropActive(prop.ID)
}

// AddSurface creates a surface in the current area and returns the
// entities it covers. Pass model.NoEntity as owner for a stationary one.
func (s *Simulation) AddSurface(name string, points []geo.Point, owner model.EntityID) (model.SurfaceID, []model.EntityID, error) {
	st, err := s.requireCurrent()
	if err != nil {
		return 0, nil, err
	}
	id := s.mgr.CreateSurface(st.ID(), name, points, owner)
	return id, st.AddSurface(id), nil
}

// RemoveSurface removes a surface from the current area and the manager.
func (s *Simulation) RemoveSurface(id model.SurfaceID) ([]model.EntityID, error) {
	st, err := s.requireCurrent()
	if err != nil {
		return nil, err
	}
	removed := st.RemoveSurface(id)
	s.mgr.DeleteSurface(id)
	return removed, nil
}

// UseTransition moves the whole party through the transition covering
// (x, y). Members land on the destination, stacked if need be; a member
// that cannot stand there takes the nearest free spot. Landings are
// planned before anyone leaves, so ErrBlocked leaves the party where it was.
func (s *Simulation) UseTransition(x, y int32) (*area.State, error) {
	from, err := s.requireCurrent()
	if err != nil {
		return nil, err
	}
	tr := from.TransitionAt(x, y)
	if tr == nil {
		return nil, fmt.Errorf("%d,%d in %q: %w", x, y, from.ID(), ErrNoTransition)
	}
	to, err := s.resident(tr.ToArea)
	if err != nil {
		return nil, fmt.Errorf("transition to %q: %w", tr.ToArea, err)
	}

	party := s.partyIn(from)
	landings, err := s.planLandings(to, party, tr.To)
	if err != nil {
		return nil, err
	}

	for _, e := range party {
		if err := from.RemoveEntity(e.ID); err != nil {
			return nil, err
		}
	}
	for i, e := range party {
		p := landings[i]
		if err := to.AddEntity(e.ID, p.X, p.Y); err != nil {
			return nil, fmt.Errorf("placing %s in %q: %w", e.Name(), to.ID(), err)
		}
	}

	slog.Info("party transitioned", "from", from.ID(), "to", to.ID(), "members", len(party))
	s.activate(to)
	return to, nil
}

// planLandings picks a landing anchor per member without touching either
// area. Out of combat members may stack on the destination itself; a
// member bumped to another cell avoids the cells already picked.
func (s *Simulation) planLandings(to *area.State, party []*model.Entity, dest geo.Point) ([]geo.Point, error) {
	stack := !s.mgr.IsCombatActive()
	radius := max(s.opts.BumpRadius, area.DefaultBumpRadius)
	reserved := make(map[geo.Point]struct{})

	landings := make([]geo.Point, 0, len(party))
	for _, e := range party {
		ignore := s.ignoreFor(e)
		free := func(x, y int32) bool {
			if !to.IsPassable(e, ignore, x, y) {
				return false
			}
			for _, c := range e.PointsAt(x, y) {
				if _, taken := reserved[c]; taken {
					return false
				}
			}
			return true
		}

		p := dest
		if !(stack && to.IsPassable(e, ignore, p.X, p.Y)) && !free(p.X, p.Y) {
			spot, ok := to.FindSpot(p.X, p.Y, radius, free)
			if !ok {
				return nil, fmt.Errorf("placing %s in %q: %w", e.Name(), to.ID(), ErrBlocked)
			}
			p = spot
		}
		for _, c := range e.PointsAt(p.X, p.Y) {
			reserved[c] = struct{}{}
		}
		landings = append(landings, p)
	}
	return landings, nil
}

// Update removes props marked for removal in every resident area and
// delivers queued moved notifications.
func (s *Simulation) Update() {
	for _, st := range s.areas {
		st.Update()
	}
	s.mgr.Update()
}

// SaveAreas snapshots every resident area, ordered by area id.
func (s *Simulation) SaveAreas() []area.SaveState {
	ids := make([]string, 0, len(s.areas))
	for id := range s.areas {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	saves := make([]area.SaveState, 0, len(ids))
	for _, id := range ids {
		saves = append(saves, s.areas[id].Save())
	}
	return saves
}

// Restore makes saved areas resident without entering them.
func (s *Simulation) Restore(saves []area.SaveState) error {
	for _, save := range saves {
		if _, ok := s.areas[save.AreaID]; ok {
			return fmt.Errorf("restoring %q: %w", save.AreaID, area.ErrSaveMismatch)
		}
		st, err := area.Load(s.catalog, s.mgr, save.AreaID, save)
		if err != nil {
			return fmt.Errorf("restoring %q: %w", save.AreaID, err)
		}
		s.configure(st)
		s.areas[save.AreaID] = st
	}
	return nil
}

func (s *Simulation) resident(id string) (*area.State, error) {
	if st, ok := s.areas[id]; ok {
		return st, nil
	}
	def, err := s.catalog.Area(id)
	if err != nil {
		return nil, fmt.Errorf("entering area: %w", err)
	}

	st := area.New(def, s.catalog, s.mgr)
	s.configure(st)
	st.Populate()
	s.areas[id] = st
	return st, nil
}

func (s *Simulation) configure(st *area.State) {
	if s.opts.VisionRadius > 0 && st.Definition().VisDist <= 0 {
		st.SetVisionRadius(s.opts.VisionRadius)
	}
	if s.opts.BumpRadius > 0 {
		st.SetBumpRadius(s.opts.BumpRadius)
	}
}

func (s *Simulation) activate(st *area.State) {
	s.current = st
	st.RecomputeVisibility()

	leader := model.NoEntity
	if party := s.partyIn(st); len(party) > 0 {
		leader = party[0].ID
	}
	st.FireOnAreaLoad(leader)
	slog.Info("entered area", "area", st.ID(), "leader", leader)
}

func (s *Simulation) finder(st *area.State) *geo.PathFinder {
	if pf, ok := s.finders[st.ID()]; ok {
		return pf
	}
	pf := geo.NewPathFinder(st.Width(), st.Height())
	if s.opts.MaxIterations > 0 {
		pf.SetMaxIterations(s.opts.MaxIterations)
	}
	s.finders[st.ID()] = pf
	return pf
}

func (s *Simulation) requireCurrent() (*area.State, error) {
	if s.current == nil {
		return nil, ErrNoArea
	}
	return s.current, nil
}

func (s *Simulation) entityInCurrent(id model.EntityID) (*area.State, *model.Entity, error) {
	st, err := s.requireCurrent()
	if err != nil {
		return nil, nil, err
	}
	e := s.mgr.Entity(id)
	if e == nil || !st.Contains(id) {
		return nil, nil, fmt.Errorf("entity %d in %q: %w", id, st.ID(), ErrNotInArea)
	}
	return st, e, nil
}

func (s *Simulation) partyIn(st *area.State) []*model.Entity {
	var members []*model.Entity
	for _, id := range s.mgr.Party() {
		if !st.Contains(id) {
			continue
		}
		if e := s.mgr.Entity(id); e != nil {
			members = append(members, e)
		}
	}
	return members
}

// ignoreFor lists the entities e may overlap: itself, plus the rest of
// the party while out of combat.
func (s *Simulation) ignoreFor(e *model.Entity) []model.EntityID {
	ignore := []model.EntityID{e.ID}
	if !e.Party || s.mgr.IsCombatActive() {
		return ignore
	}
	for _, id := range s.mgr.Party() {
		if id != e.ID {
			ignore = append(ignore, id)
		}
	}
	return ignore
}
