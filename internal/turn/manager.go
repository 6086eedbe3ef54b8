package turn

import (
	"log/slog"
	"slices"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
)

// Manager owns the entity arena, the party roster, surfaces and the
// combat flag. Areas call back into it while keeping their grids in sync.
//
// Not safe for concurrent use; the simulation runs on one goroutine.
type Manager struct {
	entities []*model.Entity
	party    []model.EntityID
	combat   bool

	surfaces    map[model.SurfaceID]*Surface
	nextSurface model.SurfaceID

	moved    []model.EntityID
	movedSet map[model.EntityID]struct{}

	aiGroups    map[aiGroupKey]int
	nextAIGroup int

	listeners []Listener
}

type aiGroupKey struct {
	areaID    string
	encounter int
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		surfaces: make(map[model.SurfaceID]*Surface),
		movedSet: make(map[model.EntityID]struct{}),
		aiGroups: make(map[aiGroupKey]int),
	}
}

// Subscribe registers a listener. Listeners run synchronously in
// registration order.
func (m *Manager) Subscribe(l Listener) {
	m.listeners = append(m.listeners, l)
}

func (m *Manager) emit(ev Event) {
	for _, l := range m.listeners {
		l(ev)
	}
}

// AddEntity stores an entity in the arena and assigns its handle.
func (m *Manager) AddEntity(e *model.Entity) model.EntityID {
	e.ID = model.EntityID(len(m.entities))
	m.entities = append(m.entities, e)
	if e.Party {
		m.party = append(m.party, e.ID)
	}
	return e.ID
}

// RemoveEntity drops an entity from the arena, the party and every
// surface. The handle is not reused.
func (m *Manager) RemoveEntity(id model.EntityID) {
	e := m.Entity(id)
	if e == nil {
		return
	}
	for _, s := range m.surfaces {
		delete(s.members, id)
	}
	m.party = slices.DeleteFunc(m.party, func(p model.EntityID) bool { return p == id })
	m.entities[id] = nil
}

// Entity returns the entity for a handle, or nil for unknown or removed handles.
func (m *Manager) Entity(id model.EntityID) *model.Entity {
	if id < 0 || int(id) >= len(m.entities) {
		return nil
	}
	return m.entities[id]
}

// EntityCount returns the number of live entities.
func (m *Manager) EntityCount() int {
	n := 0
	for _, e := range m.entities {
		if e != nil {
			n++
		}
	}
	return n
}

// Party returns the party in roster order.
func (m *Manager) Party() []model.EntityID {
	return slices.Clone(m.party)
}

// IsCombatActive reports whether combat is running.
func (m *Manager) IsCombatActive() bool {
	return m.combat
}

// SetCombatActive flips the combat flag and notifies listeners on change.
func (m *Manager) SetCombatActive(active bool) {
	if m.combat == active {
		return
	}
	m.combat = active
	if active {
		m.emit(Event{Kind: EventCombatStarted, Entity: model.NoEntity})
	} else {
		m.emit(Event{Kind: EventCombatEnded, Entity: model.NoEntity})
	}
}

// NextAIGroup returns the AI group for an encounter, allocating one on
// first use so respawns of the same encounter share a group.
func (m *Manager) NextAIGroup(areaID string, encounter int) int {
	key := aiGroupKey{areaID: areaID, encounter: encounter}
	if g, ok := m.aiGroups[key]; ok {
		return g
	}
	g := m.nextAIGroup
	m.nextAIGroup++
	m.aiGroups[key] = g
	return g
}

// CreateSurface registers a surface. Pass model.NoEntity as owner for a
// stationary surface.
func (m *Manager) CreateSurface(areaID, name string, points []geo.Point, owner model.EntityID) model.SurfaceID {
	id := m.nextSurface
	m.nextSurface++
	m.surfaces[id] = &Surface{
		ID:      id,
		AreaID:  areaID,
		Name:    name,
		Points:  slices.Clone(points),
		Owner:   owner,
		members: make(map[model.EntityID]uint32),
	}
	slog.Debug("surface created", "id", id, "name", name, "area", areaID, "points", len(points))
	return id
}

// DeleteSurface forgets a surface. Call after the area released it.
func (m *Manager) DeleteSurface(id model.SurfaceID) {
	delete(m.surfaces, id)
}

// Surface returns a surface, or nil.
func (m *Manager) Surface(id model.SurfaceID) *Surface {
	return m.surfaces[id]
}

// SurfacePoints returns the cells covered by a surface.
func (m *Manager) SurfacePoints(id model.SurfaceID) []geo.Point {
	s := m.surfaces[id]
	if s == nil {
		return nil
	}
	return s.Points
}

// SetSurfacePoints replaces the cells of a surface (aura translation).
func (m *Manager) SetSurfacePoints(id model.SurfaceID, points []geo.Point) {
	if s := m.surfaces[id]; s != nil {
		s.Points = points
	}
}

// AurasFor returns the auras owned by an entity, sorted.
func (m *Manager) AurasFor(owner model.EntityID) []model.SurfaceID {
	var ids []model.SurfaceID
	for id, s := range m.surfaces {
		if s.Owner == owner {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// AddToSurface marks an entity as inside a surface. Repeated calls are no-ops.
func (m *Manager) AddToSurface(entity model.EntityID, surface model.SurfaceID) {
	s := m.surfaces[surface]
	if s == nil {
		return
	}
	if _, ok := s.members[entity]; ok {
		return
	}
	s.members[entity] = 0
	m.emit(Event{Kind: EventSurfaceEnter, Entity: entity, Surface: surface, AreaID: s.AreaID})
}

// RemoveFromSurface marks an entity as outside a surface. Repeated calls are no-ops.
func (m *Manager) RemoveFromSurface(entity model.EntityID, surface model.SurfaceID) {
	s := m.surfaces[surface]
	if s == nil {
		return
	}
	if _, ok := s.members[entity]; !ok {
		return
	}
	delete(s.members, entity)
	m.emit(Event{Kind: EventSurfaceLeave, Entity: entity, Surface: surface, AreaID: s.AreaID})
}

// IncrementSurfaceSquaresMoved counts one step taken inside a surface.
func (m *Manager) IncrementSurfaceSquaresMoved(entity model.EntityID, surface model.SurfaceID) {
	s := m.surfaces[surface]
	if s == nil {
		return
	}
	if _, ok := s.members[entity]; !ok {
		return
	}
	s.members[entity]++
	m.emit(Event{Kind: EventSurfaceMoved, Entity: entity, Surface: surface, Squares: s.members[entity], AreaID: s.AreaID})
}

// IsInSurface reports whether an entity is currently a surface member.
func (m *Manager) IsInSurface(entity model.EntityID, surface model.SurfaceID) bool {
	s := m.surfaces[surface]
	if s == nil {
		return false
	}
	_, ok := s.members[entity]
	return ok
}

// FireOnMovedNextUpdate queues a moved notification for the next Update.
// An entity is queued at most once per update.
func (m *Manager) FireOnMovedNextUpdate(entity model.EntityID) {
	if _, ok := m.movedSet[entity]; ok {
		return
	}
	m.movedSet[entity] = struct{}{}
	m.moved = append(m.moved, entity)
}

// TakeMoved drains the moved queue without notifying listeners.
func (m *Manager) TakeMoved() []model.EntityID {
	moved := m.moved
	m.moved = nil
	clear(m.movedSet)
	return moved
}

// FireTrigger forwards an area trigger activation to listeners.
func (m *Manager) FireTrigger(areaID string, index int, callback string, target model.EntityID) {
	slog.Info("trigger fired", "area", areaID, "trigger", index, "callback", callback, "target", target)
	m.emit(Event{
		Kind:     EventTrigger,
		Entity:   target,
		AreaID:   areaID,
		Trigger:  index,
		Callback: callback,
	})
}

// Update delivers queued moved notifications.
func (m *Manager) Update() {
	for _, id := range m.TakeMoved() {
		if m.Entity(id) == nil {
			continue
		}
		m.emit(Event{Kind: EventEntityMoved, Entity: id})
	}
}
