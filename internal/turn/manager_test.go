package turn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
)

func newEntity(t *testing.T, party bool) *model.Entity {
	t.Helper()
	size, err := module.NewObjectSize("1x1", 1, 1)
	require.NoError(t, err)
	tpl := &module.ActorTemplate{ID: "a", Size: size, Faction: module.FactionHostile}
	return model.NewEntity(tpl, "", model.Location{}, party)
}

type recorder struct {
	events []Event
}

func (r *recorder) listen(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func TestArenaHandlesNotReused(t *testing.T) {
	m := NewManager()

	a := m.AddEntity(newEntity(t, true))
	b := m.AddEntity(newEntity(t, false))
	assert.Equal(t, model.EntityID(0), a)
	assert.Equal(t, model.EntityID(1), b)
	assert.Equal(t, []model.EntityID{a}, m.Party())

	m.RemoveEntity(a)
	assert.Nil(t, m.Entity(a))
	assert.Empty(t, m.Party())

	c := m.AddEntity(newEntity(t, false))
	assert.Equal(t, model.EntityID(2), c)
	assert.Equal(t, 2, m.EntityCount())
	assert.Nil(t, m.Entity(-1))
	assert.Nil(t, m.Entity(99))
}

func TestSurfaceMembershipIdempotent(t *testing.T) {
	m := NewManager()
	rec := &recorder{}
	m.Subscribe(rec.listen)

	e := m.AddEntity(newEntity(t, false))
	s := m.CreateSurface("cave", "fire", []geo.Point{{X: 1, Y: 1}}, model.NoEntity)

	m.AddToSurface(e, s)
	m.AddToSurface(e, s)
	m.IncrementSurfaceSquaresMoved(e, s)
	m.IncrementSurfaceSquaresMoved(e, s)
	m.RemoveFromSurface(e, s)
	m.RemoveFromSurface(e, s)
	m.IncrementSurfaceSquaresMoved(e, s)

	assert.Equal(t, []EventKind{
		EventSurfaceEnter,
		EventSurfaceMoved,
		EventSurfaceMoved,
		EventSurfaceLeave,
	}, rec.kinds())
	assert.Equal(t, uint32(2), rec.events[2].Squares)
	assert.False(t, m.IsInSurface(e, s))
}

func TestAurasFor(t *testing.T) {
	m := NewManager()
	owner := m.AddEntity(newEntity(t, true))

	fixed := m.CreateSurface("cave", "web", nil, model.NoEntity)
	aura1 := m.CreateSurface("cave", "light", nil, owner)
	aura2 := m.CreateSurface("cave", "fear", nil, owner)

	assert.Equal(t, []model.SurfaceID{aura1, aura2}, m.AurasFor(owner))
	assert.False(t, m.Surface(fixed).IsAura())

	m.SetSurfacePoints(aura1, []geo.Point{{X: 2, Y: 2}})
	assert.Equal(t, []geo.Point{{X: 2, Y: 2}}, m.SurfacePoints(aura1))

	m.DeleteSurface(aura1)
	assert.Equal(t, []model.SurfaceID{aura2}, m.AurasFor(owner))
	assert.Nil(t, m.SurfacePoints(aura1))
}

func TestMovedQueue(t *testing.T) {
	m := NewManager()
	rec := &recorder{}
	m.Subscribe(rec.listen)

	a := m.AddEntity(newEntity(t, false))
	b := m.AddEntity(newEntity(t, false))

	m.FireOnMovedNextUpdate(b)
	m.FireOnMovedNextUpdate(a)
	m.FireOnMovedNextUpdate(b)
	m.Update()

	require.Len(t, rec.events, 2)
	assert.Equal(t, b, rec.events[0].Entity)
	assert.Equal(t, a, rec.events[1].Entity)
	assert.Empty(t, m.TakeMoved())
}

func TestCombatFlagAndAIGroups(t *testing.T) {
	m := NewManager()
	rec := &recorder{}
	m.Subscribe(rec.listen)

	m.SetCombatActive(true)
	m.SetCombatActive(true)
	assert.True(t, m.IsCombatActive())
	m.SetCombatActive(false)
	assert.Equal(t, []EventKind{EventCombatStarted, EventCombatEnded}, rec.kinds())

	g0 := m.NextAIGroup("cave", 0)
	g1 := m.NextAIGroup("cave", 1)
	assert.NotEqual(t, g0, g1)
	assert.Equal(t, g0, m.NextAIGroup("cave", 0))
}

func TestFireTrigger(t *testing.T) {
	m := NewManager()
	rec := &recorder{}
	m.Subscribe(rec.listen)

	m.FireTrigger("cave", 3, "greet", 7)

	require.Len(t, rec.events, 1)
	assert.Equal(t, Event{Kind: EventTrigger, Entity: 7, AreaID: "cave", Trigger: 3, Callback: "greet"}, rec.events[0])
}
