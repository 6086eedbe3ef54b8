package area

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
	"github.com/udisondev/tacgrid/internal/testutil"
	"github.com/udisondev/tacgrid/internal/turn"
)

type recorder struct {
	events []turn.Event
}

func (r *recorder) listen(ev turn.Event) { r.events = append(r.events, ev) }

func (r *recorder) reset() { r.events = nil }

// surfaceEvents returns the surface event kinds seen by one entity, in order.
func (r *recorder) surfaceEvents(entity model.EntityID) []turn.EventKind {
	var kinds []turn.EventKind
	for _, ev := range r.events {
		if ev.Entity != entity {
			continue
		}
		switch ev.Kind {
		case turn.EventSurfaceEnter, turn.EventSurfaceLeave, turn.EventSurfaceMoved:
			kinds = append(kinds, ev.Kind)
		}
	}
	return kinds
}

func (r *recorder) triggers() []turn.Event {
	var out []turn.Event
	for _, ev := range r.events {
		if ev.Kind == turn.EventTrigger {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	state   *State
	mgr     *turn.Manager
	rec     *recorder
	catalog *module.Catalog
}

func newFixture(t *testing.T, rows []string, adjust func(*module.Definition)) *fixture {
	t.Helper()
	c := testutil.Catalog(t)
	def := testutil.Area(t, c, "test", rows, adjust)
	mgr := turn.NewManager()
	rec := &recorder{}
	mgr.Subscribe(rec.listen)

	s := New(def, c, mgr)
	s.Populate()
	return &fixture{state: s, mgr: mgr, rec: rec, catalog: c}
}

func (f *fixture) actor(t *testing.T, id string, x, y int32, party bool) model.EntityID {
	t.Helper()
	tpl, err := f.catalog.Actor(id)
	require.NoError(t, err)
	eid, err := f.state.AddActor(tpl, x, y, "", party, model.NoAIGroup)
	require.NoError(t, err)
	return eid
}

func (f *fixture) prop(t *testing.T, id string, x, y int32) model.PropID {
	t.Helper()
	tpl, err := f.catalog.Prop(id)
	require.NoError(t, err)
	pid, err := f.state.AddProp(tpl, x, y, true, false)
	require.NoError(t, err)
	return pid
}

func (f *fixture) entity(id model.EntityID) *model.Entity {
	return f.mgr.Entity(id)
}
