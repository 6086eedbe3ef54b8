package area

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/testutil"
)

func TestAddEntityFootprint(t *testing.T) {
	f := newFixture(t, testutil.OpenRows(10, 10), nil)
	ogre := f.actor(t, testutil.ActorOgre, 2, 2, false)

	for _, p := range []geo.Point{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}} {
		assert.Equal(t, ogre, f.state.EntityAt(p.X, p.Y), "cell %v", p)
	}
	assert.Equal(t, model.NoEntity, f.state.EntityAt(4, 4))
	assert.Equal(t, model.NoEntity, f.state.EntityAt(-1, 0))
	assert.Equal(t, []model.EntityID{ogre}, f.state.Entities())
}

func TestAddEntityOutOfBounds(t *testing.T) {
	f := newFixture(t, testutil.OpenRows(10, 10), nil)
	tpl, err := f.catalog.Actor(testutil.ActorOgre)
	require.NoError(t, err)

	_, err = f.state.AddActor(tpl, 9, 9, "", false, model.NoAIGroup)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.ErrorIs(t, err, ErrInvalidData)
	assert.Equal(t, 0, f.mgr.EntityCount(), "failed actor is dropped from the manager")
	assert.Empty(t, f.state.Entities())
}

func TestAddEntityTwice(t *testing.T) {
	f := newFixture(t, testutil.OpenRows(5, 5), nil)
	id := f.actor(t, testutil.ActorOrc, 1, 1, false)

	err := f.state.AddEntity(id, 2, 2)
	assert.ErrorIs(t, err, ErrInvalidData)
	assert.Equal(t, id, f.state.EntityAt(1, 1))
	assert.Equal(t, model.NoEntity, f.state.EntityAt(2, 2))
}

func TestMoveEntityRejectsOutOfBounds(t *testing.T) {
	f := newFixture(t, testutil.OpenRows(10, 10), nil)
	id := f.actor(t, testutil.ActorOgre, 0, 0, false)
	f.rec.reset()

	for _, dest := range []geo.Point{{X: -1, Y: 0}, {X: 9, Y: 0}, {X: 0, Y: 10}} {
		err := f.state.MoveEntity(id, dest.X, dest.Y)
		assert.ErrorIs(t, err, ErrOutOfBounds, "dest %v", dest)
	}

	assert.Equal(t, geo.Pt(0, 0), f.entity(id).Location.Point())
	assert.Equal(t, id, f.state.EntityAt(1, 1))
	assert.Empty(t, f.rec.events)
	assert.Empty(t, f.mgr.TakeMoved())
}

func TestMoveEntityUnknown(t *testing.T) {
	f := newFixture(t, testutil.OpenRows(5, 5), nil)

	assert.ErrorIs(t, f.state.MoveEntity(7, 1, 1), ErrUnknownEntity)
	assert.ErrorIs(t, f.state.RemoveEntity(7), ErrUnknownEntity)
}

func TestMoveEntityQueuesMoved(t *testing.T) {
	f := newFixture(t, testutil.OpenRows(5, 5), nil)
	id := f.actor(t, testutil.ActorOrc, 0, 0, false)

	require.NoError(t, f.state.MoveEntity(id, 1, 0))
	require.NoError(t, f.state.MoveEntity(id, 2, 0))

	assert.Equal(t, []model.EntityID{id}, f.mgr.TakeMoved())
	assert.Equal(t, model.NoEntity, f.state.EntityAt(0, 0))
	assert.Equal(t, id, f.state.EntityAt(2, 0))
}

func TestThreatRelations(t *testing.T) {
	f := newFixture(t, testutil.OpenRows(10, 3), nil)
	hero := f.actor(t, testutil.ActorHero, 0, 0, false)
	orc := f.actor(t, testutil.ActorOrc, 5, 0, false)
	cat := f.actor(t, testutil.ActorCat, 0, 1, false)

	assert.False(t, f.entity(hero).IsThreatened())
	assert.False(t, f.entity(orc).IsThreatened())

	require.NoError(t, f.state.MoveEntity(orc, 1, 0))
	assert.Equal(t, []model.EntityID{hero}, f.entity(orc).Threatening())
	assert.Equal(t, []model.EntityID{orc}, f.entity(hero).Threatening())
	assert.Empty(t, f.entity(cat).Threateners(), "neutrals are never threatened")

	f.entity(hero).AttackDisabled = true
	require.NoError(t, f.state.MoveEntity(orc, 1, 1))
	assert.False(t, f.entity(hero).IsThreatening(orc))
	assert.True(t, f.entity(orc).IsThreatening(hero))

	require.NoError(t, f.state.MoveEntity(orc, 6, 0))
	assert.False(t, f.entity(hero).IsThreatened())

	require.NoError(t, f.state.MoveEntity(orc, 1, 0))
	require.NoError(t, f.state.RemoveEntity(orc))
	assert.False(t, f.entity(hero).IsThreatened())
	assert.Empty(t, f.entity(orc).Threatening())
}

// checkFootprints asserts every cell holds exactly the live entities whose
// footprint covers it.
func checkFootprints(t *testing.T, f *fixture) {
	t.Helper()
	s := f.state
	want := make([][]model.EntityID, len(s.entityGrid))
	for _, id := range s.entities {
		for _, p := range f.entity(id).Points() {
			idx := s.index(p.X, p.Y)
			want[idx] = append(want[idx], id)
		}
	}
	for idx := range s.entityGrid {
		got := slices.Clone(s.entityGrid[idx])
		slices.Sort(got)
		slices.Sort(want[idx])
		if len(got) == 0 && len(want[idx]) == 0 {
			continue
		}
		require.Equal(t, want[idx], got, "cell %v", geo.CellPoint(idx, s.width))
	}
}

func TestFootprintInvariantRandomized(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 4} {
		f := newFixture(t, testutil.OpenRows(20, 20), nil)
		rng := rand.New(rand.NewPCG(seed, seed*7))
		templates := []string{testutil.ActorOrc, testutil.ActorOgre, testutil.ActorCat, testutil.ActorHero}

		var live []model.EntityID
		for range 400 {
			switch op := rng.IntN(10); {
			case op < 3 || len(live) == 0:
				tpl, err := f.catalog.Actor(templates[rng.IntN(len(templates))])
				require.NoError(t, err)
				id, err := f.state.AddActor(tpl, rng.Int32N(21), rng.Int32N(21), "", false, model.NoAIGroup)
				if err == nil {
					live = append(live, id)
				}
			case op < 9:
				id := live[rng.IntN(len(live))]
				_ = f.state.MoveEntity(id, rng.Int32N(22)-1, rng.Int32N(22)-1)
			default:
				i := rng.IntN(len(live))
				require.NoError(t, f.state.RemoveEntity(live[i]))
				live = slices.Delete(live, i, i+1)
			}
			checkFootprints(t, f)
		}
		assert.ElementsMatch(t, live, f.state.Entities())
	}
}
