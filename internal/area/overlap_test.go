package area

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/testutil"
)

func countOverlaps(f *fixture) int {
	party := f.state.partyInArea()
	n := 0
	for i := range party {
		for j := i + 1; j < len(party); j++ {
			a, b := party[i], party[j]
			if geo.RectsOverlap(
				a.Location.X, a.Location.Y, a.Size.Width, a.Size.Height,
				b.Location.X, b.Location.Y, b.Size.Width, b.Size.Height,
			) {
				n++
			}
		}
	}
	return n
}

func TestBumpPartyOverlap(t *testing.T) {
	f := newFixture(t, testutil.OpenRows(12, 12), nil)
	a := f.actor(t, testutil.ActorHero, 5, 5, true)
	b := f.actor(t, testutil.ActorHero, 5, 5, true)
	c := f.actor(t, testutil.ActorHero, 5, 5, true)
	d := f.actor(t, testutil.ActorHero, 9, 9, true)
	f.rec.reset()

	assert.Equal(t, 2, f.state.BumpPartyOverlap())

	assert.Equal(t, geo.Pt(4, 4), f.entity(a).Location.Point())
	assert.Equal(t, geo.Pt(5, 4), f.entity(b).Location.Point())
	assert.Equal(t, geo.Pt(5, 5), f.entity(c).Location.Point())
	assert.Equal(t, geo.Pt(9, 9), f.entity(d).Location.Point())
	assert.Equal(t, 0, countOverlaps(f))

	assert.Equal(t, a, f.state.EntityAt(4, 4))
	assert.Equal(t, []model.EntityID{a, b}, f.mgr.TakeMoved())

	assert.Equal(t, 0, f.state.BumpPartyOverlap(), "second pass has nothing to do")
}

func TestBumpPartyOverlapWithoutRoom(t *testing.T) {
	f := newFixture(t, []string{"."}, nil)
	a := f.actor(t, testutil.ActorHero, 0, 0, true)
	f.actor(t, testutil.ActorHero, 0, 0, true)

	assert.Equal(t, 0, f.state.BumpPartyOverlap())
	assert.Equal(t, geo.Pt(0, 0), f.entity(a).Location.Point())
}

func TestBumpPartyOverlapIgnoresNonParty(t *testing.T) {
	f := newFixture(t, testutil.OpenRows(6, 6), nil)
	f.actor(t, testutil.ActorHero, 2, 2, true)
	f.actor(t, testutil.ActorCat, 2, 2, false)

	assert.Equal(t, 0, f.state.BumpPartyOverlap())
}

func TestFindFreeSpotScansRings(t *testing.T) {
	f := newFixture(t, []string{
		".....",
		".###.",
		".#.#.",
		".###.",
		".....",
	}, nil)
	hero := f.entity(f.actor(t, testutil.ActorHero, 2, 2, false))

	p, ok := f.state.FindFreeSpot(hero, 2, 2, 1)
	assert.False(t, ok, "ring 1 is all wall")

	p, ok = f.state.FindFreeSpot(hero, 2, 2, 3)
	require.True(t, ok)
	assert.Equal(t, geo.Pt(0, 0), p)
}

func TestBumpPartyOverlapRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := range 50 {
		f := newFixture(t, testutil.OpenRows(12, 12), nil)
		members := 2 + rng.IntN(7)
		for range members {
			x := 5 + int32(rng.IntN(3))
			y := 5 + int32(rng.IntN(3))
			f.actor(t, testutil.ActorHero, x, y, true)
		}

		f.state.BumpPartyOverlap()
		require.Equal(t, 0, countOverlaps(f), "round %d with %d members", round, members)
	}
}
