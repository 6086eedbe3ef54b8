package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/module"
)

func template(t *testing.T, id string, w, h int32, faction module.Faction, reach float32) *module.ActorTemplate {
	t.Helper()
	size, err := module.NewObjectSize("s", w, h)
	require.NoError(t, err)
	return &module.ActorTemplate{ID: id, Name: id, Size: size, Faction: faction, MeleeReach: reach}
}

func TestEntityDist(t *testing.T) {
	a := NewEntity(template(t, "a", 1, 1, module.FactionFriendly, 1), "", NewLocation("x", 0, 0), false)
	b := NewEntity(template(t, "b", 1, 1, module.FactionHostile, 1), "", NewLocation("x", 1, 0), false)
	far := NewEntity(template(t, "c", 1, 1, module.FactionHostile, 1), "", NewLocation("x", 5, 0), false)

	assert.Less(t, a.DistToEntity(b), float32(0.5), "adjacent footprints almost touch")
	assert.Greater(t, a.DistToEntity(far), float32(1))
	assert.True(t, a.CanReach(a.DistToEntity(b)))
	assert.False(t, a.CanReach(a.DistToEntity(far)))
}

func TestEntityHostility(t *testing.T) {
	hero := NewEntity(template(t, "hero", 1, 1, module.FactionNeutral, 1), "", Location{}, true)
	orc := NewEntity(template(t, "orc", 1, 1, module.FactionHostile, 1), "", Location{}, false)
	cat := NewEntity(template(t, "cat", 1, 1, module.FactionNeutral, 0), "", Location{}, false)

	assert.Equal(t, module.FactionFriendly, hero.Faction, "party members are always friendly")
	assert.True(t, hero.IsHostile(orc))
	assert.True(t, orc.IsHostile(hero))
	assert.False(t, cat.IsHostile(orc))
	assert.False(t, cat.IsMelee())
}

func TestEntityThreatSets(t *testing.T) {
	e := NewEntity(template(t, "e", 1, 1, module.FactionHostile, 1), "uniq", Location{}, false)
	assert.Equal(t, "uniq", e.UniqueID)

	e.AddThreatening(3)
	e.AddThreatening(1)
	e.AddThreatener(2)
	assert.Equal(t, []EntityID{1, 3}, e.Threatening())
	assert.True(t, e.IsThreatened())

	e.RemoveThreatener(2)
	e.RemoveThreatening(3)
	assert.False(t, e.IsThreatened())
	assert.True(t, e.IsThreatening(1))
	assert.False(t, e.IsThreatening(3))
}

func TestEntityPoints(t *testing.T) {
	e := NewEntity(template(t, "big", 2, 2, module.FactionHostile, 1), "", NewLocation("x", 3, 4), false)

	assert.Equal(t, []geo.Point{{X: 3, Y: 4}, {X: 4, Y: 4}, {X: 3, Y: 5}, {X: 4, Y: 5}}, e.Points())
	assert.Equal(t, geo.Pt(0, 0), e.PointsAt(0, 0)[0])
}
