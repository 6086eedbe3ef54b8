package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/module"
)

// Ids of the fixture catalog.
const (
	Size1x1 = "1x1"
	Size2x2 = "2x2"

	ActorHero  = "hero"  // friendly, melee reach 1, sight 4
	ActorScout = "scout" // friendly, ranged, sight 6
	ActorOrc   = "orc"   // hostile, melee reach 1
	ActorOgre  = "ogre"  // hostile 2x2, melee reach 1.5
	ActorCat   = "cat"   // neutral

	PropDoor    = "door"    // 1x1, starts closed, blocks sight and movement
	PropChest   = "chest"   // 1x1 container
	PropBoulder = "boulder" // 2x2, no overlay effect
	PropBag     = "bag"     // loot drop container
)

// Catalog returns a small catalog shared by area and simulation tests.
func Catalog(t testing.TB) *module.Catalog {
	t.Helper()

	c := module.NewCatalog()
	c.SetRules(module.Rules{LootDropProp: PropBag})

	_, err := c.AddSize(Size1x1, 1, 1)
	require.NoError(t, err)
	_, err = c.AddSize(Size2x2, 2, 2)
	require.NoError(t, err)

	for _, a := range []module.ActorTemplate{
		{ID: ActorHero, Name: "Hero", SizeID: Size1x1, Faction: module.FactionFriendly, MeleeReach: 1, VisionRadius: 4},
		{ID: ActorScout, Name: "Scout", SizeID: Size1x1, Faction: module.FactionFriendly, VisionRadius: 6},
		{ID: ActorOrc, Name: "Orc", SizeID: Size1x1, Faction: module.FactionHostile, MeleeReach: 1},
		{ID: ActorOgre, Name: "Ogre", SizeID: Size2x2, Faction: module.FactionHostile, MeleeReach: 1.5},
		{ID: ActorCat, Name: "Cat", SizeID: Size1x1, Faction: module.FactionNeutral},
	} {
		_, err := c.AddActor(a)
		require.NoError(t, err)
	}

	closed := []geo.Point{{X: 0, Y: 0}}
	for _, p := range []module.PropTemplate{
		{ID: PropDoor, SizeID: Size1x1, Door: &module.DoorSpec{ClosedInvis: closed, ClosedImpass: closed}},
		{ID: PropChest, SizeID: Size1x1, Container: true},
		{ID: PropBoulder, SizeID: Size2x2},
		{ID: PropBag, SizeID: Size1x1, Container: true},
	} {
		_, err := c.AddProp(p)
		require.NoError(t, err)
	}
	return c
}

// OpenRows returns width×height rows of floor.
func OpenRows(width, height int) []string {
	rows := make([]string, height)
	for y := range rows {
		row := make([]byte, width)
		for x := range row {
			row[x] = module.TileFloor
		}
		rows[y] = string(row)
	}
	return rows
}

// Area builds a definition from terrain rows, lets the caller adjust it and
// registers it in the catalog.
func Area(t testing.TB, c *module.Catalog, id string, rows []string, adjust func(*module.Definition)) *module.Definition {
	t.Helper()
	require.NotEmpty(t, rows)

	def := &module.Definition{
		ID:     id,
		Name:   id,
		Width:  int32(len(rows[0])),
		Height: int32(len(rows)),
		Seed:   42,
		Rows:   rows,
	}
	if adjust != nil {
		adjust(def)
	}
	require.NoError(t, c.AddArea(def))
	return def
}
