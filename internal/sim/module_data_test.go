package sim

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/module"
	"github.com/udisondev/tacgrid/internal/turn"
)

func TestShippedModule(t *testing.T) {
	c, err := module.LoadCatalog(filepath.Join("..", "..", "data", "module"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cave", "village"}, c.AreaIDs())

	mgr := turn.NewManager()
	var callbacks []string
	mgr.Subscribe(func(ev turn.Event) {
		if ev.Kind == turn.EventTrigger {
			callbacks = append(callbacks, ev.Callback)
		}
	})
	s := New(c, mgr, DefaultOptions())

	village, err := s.EnterArea("village")
	require.NoError(t, err)
	start := village.Definition().PartyStart
	leader, err := s.AddPartyMember("fighter", start.X, start.Y)
	require.NoError(t, err)
	_, err = s.AddPartyMember("ranger", start.X, start.Y)
	require.NoError(t, err)
	assert.Len(t, village.Entities(), 4, "two villagers and the party")

	path, err := s.FindPath(leader, 8, 6, 0)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	_, err = s.MoveAlong(leader, path)
	require.NoError(t, err)
	assert.Equal(t, geo.Pt(8, 6), mgr.Entity(leader).Location.Point())
	assert.Contains(t, callbacks, "village_intro")
	assert.Contains(t, callbacks, "village_square")

	cave, err := s.UseTransition(19, 6)
	require.NoError(t, err)
	assert.Equal(t, "cave", cave.ID())
	assert.Len(t, cave.Entities(), 4, "two goblins and the party")
	assert.Equal(t, geo.Pt(1, 4), mgr.Entity(leader).Location.Point())
	assert.Len(t, village.Entities(), 2, "party left the village")
}
