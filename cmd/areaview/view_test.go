package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tacgrid/internal/area"
	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/module"
	"github.com/udisondev/tacgrid/internal/sim"
	"github.com/udisondev/tacgrid/internal/testutil"
	"github.com/udisondev/tacgrid/internal/turn"
)

func newTestViewer(t *testing.T) (*viewer, tcell.SimulationScreen) {
	t.Helper()
	c := testutil.Catalog(t)
	testutil.Area(t, c, "hall", []string{
		"########",
		"........",
		"########",
	}, func(def *module.Definition) {
		def.Props = []module.PropPlacement{{ID: testutil.PropDoor, Location: geo.Pt(3, 1)}}
	})

	s := sim.New(c, turn.NewManager(), sim.DefaultOptions())
	_, err := s.EnterArea("hall")
	require.NoError(t, err)
	leader, err := s.AddPartyMember(testutil.ActorScout, 0, 1)
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(20, 6)

	return newViewer(screen, s, leader), screen
}

func glyph(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func TestViewerDrawsFog(t *testing.T) {
	v, screen := newTestViewer(t)
	v.draw()

	assert.Equal(t, '@', glyph(screen, 0, 1))
	assert.Equal(t, '.', glyph(screen, 2, 1))
	assert.Equal(t, '#', glyph(screen, 0, 0))
	assert.Equal(t, '+', glyph(screen, 3, 1), "closed door")
	assert.NotEqual(t, '.', glyph(screen, 5, 1), "behind the door stays dark")

	assert.Equal(t, 1, v.fullRedraws)
	assert.Equal(t, 0, v.partialRedraws)
	assert.Equal(t, area.RedrawNone, v.sim.Current().PeekRedraw().Kind, "consumed by the frame")
}

func TestViewerStepAndToggle(t *testing.T) {
	v, screen := newTestViewer(t)
	v.draw()

	v.step(1, 0)
	v.step(1, 0)
	v.draw()
	assert.Equal(t, '@', glyph(screen, 2, 1))
	assert.Equal(t, '.', glyph(screen, 0, 1))
	assert.Equal(t, 1, v.partialRedraws)

	v.step(0, -1)
	assert.NotEmpty(t, v.status, "walls block")
	e := v.sim.Manager().Entity(v.leader)
	assert.Equal(t, geo.Pt(2, 1), e.Location.Point())

	v.toggleAdjacent()
	assert.Empty(t, v.status)
	v.draw()
	assert.Equal(t, '\'', glyph(screen, 3, 1), "open door")
	assert.Equal(t, '.', glyph(screen, 5, 1))
}

func TestViewerToggleWithoutDoor(t *testing.T) {
	v, _ := newTestViewer(t)
	v.toggleAdjacent()
	assert.Equal(t, "no door nearby", v.status)
}

func TestHandleKey(t *testing.T) {
	v, _ := newTestViewer(t)

	assert.True(t, v.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	e := v.sim.Manager().Entity(v.leader)
	assert.Equal(t, geo.Pt(1, 1), e.Location.Point())

	assert.False(t, v.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, v.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}
