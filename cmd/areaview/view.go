package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/tacgrid/internal/area"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
	"github.com/udisondev/tacgrid/internal/sim"
)

var (
	styleVisible  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleExplored = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleParty    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleHostile  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleNeutral  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleProp     = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// viewer draws the current area of a simulation onto a screen.
type viewer struct {
	screen tcell.Screen
	sim    *sim.Simulation
	leader model.EntityID
	status string

	fullRedraws    int
	partialRedraws int
}

func newViewer(screen tcell.Screen, s *sim.Simulation, leader model.EntityID) *viewer {
	return &viewer{screen: screen, sim: s, leader: leader}
}

// step moves the leader one cell.
func (v *viewer) step(dx, dy int32) {
	e := v.sim.Manager().Entity(v.leader)
	if e == nil {
		return
	}
	x, y := e.Location.X+dx, e.Location.Y+dy
	if err := v.sim.MoveEntity(v.leader, x, y); err != nil {
		v.status = err.Error()
		return
	}
	v.status = ""

	st := v.sim.Current()
	if st.TransitionAt(x, y) != nil {
		next, err := v.sim.UseTransition(x, y)
		if err != nil {
			v.status = err.Error()
			return
		}
		v.status = fmt.Sprintf("entered %s", next.Definition().Name)
	}
	v.sim.Update()
}

// toggleAdjacent opens or closes the first door next to the leader.
func (v *viewer) toggleAdjacent() {
	e := v.sim.Manager().Entity(v.leader)
	if e == nil {
		return
	}
	st := v.sim.Current()
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			x, y := e.Location.X+dx, e.Location.Y+dy
			p := st.PropAt(x, y)
			if p == nil || !p.IsDoor() {
				continue
			}
			if err := v.sim.ToggleProp(x, y); err != nil {
				v.status = err.Error()
			} else {
				v.status = ""
			}
			return
		}
	}
	v.status = "no door nearby"
}

// draw repaints the map. The pending redraw request is consumed once per
// frame.
func (v *viewer) draw() {
	st := v.sim.Current()
	if st == nil {
		return
	}
	switch st.TakeRedraw().Kind {
	case area.RedrawFull:
		v.fullRedraws++
	case area.RedrawPartial:
		v.partialRedraws++
	}

	v.screen.Clear()
	def := st.Definition()
	for y := range st.Height() {
		for x := range st.Width() {
			r, style, ok := v.cell(st, x, y, rune(def.Rows[y][x]))
			if ok {
				v.screen.SetContent(int(x), int(y), r, nil, style)
			}
		}
	}

	line := fmt.Sprintf("%s  explored %d  %s", def.Name, st.ExploredCount(), v.status)
	for i, r := range line {
		v.screen.SetContent(i, int(st.Height())+1, r, nil, styleStatus)
	}
	v.screen.Show()
}

// cell picks the glyph for one map cell. Unexplored cells stay blank;
// explored cells out of sight show terrain and props only.
func (v *viewer) cell(st *area.State, x, y int32, tile rune) (rune, tcell.Style, bool) {
	if !st.IsPCExplored(x, y) {
		return 0, tcell.StyleDefault, false
	}
	visible := st.IsPCVisible(x, y)

	if visible {
		if id := st.EntityAt(x, y); id != model.NoEntity {
			if e := v.sim.Manager().Entity(id); e != nil {
				return entityGlyph(e)
			}
		}
	}
	if p := st.PropAt(x, y); p != nil && p.Enabled {
		return propGlyph(p), styleProp, true
	}
	if visible {
		return tile, styleVisible, true
	}
	return tile, styleExplored, true
}

func entityGlyph(e *model.Entity) (rune, tcell.Style, bool) {
	r := '?'
	if name := e.Name(); name != "" {
		r = []rune(name)[0]
	}
	switch {
	case e.Party:
		return '@', styleParty, true
	case e.Faction.IsHostile(module.FactionFriendly):
		return r, styleHostile, true
	default:
		return r, styleNeutral, true
	}
}

func propGlyph(p *area.PropState) rune {
	switch {
	case p.IsDoor() && p.Active:
		return '\''
	case p.IsDoor():
		return '+'
	case p.Template.Container:
		return '='
	default:
		return 'o'
	}
}
