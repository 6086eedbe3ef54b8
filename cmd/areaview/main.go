package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/tacgrid/internal/config"
	"github.com/udisondev/tacgrid/internal/module"
	"github.com/udisondev/tacgrid/internal/sim"
	"github.com/udisondev/tacgrid/internal/turn"
)

const ConfigPath = "config/tacsim.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := ConfigPath
	if p := os.Getenv("TACGRID_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	// The terminal belongs to tcell; logs go to stderr and only above warn.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	catalog, err := module.LoadCatalog(cfg.ModuleDir)
	if err != nil {
		return fmt.Errorf("loading module: %w", err)
	}

	s := sim.New(catalog, turn.NewManager(), sim.Options{
		MaxIterations: cfg.PathFinder.MaxIterations,
		VisionRadius:  cfg.Visibility.DefaultRadius,
		BumpRadius:    cfg.Overlap.MaxRadius,
	})
	st, err := s.EnterArea(cfg.StartArea)
	if err != nil {
		return err
	}
	if len(cfg.Party) == 0 {
		return fmt.Errorf("empty party")
	}
	start := st.Definition().PartyStart
	leader, err := s.AddPartyMember(cfg.Party[0], start.X, start.Y)
	if err != nil {
		return err
	}
	for _, actorID := range cfg.Party[1:] {
		if _, err := s.AddPartyMember(actorID, start.X, start.Y); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	v := newViewer(screen, s, leader)
	v.draw()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if !v.handleKey(ev) {
				return nil
			}
		case nil:
			return nil
		}
		v.draw()
	}
}

// handleKey applies one key press. Returns false when the viewer should quit.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.step(0, -1)
	case tcell.KeyDown:
		v.step(0, 1)
	case tcell.KeyLeft:
		v.step(-1, 0)
	case tcell.KeyRight:
		v.step(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'o':
			v.toggleAdjacent()
		}
	}
	return true
}
