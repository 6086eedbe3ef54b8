package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/tacgrid/internal/area"
	"github.com/udisondev/tacgrid/internal/config"
	"github.com/udisondev/tacgrid/internal/db"
	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/model"
	"github.com/udisondev/tacgrid/internal/module"
	"github.com/udisondev/tacgrid/internal/sim"
	"github.com/udisondev/tacgrid/internal/turn"
)

const ConfigPath = "config/tacsim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
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

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	slog.Info("tacsim starting", "log_level", cfg.LogLevel, "module", cfg.ModuleDir, "start_area", cfg.StartArea)

	// Catalog and database come up in parallel
	var (
		catalog  *module.Catalog
		database *db.DB
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := module.LoadCatalog(cfg.ModuleDir)
		if err != nil {
			return fmt.Errorf("loading module: %w", err)
		}
		catalog = c
		return nil
	})
	if cfg.Persistence.Enabled {
		g.Go(func() error {
			d, err := db.New(gctx, cfg.Database.DSN())
			if err != nil {
				return err
			}
			if err := db.RunMigrations(gctx, cfg.Database.DSN()); err != nil {
				d.Close()
				return err
			}
			database = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if database != nil {
			database.Close()
		}
		return err
	}

	var persistence *db.AreaPersistenceService
	if database != nil {
		defer database.Close()
		persistence = db.NewAreaPersistenceService(database.Pool(), db.NewAreaStateRepository(database.Pool()))
		slog.Info("database connected")
	}

	mgr := turn.NewManager()
	mgr.Subscribe(logEvent)

	simulation := sim.New(catalog, mgr, sim.Options{
		MaxIterations: cfg.PathFinder.MaxIterations,
		VisionRadius:  cfg.Visibility.DefaultRadius,
		BumpRadius:    cfg.Overlap.MaxRadius,
	})

	if persistence != nil {
		saves, err := persistence.LoadAreas(ctx, cfg.SaveID)
		if err != nil {
			return fmt.Errorf("loading saves: %w", err)
		}
		if err := simulation.Restore(saves); err != nil {
			return fmt.Errorf("restoring saves: %w", err)
		}
	}

	st, err := simulation.EnterArea(cfg.StartArea)
	if err != nil {
		return err
	}

	start := st.Definition().PartyStart
	var party []model.EntityID
	for _, actorID := range cfg.Party {
		id, err := simulation.AddPartyMember(actorID, start.X, start.Y)
		if err != nil {
			return fmt.Errorf("creating party: %w", err)
		}
		party = append(party, id)
	}
	if len(party) == 0 {
		return fmt.Errorf("empty party")
	}

	if err := script(ctx, simulation, party[0]); err != nil {
		return err
	}

	if persistence != nil {
		if err := persistence.SaveAreas(ctx, cfg.SaveID, simulation.SaveAreas()); err != nil {
			return fmt.Errorf("saving areas: %w", err)
		}
	}

	slog.Info("tacsim finished")
	return nil
}

// script walks the leader to the area's points of interest, starts and
// ends a combat round and finally takes the first transition.
func script(ctx context.Context, s *sim.Simulation, leader model.EntityID) error {
	st := s.Current()
	def := st.Definition()

	var targets []geo.Point
	for _, tr := range def.Triggers {
		if tr.Kind == module.TriggerOnPlayerEnter {
			targets = append(targets, tr.Location)
		}
	}
	targets = append(targets, geo.Pt(def.Width/2, def.Height/2))

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		walk(s, leader, target)
		s.Update()
	}

	bumped := s.StartCombat()
	slog.Info("combat round", "bumped", bumped, "explored", st.ExploredCount())
	s.EndCombat()

	if len(def.Transitions) == 0 || ctx.Err() != nil {
		return ctx.Err()
	}
	tr := def.Transitions[0]
	if !walk(s, leader, tr.From) {
		return nil
	}
	next, err := s.UseTransition(tr.From.X, tr.From.Y)
	if err != nil {
		return fmt.Errorf("using transition: %w", err)
	}
	s.Update()
	slog.Info("arrived", "area", next.ID(), "explored", next.ExploredCount(), "redraw", redrawName(next.TakeRedraw()))
	return nil
}

// walk paths the entity to target. Returns true when it arrived.
func walk(s *sim.Simulation, id model.EntityID, target geo.Point) bool {
	path, err := s.FindPath(id, target.X, target.Y, 0)
	if err != nil {
		slog.Warn("path search failed", "err", err)
		return false
	}
	if path == nil {
		e := s.Manager().Entity(id)
		return e != nil && e.Location.Point() == target
	}

	steps, err := s.MoveAlong(id, path)
	if err != nil {
		slog.Warn("walk interrupted", "steps", steps, "err", err)
		return false
	}
	slog.Info("walked", "to_x", target.X, "to_y", target.Y, "steps", steps)
	return true
}

func logEvent(ev turn.Event) {
	switch ev.Kind {
	case turn.EventTrigger:
		slog.Info("event", "kind", ev.Kind, "area", ev.AreaID, "trigger", ev.Trigger, "callback", ev.Callback, "entity", ev.Entity)
	case turn.EventSurfaceEnter, turn.EventSurfaceLeave, turn.EventSurfaceMoved:
		slog.Info("event", "kind", ev.Kind, "surface", ev.Surface, "entity", ev.Entity, "squares", ev.Squares)
	default:
		slog.Debug("event", "kind", ev.Kind, "entity", ev.Entity)
	}
}

func redrawName(r area.Redraw) string {
	switch r.Kind {
	case area.RedrawFull:
		return "full"
	case area.RedrawPartial:
		return fmt.Sprintf("partial(%d,%d)", r.DeltaX, r.DeltaY)
	default:
		return "none"
	}
}
