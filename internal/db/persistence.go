package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/tacgrid/internal/area"
)

// AreaPersistenceService saves and loads every resident area of a save slot.
type AreaPersistenceService struct {
	pool *pgxpool.Pool
	repo *AreaStateRepository
}

// NewAreaPersistenceService creates a new service.
func NewAreaPersistenceService(pool *pgxpool.Pool, repo *AreaStateRepository) *AreaPersistenceService {
	return &AreaPersistenceService{pool: pool, repo: repo}
}

// SaveAreas saves all given areas in a single transaction.
// Either every area is saved or none.
func (s *AreaPersistenceService) SaveAreas(ctx context.Context, saveID string, states []area.SaveState) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for save %q: %w", saveID, err)
	}
	defer rollback(ctx, tx, saveID)

	for _, st := range states {
		if err := s.repo.SaveTx(ctx, tx, saveID, st); err != nil {
			return fmt.Errorf("saving save %q: %w", saveID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save %q: %w", saveID, err)
	}

	slog.Info("areas saved", "saveID", saveID, "areas", len(states))
	return nil
}

// LoadAreas loads every area stored under a save slot, ordered by area id.
func (s *AreaPersistenceService) LoadAreas(ctx context.Context, saveID string) ([]area.SaveState, error) {
	ids, err := s.repo.AreaIDs(ctx, saveID)
	if err != nil {
		return nil, err
	}

	states := make([]area.SaveState, 0, len(ids))
	for _, id := range ids {
		st, err := s.repo.Load(ctx, saveID, id)
		if err != nil {
			return nil, fmt.Errorf("loading save %q: %w", saveID, err)
		}
		if st == nil {
			continue
		}
		states = append(states, *st)
	}

	slog.Info("areas loaded", "saveID", saveID, "areas", len(states))
	return states, nil
}
