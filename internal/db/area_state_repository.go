package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/tacgrid/internal/area"
	"github.com/udisondev/tacgrid/internal/game/geo"
)

// AreaStateRepository stores area saves. Rows are keyed by save slot and
// area id; ordered lists keep their index.
type AreaStateRepository struct {
	pool *pgxpool.Pool
}

// NewAreaStateRepository creates a new AreaStateRepository.
func NewAreaStateRepository(pool *pgxpool.Pool) *AreaStateRepository {
	return &AreaStateRepository{pool: pool}
}

// Save writes one area in its own transaction.
func (r *AreaStateRepository) Save(ctx context.Context, saveID string, st area.SaveState) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for area %q: %w", st.AreaID, err)
	}
	defer rollback(ctx, tx, saveID)

	if err := r.SaveTx(ctx, tx, saveID, st); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit area %q: %w", st.AreaID, err)
	}
	return nil
}

// SaveTx replaces one area's save within a transaction.
func (r *AreaStateRepository) SaveTx(ctx context.Context, tx pgx.Tx, saveID string, st area.SaveState) error {
	explored := make([]int64, len(st.Explored))
	for i, w := range st.Explored {
		explored[i] = int64(w)
	}

	// children go with the parent row via ON DELETE CASCADE
	if _, err := tx.Exec(ctx,
		`DELETE FROM area_states WHERE save_id = $1 AND area_id = $2`,
		saveID, st.AreaID,
	); err != nil {
		return fmt.Errorf("deleting old state for area %q: %w", st.AreaID, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO area_states (save_id, area_id, seed, on_load_fired, explored)
		 VALUES ($1, $2, $3, $4, $5)`,
		saveID, st.AreaID, int64(st.Seed), st.OnLoadFired, explored,
	); err != nil {
		return fmt.Errorf("inserting state for area %q: %w", st.AreaID, err)
	}

	if len(st.Props) > 0 {
		rows := make([][]any, 0, len(st.Props))
		for i, p := range st.Props {
			rows = append(rows, []any{saveID, st.AreaID, int32(i), p.ID, p.Location.X, p.Location.Y, p.Enabled, p.Active, p.Temporary})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"area_props"},
			[]string{"save_id", "area_id", "idx", "prop_id", "x", "y", "enabled", "active", "temporary"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("inserting props for area %q: %w", st.AreaID, err)
		}
	}

	if len(st.Triggers) > 0 {
		rows := make([][]any, 0, len(st.Triggers))
		for i, t := range st.Triggers {
			rows = append(rows, []any{saveID, st.AreaID, int32(i), t.Enabled, t.Fired})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"area_triggers"},
			[]string{"save_id", "area_id", "idx", "enabled", "fired"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("inserting triggers for area %q: %w", st.AreaID, err)
		}
	}

	if len(st.Merchants) > 0 {
		rows := make([][]any, 0, len(st.Merchants))
		for i, m := range st.Merchants {
			rows = append(rows, []any{
				saveID, st.AreaID, int32(i), m.ID, m.LootList, m.BuyFrac, m.SellFrac,
				m.RefreshEvery, m.LastRefresh, int32(m.Refreshes),
			})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"area_merchants"},
			[]string{"save_id", "area_id", "idx", "merchant_id", "loot_list", "buy_frac", "sell_frac",
				"refresh_every_ms", "last_refresh_ms", "refreshes"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("inserting merchants for area %q: %w", st.AreaID, err)
		}
	}

	slog.Debug("saved area state",
		"saveID", saveID,
		"area", st.AreaID,
		"props", len(st.Props),
		"triggers", len(st.Triggers),
		"merchants", len(st.Merchants))
	return nil
}

// Load reads one area's save. Returns nil, nil if the area was never saved.
func (r *AreaStateRepository) Load(ctx context.Context, saveID, areaID string) (*area.SaveState, error) {
	st := area.SaveState{AreaID: areaID}

	var seed int64
	var explored []int64
	err := r.pool.QueryRow(ctx,
		`SELECT seed, on_load_fired, explored FROM area_states
		 WHERE save_id = $1 AND area_id = $2`,
		saveID, areaID,
	).Scan(&seed, &st.OnLoadFired, &explored)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying state for area %q: %w", areaID, err)
	}

	st.Seed = uint64(seed)
	st.Explored = make([]uint64, len(explored))
	for i, w := range explored {
		st.Explored[i] = uint64(w)
	}

	if st.Props, err = r.loadProps(ctx, saveID, areaID); err != nil {
		return nil, err
	}
	if st.Triggers, err = r.loadTriggers(ctx, saveID, areaID); err != nil {
		return nil, err
	}
	if st.Merchants, err = r.loadMerchants(ctx, saveID, areaID); err != nil {
		return nil, err
	}
	return &st, nil
}

// AreaIDs lists the areas stored under a save slot, sorted.
func (r *AreaStateRepository) AreaIDs(ctx context.Context, saveID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT area_id FROM area_states WHERE save_id = $1 ORDER BY area_id`, saveID)
	if err != nil {
		return nil, fmt.Errorf("query area ids for save %q: %w", saveID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan area ids for save %q: %w", saveID, err)
	}
	return ids, nil
}

// Delete removes every area stored under a save slot.
func (r *AreaStateRepository) Delete(ctx context.Context, saveID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM area_states WHERE save_id = $1`, saveID); err != nil {
		return fmt.Errorf("delete save %q: %w", saveID, err)
	}
	return nil
}

func (r *AreaStateRepository) loadProps(ctx context.Context, saveID, areaID string) ([]area.PropSave, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT prop_id, x, y, enabled, active, temporary FROM area_props
		 WHERE save_id = $1 AND area_id = $2 ORDER BY idx`,
		saveID, areaID)
	if err != nil {
		return nil, fmt.Errorf("query props for area %q: %w", areaID, err)
	}
	defer rows.Close()

	var result []area.PropSave
	for rows.Next() {
		var p area.PropSave
		var x, y int32
		if err := rows.Scan(&p.ID, &x, &y, &p.Enabled, &p.Active, &p.Temporary); err != nil {
			return nil, fmt.Errorf("scan props for area %q: %w", areaID, err)
		}
		p.Location = geo.Pt(x, y)
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *AreaStateRepository) loadTriggers(ctx context.Context, saveID, areaID string) ([]area.TriggerState, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT enabled, fired FROM area_triggers
		 WHERE save_id = $1 AND area_id = $2 ORDER BY idx`,
		saveID, areaID)
	if err != nil {
		return nil, fmt.Errorf("query triggers for area %q: %w", areaID, err)
	}
	defer rows.Close()

	var result []area.TriggerState
	for rows.Next() {
		var t area.TriggerState
		if err := rows.Scan(&t.Enabled, &t.Fired); err != nil {
			return nil, fmt.Errorf("scan triggers for area %q: %w", areaID, err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *AreaStateRepository) loadMerchants(ctx context.Context, saveID, areaID string) ([]area.MerchantSave, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT merchant_id, loot_list, buy_frac, sell_frac, refresh_every_ms, last_refresh_ms, refreshes
		 FROM area_merchants
		 WHERE save_id = $1 AND area_id = $2 ORDER BY idx`,
		saveID, areaID)
	if err != nil {
		return nil, fmt.Errorf("query merchants for area %q: %w", areaID, err)
	}
	defer rows.Close()

	var result []area.MerchantSave
	for rows.Next() {
		var m area.MerchantSave
		var refreshes int32
		if err := rows.Scan(&m.ID, &m.LootList, &m.BuyFrac, &m.SellFrac, &m.RefreshEvery, &m.LastRefresh, &refreshes); err != nil {
			return nil, fmt.Errorf("scan merchants for area %q: %w", areaID, err)
		}
		m.Refreshes = int(refreshes)
		result = append(result, m)
	}
	return result, rows.Err()
}

func rollback(ctx context.Context, tx pgx.Tx, saveID string) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Error("rollback failed", "saveID", saveID, "error", err)
	}
}
