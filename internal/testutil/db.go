package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/udisondev/tacgrid/internal/db/migrations"
)

// DSNEnv points database tests at an existing PostgreSQL instead of a container.
const DSNEnv = "TACGRID_TEST_DSN"

// StartPostgres returns a DSN for database tests. It uses DSNEnv when set,
// otherwise starts a PostgreSQL 16 testcontainer. stop releases the container.
func StartPostgres(ctx context.Context) (dsn string, stop func(), err error) {
	if dsn := os.Getenv(DSNEnv); dsn != "" {
		return dsn, func() {}, nil
	}

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", nil, fmt.Errorf("starting postgres container: %w", err)
	}
	stop = func() {
		_ = testcontainers.TerminateContainer(container)
	}

	dsn, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		stop()
		return "", nil, fmt.Errorf("getting connection string: %w", err)
	}
	return dsn, stop, nil
}

// OpenMigratedPool connects to dsn and applies the embedded migrations.
func OpenMigratedPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to test db: %w", err)
	}

	// goose needs a *sql.DB on top of the pool
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pool, nil
}
