// Package pgtest starts a throwaway migrated postgres for repository suites.
package pgtest

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-room-booking/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Start runs postgres in a container, applies migrations and returns a pool.
// The caller closes the pool and terminates the container.
func Start(ctx context.Context) (testcontainers.Container, *pgxpool.Pool, error) {
	ctr, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("rooms"),
		tcpostgres.WithUsername("app"),
		tcpostgres.WithPassword("secret"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("tcpostgres.Run: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return ctr, nil, fmt.Errorf("ctr.ConnectionString: %w", err)
	}

	pool, err := postgres.Connect(ctx, connStr)
	if err != nil {
		return ctr, nil, fmt.Errorf("postgres.Connect: %w", err)
	}

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return ctr, nil, fmt.Errorf("postgres.Migrate: %w", err)
	}

	return ctr, pool, nil
}

// Truncate empties the given tables between test cases.
func Truncate(ctx context.Context, pool *pgxpool.Pool, tables ...string) error {
	for _, t := range tables {
		if _, err := pool.Exec(ctx, "TRUNCATE "+t+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", t, err)
		}
	}
	return nil
}
