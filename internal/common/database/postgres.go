// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"estimation-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient holds the pooled connection the catalog loader reads
// rate overrides through. The pool settings are deliberately modest:
// the fleet only touches Postgres at startup and from the readiness
// probe.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	dsn := cfg.GetDSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping verifies the connection. sql.Open alone does not dial, so the
// startup retry loop needs this to know the database is actually there.
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB hands out the raw *sql.DB for callers that drive queries
// themselves, like the catalog loader.
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
