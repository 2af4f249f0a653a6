package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"gated-communities-scraper/models"
	"gated-communities-scraper/services"
	"gated-communities-scraper/utils"
)

const (
	batchSize      = 50
	columnsPerRow  = 6
	connectRetries = 10
)

// PostgresWriter persists communities to PostgreSQL, one row per
// (postal_code, name, address).
type PostgresWriter struct {
	db           *sql.DB
	h3Resolution int
	logger       *utils.Logger
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, h3Resolution int, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: connectRetries, BaseDelay: 500 * time.Millisecond, Logger: logger}
	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, h3Resolution: h3Resolution, logger: logger}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS communities (
			id          SERIAL PRIMARY KEY,
			postal_code VARCHAR(16)      NOT NULL,
			name        TEXT             NOT NULL,
			address     TEXT             NOT NULL,
			latitude    DOUBLE PRECISION NOT NULL,
			longitude   DOUBLE PRECISION NOT NULL,
			h3_cell     VARCHAR(16)      NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			UNIQUE (postal_code, name, address)
		);

		CREATE INDEX IF NOT EXISTS idx_communities_postal_code ON communities(postal_code);
		CREATE INDEX IF NOT EXISTS idx_communities_h3_cell     ON communities(h3_cell);
	`)
	return err
}

// Save inserts communities for postalCode in batches. Rows already stored
// by an earlier run are left untouched.
func (pw *PostgresWriter) Save(ctx context.Context, postalCode string, communities []*models.Community) error {
	for i := 0; i < len(communities); i += batchSize {
		end := i + batchSize
		if end > len(communities) {
			end = len(communities)
		}
		if err := pw.insertBatch(ctx, postalCode, communities[i:end]); err != nil {
			return fmt.Errorf("postgres: insert %s: %w", postalCode, err)
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, postalCode string, batch []*models.Community) error {
	query, args := pw.buildInsert(postalCode, batch)
	_, err := pw.db.ExecContext(ctx, query, args...)
	return err
}

func (pw *PostgresWriter) buildInsert(postalCode string, batch []*models.Community) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*columnsPerRow)

	for idx, c := range batch {
		base := idx * columnsPerRow
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))

		cell, err := services.CellFor(c, pw.h3Resolution)
		if err != nil {
			pw.logger.Debug("[storage] %v", err)
		}
		valueArgs = append(valueArgs, postalCode, c.Name, c.Address, c.Latitude, c.Longitude, cell)
	}

	query := fmt.Sprintf(`
		INSERT INTO communities (postal_code, name, address, latitude, longitude, h3_cell)
		VALUES %s
		ON CONFLICT (postal_code, name, address) DO NOTHING
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
