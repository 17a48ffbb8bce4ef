package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"sales-dashboard/models"
	"sales-dashboard/utils"
)

// PostgresReader loads sales from a PostgreSQL table.
type PostgresReader struct {
	db   *sql.DB
	cols Columns
}

// NewPostgresReader opens a connection to PostgreSQL and waits for it to
// answer, retrying with back-off while the server starts up.
func NewPostgresReader(ctx context.Context, dsn string, cols Columns, retry *utils.RetryConfig) (*PostgresReader, error) {
	if err := validateColumns(cols); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	err = retry.Do(ctx, "postgres-ping", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &PostgresReader{db: db, cols: cols}, nil
}

// ReadAll returns every row of the configured table.
func (pr *PostgresReader) ReadAll(ctx context.Context) ([]*models.RawSale, error) {
	return queryRawSales(ctx, pr.db, pr.cols, "postgres")
}

func (pr *PostgresReader) Close() error {
	return pr.db.Close()
}
