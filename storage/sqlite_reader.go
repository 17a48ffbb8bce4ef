package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"sales-dashboard/models"
)

// SQLiteReader loads sales from a SQLite database file, opened read-only.
type SQLiteReader struct {
	db   *sql.DB
	cols Columns
	path string
}

// NewSQLiteReader opens the database at path. The file must already exist;
// the reader never creates or migrates it.
func NewSQLiteReader(path string, cols Columns) (*SQLiteReader, error) {
	if err := validateColumns(cols); err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: connect: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &SQLiteReader{db: db, cols: cols, path: path}, nil
}

// ReadAll returns every row of the configured table.
func (r *SQLiteReader) ReadAll(ctx context.Context) ([]*models.RawSale, error) {
	return queryRawSales(ctx, r.db, r.cols, "sqlite")
}

func (r *SQLiteReader) Close() error {
	return r.db.Close()
}
