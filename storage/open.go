package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"sales-dashboard/utils"
)

// Source kinds accepted by Open.
const (
	SourceSQLite   = "sqlite"
	SourceSQLite3  = "sqlite3"
	SourcePostgres = "postgres"
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
)

// SourceConfig describes where the sales dataset lives.
type SourceConfig struct {
	Kind    string
	Path    string
	DSN     string
	Sheet   string
	Columns Columns
	Retry   *utils.RetryConfig
}

// ResolveKind returns the configured kind, or infers one from the file
// extension of Path when Kind is empty.
func (c SourceConfig) ResolveKind() string {
	if k := strings.ToLower(strings.TrimSpace(c.Kind)); k != "" {
		return k
	}
	switch strings.ToLower(filepath.Ext(c.Path)) {
	case ".csv", ".txt":
		return SourceCSV
	case ".xlsx":
		return SourceXLSX
	default:
		return SourceSQLite
	}
}

// Open returns the reader for the configured source.
func Open(ctx context.Context, cfg SourceConfig, logger *utils.Logger) (SaleReader, error) {
	switch kind := cfg.ResolveKind(); kind {
	case SourceSQLite, SourceSQLite3:
		r, err := NewSQLiteReader(cfg.Path, cfg.Columns)
		if err != nil {
			return nil, err
		}
		return r, nil
	case SourcePostgres:
		r, err := NewPostgresReader(ctx, cfg.DSN, cfg.Columns, cfg.Retry)
		if err != nil {
			return nil, err
		}
		return r, nil
	case SourceCSV:
		r, err := NewCSVReader(cfg.Path, cfg.Columns, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	case SourceXLSX:
		r, err := NewXLSXReader(cfg.Path, cfg.Sheet, cfg.Columns)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownSource, kind)
	}
}
