package storage

import (
	"context"
	"errors"

	"sales-dashboard/models"
)

// ErrUnknownSource is returned by Open for an unsupported source kind.
var ErrUnknownSource = errors.New("unknown data source")

// ErrMissingColumn is returned when a tabular source lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// SaleReader is the interface every data source must satisfy. ReadAll is
// called once per process; the rows it returns are cleaned by the caller.
type SaleReader interface {
	ReadAll(ctx context.Context) ([]*models.RawSale, error)
	Close() error
}

// Columns maps the dataset's column names onto sale fields. PropertyID is
// optional; the other three are required.
type Columns struct {
	Table      string `yaml:"table"`
	SaleDate   string `yaml:"sale_date"`
	PropertyID string `yaml:"property_id"`
	Price      string `yaml:"price"`
	SaleType   string `yaml:"sale_type"`
}

// DefaultColumns matches the county sales database layout.
func DefaultColumns() Columns {
	return Columns{
		Table:      "sales",
		SaleDate:   "sale_date",
		PropertyID: "property_id",
		Price:      "price",
		SaleType:   "sale_validity",
	}
}
