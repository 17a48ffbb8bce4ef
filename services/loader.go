package services

import (
	"context"
	"fmt"

	"sales-dashboard/models"
)

// RawSaleReader is any source of untyped sale rows.
type RawSaleReader interface {
	ReadAll(ctx context.Context) ([]*models.RawSale, error)
}

// LoadSales reads every row from r once and coerces it into typed sales.
// The returned table is treated as read-only for the rest of the process.
func LoadSales(ctx context.Context, r RawSaleReader, c *Cleaner) ([]*models.Sale, error) {
	raw, err := r.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return c.Clean(raw), nil
}
