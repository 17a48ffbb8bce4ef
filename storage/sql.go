package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sales-dashboard/models"
)

// selectQuery builds the SELECT shared by the SQL readers. Every column is
// returned as text; coercion is left to the cleaner.
func selectQuery(cols Columns) string {
	property := "''"
	if cols.PropertyID != "" {
		property = quoteIdent(cols.PropertyID)
	}
	return fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s",
		quoteIdent(cols.SaleDate),
		property,
		quoteIdent(cols.Price),
		quoteIdent(cols.SaleType),
		quoteIdent(cols.Table),
	)
}

// quoteIdent double-quotes an identifier, which both SQLite and PostgreSQL
// accept.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func validateColumns(cols Columns) error {
	for name, v := range map[string]string{
		"table":     cols.Table,
		"sale_date": cols.SaleDate,
		"price":     cols.Price,
		"sale_type": cols.SaleType,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is not mapped", ErrMissingColumn, name)
		}
	}
	return nil
}

func queryRawSales(ctx context.Context, db *sql.DB, cols Columns, source string) ([]*models.RawSale, error) {
	rows, err := db.QueryContext(ctx, selectQuery(cols))
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", source, err)
	}
	defer rows.Close()

	var sales []*models.RawSale
	row := 0
	for rows.Next() {
		row++
		var date, property, price, saleType sql.NullString
		if err := rows.Scan(&date, &property, &price, &saleType); err != nil {
			return nil, fmt.Errorf("%s: scan row %d: %w", source, row, err)
		}
		sales = append(sales, &models.RawSale{
			SaleDate:   date.String,
			PropertyID: property.String,
			Price:      price.String,
			SaleType:   saleType.String,
			Source:     source,
			Row:        row,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: read rows: %w", source, err)
	}
	return sales, nil
}
