package storage

import (
	"fmt"
	"strings"

	"sales-dashboard/models"
)

// headerIndex locates the mapped columns in a header row. Matching ignores
// case and surrounding whitespace.
type headerIndex struct {
	saleDate, property, price, saleType int
}

func indexHeader(header []string, cols Columns) (headerIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}

	find := func(name string, required bool) (int, error) {
		if name == "" && !required {
			return -1, nil
		}
		i, ok := pos[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			if required {
				return -1, fmt.Errorf("%w %q", ErrMissingColumn, name)
			}
			return -1, nil
		}
		return i, nil
	}

	var idx headerIndex
	var err error
	if idx.saleDate, err = find(cols.SaleDate, true); err != nil {
		return idx, err
	}
	if idx.price, err = find(cols.Price, true); err != nil {
		return idx, err
	}
	if idx.saleType, err = find(cols.SaleType, true); err != nil {
		return idx, err
	}
	if idx.property, err = find(cols.PropertyID, false); err != nil {
		return idx, err
	}
	return idx, nil
}

func (h headerIndex) rawSale(record []string, source string, row int) *models.RawSale {
	return &models.RawSale{
		SaleDate:   cell(record, h.saleDate),
		PropertyID: cell(record, h.property),
		Price:      cell(record, h.price),
		SaleType:   cell(record, h.saleType),
		Source:     source,
		Row:        row,
	}
}

// cell tolerates short rows; a missing trailing value reads as empty.
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
