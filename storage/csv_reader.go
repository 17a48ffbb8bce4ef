package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"sales-dashboard/models"
	"sales-dashboard/utils"
)

// CSVReader loads sales from a delimited text file with a header row.
type CSVReader struct {
	file   *os.File
	cols   Columns
	logger *utils.Logger
}

// NewCSVReader opens the file at path.
func NewCSVReader(path string, cols Columns, logger *utils.Logger) (*CSVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	return &CSVReader{file: f, cols: cols, logger: logger}, nil
}

// ReadAll parses every data row. Rows the CSV parser rejects are skipped
// with a warning; rows with bad values are left for the cleaner to drop.
func (r *CSVReader) ReadAll(ctx context.Context) ([]*models.RawSale, error) {
	return readCSV(ctx, r.file, r.cols, r.logger)
}

func (r *CSVReader) Close() error {
	return r.file.Close()
}

func readCSV(ctx context.Context, in io.Reader, cols Columns, logger *utils.Logger) ([]*models.RawSale, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	idx, err := indexHeader(header, cols)
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}

	var sales []*models.RawSale
	row := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			if logger != nil {
				logger.Warn("[csv] skipping malformed row %d: %v", row, err)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", row, err)
		}

		sales = append(sales, idx.rawSale(record, "csv", row))
	}
	return sales, nil
}
