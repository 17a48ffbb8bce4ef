package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"sales-dashboard/models"
)

// CSVWriter exports dashboard views as CSV.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{file: f, writer: csv.NewWriter(f)}, nil
}

// NewCSVStreamWriter writes to w; Close flushes but leaves w open.
func NewCSVStreamWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{writer: csv.NewWriter(w)}
}

// WriteRecent writes the recent-sales table with its header row.
func (c *CSVWriter) WriteRecent(sales []*models.Sale) error {
	if err := c.writer.Write([]string{"sale_date", "property_id", "price", "sale_type"}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, s := range sales {
		row := []string{
			s.SaleDate.Format(models.DateLayout),
			s.PropertyID,
			formatAmount(s.Price),
			s.SaleType,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// WriteMonthly writes the monthly average trend with its header row.
func (c *CSVWriter) WriteMonthly(rows []models.MonthlyAverage) error {
	if err := c.writer.Write([]string{"month", "average_price", "sales"}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, m := range rows {
		row := []string{m.Month.String(), formatAmount(m.AveragePrice), strconv.Itoa(m.Count)}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if the writer owns one.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if c.file == nil {
		return c.writer.Error()
	}
	return c.file.Close()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
