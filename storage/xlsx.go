package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/models"
)

// XLSXReader loads sales from a worksheet whose first row is the header.
type XLSXReader struct {
	file  *excelize.File
	sheet string
	cols  Columns
}

// NewXLSXReader opens the workbook at path. An empty sheet selects the first.
func NewXLSXReader(path, sheet string, cols Columns) (*XLSXReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", path, err)
	}

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		f.Close()
		return nil, fmt.Errorf("xlsx: %q has no sheets", path)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("xlsx: sheet %q not found in %q", sheet, path)
	}

	return &XLSXReader{file: f, sheet: sheet, cols: cols}, nil
}

// ReadAll returns every data row of the sheet. Date cells stored as Excel
// serial numbers are converted to calendar dates.
func (r *XLSXReader) ReadAll(ctx context.Context) ([]*models.RawSale, error) {
	rows, err := r.file.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx: sheet %q is empty", r.sheet)
	}

	idx, err := indexHeader(rows[0], r.cols)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	sales := make([]*models.RawSale, 0, len(rows)-1)
	for i, record := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isBlankRow(record) {
			continue
		}
		raw := idx.rawSale(record, "xlsx", i+1)
		raw.SaleDate = serialToDate(raw.SaleDate)
		sales = append(sales, raw)
	}
	return sales, nil
}

func (r *XLSXReader) Close() error {
	return r.file.Close()
}

func serialToDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format(models.DateLayout)
}

func isBlankRow(record []string) bool {
	for _, v := range record {
		if v != "" {
			return false
		}
	}
	return true
}

// XLSXWriter exports a dashboard view as a workbook with Summary, Monthly and
// Recent sheets.
type XLSXWriter struct {
	path string
}

func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write builds the workbook and saves it, replacing any existing file.
func (x *XLSXWriter) Write(v *models.DashboardView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	for _, name := range []string{"Monthly", "Recent"} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx: new sheet %s: %w", name, err)
		}
	}

	summary := [][]interface{}{
		{"Start date", v.Filter.Start.Format(models.DateLayout)},
		{"End date", v.Filter.End.Format(models.DateLayout)},
		{"Total sales", v.Summary.TotalSales},
		{"Total volume", v.Summary.TotalVolume},
		{"Average sale price", v.Summary.AveragePrice},
	}
	for _, t := range v.Filter.SaleTypes {
		summary = append(summary, []interface{}{"Sale type", t})
	}
	if err := writeRows(f, "Summary", summary); err != nil {
		return err
	}

	monthly := [][]interface{}{{"Month", "Average price", "Sales"}}
	for _, m := range v.Monthly {
		monthly = append(monthly, []interface{}{m.Month.String(), m.AveragePrice, m.Count})
	}
	if err := writeRows(f, "Monthly", monthly); err != nil {
		return err
	}

	recent := [][]interface{}{{"Sale date", "Property ID", "Price", "Sale type"}}
	for _, s := range v.Recent {
		recent = append(recent, []interface{}{s.SaleDate.Format(models.DateLayout), s.PropertyID, s.Price, s.SaleType})
	}
	if err := writeRows(f, "Recent", recent); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(x.path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}
	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cellRef, &r); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
