package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"sales-dashboard/models"
)

// ExportPath returns a unique file name in dir for the given extension,
// e.g. "sales_3f2b….xlsx".
func ExportPath(dir, ext string) string {
	ext = "." + strings.TrimPrefix(strings.ToLower(ext), ".")
	return filepath.Join(dir, "sales_"+uuid.NewString()+ext)
}

// Export writes v to path, choosing the format from the file extension.
// CSV exports hold the recent-sales table, or the monthly trend when
// monthly is set; XLSX exports hold every view.
func Export(v *models.DashboardView, path string, monthly bool) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		w, err := NewCSVWriter(path)
		if err != nil {
			return err
		}
		if monthly {
			err = w.WriteMonthly(v.Monthly)
		} else {
			err = w.WriteRecent(v.Recent)
		}
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		return err
	case ".xlsx":
		return NewXLSXWriter(path).Write(v)
	default:
		return fmt.Errorf("export: unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}
