package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gated-communities-scraper/models"
)

var columns = []string{"name", "address", "latitude", "longitude"}

// CSVWriter writes communities to comma-separated files.
type CSVWriter struct{}

func (CSVWriter) Ext() string { return ".csv" }

// Write creates (or truncates) path and writes the header plus one row per
// community in the given order.
func (CSVWriter) Write(path string, communities []*models.Community) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, c := range communities {
		if err := w.Write(row(c)); err != nil {
			_ = f.Close()
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}
	return f.Close()
}

func row(c *models.Community) []string {
	return []string{
		c.Name,
		c.Address,
		strconv.FormatFloat(c.Latitude, 'f', -1, 64),
		strconv.FormatFloat(c.Longitude, 'f', -1, 64),
	}
}
