package storage

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gated-communities-scraper/models"
)

const sheetName = "Communities"

// XLSXWriter writes communities to an Excel workbook with a single sheet.
type XLSXWriter struct{}

func (XLSXWriter) Ext() string { return ".xlsx" }

func (XLSXWriter) Write(path string, communities []*models.Community) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	for i, c := range communities {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		values := []any{c.Name, c.Address, c.Latitude, c.Longitude}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", path, err)
	}
	return nil
}
