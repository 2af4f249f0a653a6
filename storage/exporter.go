package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gated-communities-scraper/config"
	"gated-communities-scraper/models"
)

const (
	filePrefix   = "gated_communities_"
	combinedName = filePrefix + "all"
)

// Exporter writes every output file under a single directory.
type Exporter struct {
	dir       string
	perPostal []FileWriter
	combined  FileWriter
}

// NewExporter creates dir if needed and picks per-postal-code writers for
// format. The combined export is always CSV.
func NewExporter(dir, format string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}

	e := &Exporter{dir: dir, combined: CSVWriter{}}
	switch format {
	case config.FormatCSV:
		e.perPostal = []FileWriter{CSVWriter{}}
	case config.FormatXLSX:
		e.perPostal = []FileWriter{XLSXWriter{}}
	case config.FormatBoth:
		e.perPostal = []FileWriter{CSVWriter{}, XLSXWriter{}}
	default:
		return nil, fmt.Errorf("export: unknown format %q", format)
	}
	return e, nil
}

// ExportPostalCode writes gated_communities_<postalCode> in every configured
// format and returns the written paths.
func (e *Exporter) ExportPostalCode(postalCode string, communities []*models.Community) ([]string, error) {
	var paths []string
	for _, w := range e.perPostal {
		path := filepath.Join(e.dir, filePrefix+postalCode+w.Ext())
		if err := w.Write(path, communities); err != nil {
			return paths, fmt.Errorf("export %s: %w", postalCode, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ExportCombined concatenates results in the order given and writes
// gated_communities_all.csv.
func (e *Exporter) ExportCombined(results []*models.ScrapeResult) (string, error) {
	var all []*models.Community
	for _, r := range results {
		all = append(all, r.Communities...)
	}

	path := filepath.Join(e.dir, combinedName+e.combined.Ext())
	if err := e.combined.Write(path, all); err != nil {
		return "", fmt.Errorf("export combined: %w", err)
	}
	return path, nil
}
