package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxResults != 50 {
		t.Errorf("MaxResults: got %d, want 50", cfg.MaxResults)
	}
	if cfg.NavigateTimeout != 60*time.Second {
		t.Errorf("NavigateTimeout: got %v, want 60s", cfg.NavigateTimeout)
	}
	if cfg.OutputDir != "./output" {
		t.Errorf("OutputDir: got %q, want ./output", cfg.OutputDir)
	}
	if len(cfg.PostalCodes) != 12 || len(cfg.QueryTemplates) != 8 {
		t.Errorf("defaults: got %d postal codes / %d templates, want 12 / 8",
			len(cfg.PostalCodes), len(cfg.QueryTemplates))
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POSTAL_CODES", " 600119 , ,600130")
	t.Setenv("QUERY_TEMPLATES", "villas in")
	t.Setenv("SCROLL_SETTLE", "1500")
	t.Setenv("OPEN_SETTLE", "2s")
	t.Setenv("EXPORT_FORMAT", "XLSX")
	t.Setenv("HEADLESS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff([]string{"600119", "600130"}, cfg.PostalCodes); diff != "" {
		t.Errorf("PostalCodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"villas in"}, cfg.QueryTemplates); diff != "" {
		t.Errorf("QueryTemplates mismatch (-want +got):\n%s", diff)
	}
	if cfg.ScrollSettle != 1500*time.Millisecond {
		t.Errorf("ScrollSettle: got %v, want 1.5s", cfg.ScrollSettle)
	}
	if cfg.OpenSettle != 2*time.Second {
		t.Errorf("OpenSettle: got %v, want 2s", cfg.OpenSettle)
	}
	if cfg.ExportFormat != FormatXLSX {
		t.Errorf("ExportFormat: got %q, want %q", cfg.ExportFormat, FormatXLSX)
	}
	if !cfg.Headless {
		t.Error("Headless: got false, want true")
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	t.Setenv("EXPORT_FORMAT", "parquet")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown export format")
	}
}

func TestLoadSearchPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	body := "postal_codes:\n  - \"600096\"\nquery_templates:\n  - flats in\n  - villas in\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SEARCH_PLAN_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &SearchPlan{PostalCodes: []string{"600096"}, QueryTemplates: []string{"flats in", "villas in"}}
	got := &SearchPlan{PostalCodes: cfg.PostalCodes, QueryTemplates: cfg.QueryTemplates}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("search plan mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSearchPlanMissingFile(t *testing.T) {
	if _, err := LoadSearchPlan(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing search plan")
	}
}
