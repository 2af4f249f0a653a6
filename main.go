package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gated-communities-scraper/config"
	"gated-communities-scraper/scraper/gmaps"
	"gated-communities-scraper/services"
	"gated-communities-scraper/storage"
	"gated-communities-scraper/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("[config] %v", err)
		return 1
	}
	logger := utils.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Gated Community Scraper starting ===")
	logger.Info("Config: postal codes: %d | templates: %d | max results: %d | output: %s (%s)",
		len(cfg.PostalCodes), len(cfg.QueryTemplates), cfg.MaxResults, cfg.OutputDir, cfg.ExportFormat)

	exporter, err := storage.NewExporter(cfg.OutputDir, cfg.ExportFormat)
	if err != nil {
		logger.Error("Failed to prepare output directory: %v", err)
		return 1
	}

	var store storage.CommunityStore
	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(ctx, cfg.DSN(), cfg.H3Resolution, logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			return 1
		}
		defer pgWriter.Close()
		store = pgWriter
		logger.Info("PostgreSQL sink enabled (table: communities)")
	}

	mapsScraper := gmaps.New(cfg, logger, exporter, store)
	results, err := mapsScraper.Scrape(ctx)
	if err != nil {
		logger.Error("Scrape failed: %v", err)
		return 1
	}

	summary := services.NewSummaryService(logger, cfg.H3Resolution)
	summary.Print(summary.Generate(results))

	fmt.Printf("  Done. Exports written to %s\n\n", cfg.OutputDir)
	return 0
}
