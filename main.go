package main

import (
	"context"
	"os"

	"emlak-analytics/api"
	"emlak-analytics/config"
	"emlak-analytics/connector"
	"emlak-analytics/models"
	"emlak-analytics/scraper/sahibinden"
	"emlak-analytics/services"
	"emlak-analytics/storage"
	"emlak-analytics/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Emlak Analytics starting ===")
	logger.Info("Config — port: %s | dataset: %s | postgres: %t | scrape URL: %q",
		cfg.HTTPPort, cfg.DatasetPath, cfg.PostgresEnabled, cfg.ScrapeURL)

	store := services.NewStore()
	normalizer := services.NewNormalizer(logger)

	// Seed dataset. A missing file is not fatal: the store can still be
	// populated through connector syncs or the scraper.
	records, err := storage.LoadDataset(cfg.DatasetPath, logger)
	if err != nil {
		logger.Warn("Dataset load failed (%v) — starting with an empty store", err)
	} else {
		listings := normalizer.NormalizeAll(records, "mock data")
		added := store.Merge(listings)
		logger.Info("Seeded store — %d records read, %d listings added", len(records), added)
	}

	if cfg.ScrapeURL != "" {
		scraper := sahibinden.New(cfg, logger)
		rawListings, err := scraper.Scrape(context.Background())
		if err != nil {
			logger.Error("Sahibinden scrape failed: %v", err)
		} else {
			listings := normalizer.NormalizeAll(rawListings, "sahibinden")
			added := store.Merge(listings)
			logger.Info("Scrape merged — %d raw records, %d new listings", len(rawListings), added)
		}
	}

	if store.Len() == 0 {
		logger.Warn("Store is empty — analysis endpoints will return no-data results")
	}

	snapshot := store.Snapshot()

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		defer csvWriter.Close()
		if err := csvWriter.Write(snapshot); err != nil {
			logger.Error("CSV export failed: %v", err)
		} else {
			logger.Info("Listings exported to %s", cfg.CSVOutputPath)
		}
	}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgWriter.Close()

		if err := pgWriter.Write(snapshot); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Listings mirrored to PostgreSQL (table: listings)")
		}
	}

	analyzer := services.NewAnalyzer(logger)
	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(analyzer.Analyze(snapshot, models.FilterSpec{}))

	manager := connector.NewManager(
		connector.NewRegistry(),
		connector.NewClient(cfg.ConnectorTimeout()),
		normalizer,
		store,
		logger,
	)

	server := api.NewServer(cfg, store, analyzer, manager, logger)
	logger.Info("HTTP server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("HTTP server failed: %v", err)
	}
}
