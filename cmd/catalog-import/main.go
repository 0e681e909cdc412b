package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bookhub/database"
	"bookhub/internal/config"
	"bookhub/internal/ingestion/catalog"
)

func main() {
	file := flag.String("file", "", "path to a JSON array of catalog records")
	workers := flag.Int("workers", 4, "concurrent book inserts")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *file == "" {
		logger.Error("catalog_import_failed", "error", "-file is required")
		os.Exit(2)
	}

	if err := run(*file, *workers, *dryRun, logger); err != nil {
		logger.Error("catalog_import_failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(path string, workers int, dryRun bool, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := catalog.Decode(f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []catalog.Option{catalog.WithWorkers(workers)}
	if dryRun {
		stats, err := catalog.NewImporter(nil, logger, append(opts, catalog.WithDryRun())...).Import(ctx, records)
		if err != nil {
			return err
		}
		fmt.Printf("dry run: %d valid, %d duplicate, %d invalid\n", stats.Imported, stats.Skipped, stats.Failed)
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	stats, err := catalog.NewImporter(db, logger, opts...).Import(ctx, records)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d, skipped %d, failed %d\n", stats.Imported, stats.Skipped, stats.Failed)
	return nil
}
