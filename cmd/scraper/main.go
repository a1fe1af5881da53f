package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"seismic-reports-scraper/internal/config"
	"seismic-reports-scraper/internal/models"
	"seismic-reports-scraper/internal/scraper"
	"seismic-reports-scraper/internal/utils"
)

// Local runner: scrapes once with the same pipeline the Lambda uses and
// prints a summary. Flags override the environment configuration.
func main() {
	limit := flag.Int("limit", 0, "number of rows to scrape (overrides LIMIT)")
	csvPath := flag.String("csv", "", "CSV output path (overrides CSV_PATH)")
	table := flag.String("table", "", "DynamoDB table (overrides DDB_TABLE)")
	bucket := flag.String("bucket", "", "S3 bucket for snapshots (overrides S3_BUCKET)")
	baseURL := flag.String("base-url", "", "source base URL (overrides BASE_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *limit > 0 {
		cfg.Limit = *limit
	}
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}
	if *table != "" {
		cfg.DynamoDBTable = *table
	}
	if *bucket != "" {
		cfg.S3Bucket = *bucket
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	ctx := context.Background()

	orchestrator, err := scraper.NewFromConfig(ctx, cfg)
	if err != nil {
		utils.GetLogger().Fatal("failed to initialize orchestrator", zap.Error(err))
	}

	run, events, err := orchestrator.Run(ctx, models.TriggerTypeManual)
	if err != nil {
		utils.GetLogger().Fatal("scrape run failed", zap.Error(err))
	}

	fmt.Printf("run %s: %d events (%d rows, %d skipped, %d duplicates) stored via %s in %dms\n",
		run.ID, run.EventsParsed, run.RowsFound, run.RowsSkipped,
		run.DuplicatesRemoved, run.StorageBackend, run.Duration)

	for _, event := range events {
		fmt.Printf("  %s  M%-4s  %s\n", event.ReportedAt, event.MagnitudeText, event.Reference)
	}
}
