// Package scraper orchestrates the scrape of the IGP reported-events table:
// fetch the page, parse the rows, persist to DynamoDB with a CSV fallback,
// and publish snapshots to S3.
package scraper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"seismic-reports-scraper/internal/config"
	"seismic-reports-scraper/internal/models"
	"seismic-reports-scraper/internal/services"
	"seismic-reports-scraper/internal/utils"
)

const scraperVersion = "1.0.0"

// PageFetcher downloads the source page
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// TableParser extracts events from the page HTML
type TableParser interface {
	Parse(html string, limit int) (*services.ParseResult, error)
}

// EventStore persists events to a database
type EventStore interface {
	StoreEvents(ctx context.Context, events []models.SeismicEvent) (int, error)
}

// CSVWriter exports events to a local CSV file
type CSVWriter interface {
	Export(events []models.SeismicEvent, path string) error
}

// SnapshotUploader publishes event snapshots and run records
type SnapshotUploader interface {
	UploadLatestEvents(ctx context.Context, events []models.SeismicEvent, source string) (*services.S3UploadResult, error)
	BackupEvents(ctx context.Context, events []models.SeismicEvent, source string) (*services.S3UploadResult, error)
	UploadScrapeRun(ctx context.Context, run *models.ScrapeRun) (*services.S3UploadResult, error)
}

// Orchestrator runs the complete scraping workflow
type Orchestrator struct {
	cfg      *config.Config
	fetcher  PageFetcher
	parser   TableParser
	store    EventStore       // nil when DDB_TABLE is unset
	csv      CSVWriter
	uploader SnapshotUploader // nil when S3_BUCKET is unset
}

// New creates an orchestrator from pre-built components. Store and uploader
// may be nil to disable DynamoDB and S3 respectively.
func New(cfg *config.Config, fetcher PageFetcher, parser TableParser, store EventStore, csv CSVWriter, uploader SnapshotUploader) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		fetcher:  fetcher,
		parser:   parser,
		store:    store,
		csv:      csv,
		uploader: uploader,
	}
}

// NewFromConfig wires up the real services for the given configuration
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Orchestrator, error) {
	fetcher := services.NewPageFetcher(cfg.HTTPTimeout)
	fetcher.SetMaxRetries(cfg.MaxRetries)

	parser, err := services.NewTableParser(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	var store EventStore
	if cfg.DynamoDBEnabled() {
		ddb, err := services.NewDynamoDBServiceFromConfig(ctx, cfg.DynamoDBTable)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize DynamoDB service: %w", err)
		}
		store = ddb
	}

	var uploader SnapshotUploader
	if cfg.S3Enabled() {
		s3c, err := services.NewS3Client(ctx, cfg.S3Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		uploader = s3c
	}

	return New(cfg, fetcher, parser, store, services.NewCSVExporter(), uploader), nil
}

// Run executes one scrape and returns the run record and parsed events.
// The run record is always returned, also on failure.
func (o *Orchestrator) Run(ctx context.Context, triggerType string) (*models.ScrapeRun, []models.SeismicEvent, error) {
	logger := utils.GetLogger()
	start := time.Now()

	run := &models.ScrapeRun{
		ID:             models.GenerateRunID(start),
		StartedAt:      start,
		Status:         models.RunStatusRunning,
		SourceURL:      o.cfg.TargetURL(),
		StorageBackend: models.StorageNone,
		TriggerType:    triggerType,
		ScraperVersion: scraperVersion,
	}

	logger.Info("starting scrape run",
		zap.String("run_id", run.ID),
		zap.String("url", run.SourceURL),
		zap.Int("limit", o.cfg.Limit))

	html, err := o.fetcher.Fetch(ctx, run.SourceURL)
	if err != nil {
		o.finalize(run, start, models.RunStatusFailed, fmt.Sprintf("page download failed: %v", err))
		return run, nil, fmt.Errorf("failed to download %s: %w", run.SourceURL, err)
	}

	parsed, err := o.parser.Parse(html, o.cfg.Limit)
	if err != nil {
		o.finalize(run, start, models.RunStatusFailed, fmt.Sprintf("page parse failed: %v", err))
		return run, nil, fmt.Errorf("failed to parse page: %w", err)
	}

	run.RowsFound = parsed.RowsFound
	run.RowsSkipped = parsed.RowsSkipped

	events := removeDuplicates(parsed.Events)
	run.DuplicatesRemoved = len(parsed.Events) - len(events)
	run.EventsParsed = len(events)
	for i := range events {
		events[i].RunID = run.ID
	}

	o.persist(ctx, run, events)

	status := models.RunStatusCompleted
	if len(run.Warnings) > 0 {
		status = models.RunStatusPartial
	}
	o.finalize(run, start, status, "")

	// Publish after the run record is complete so the uploaded record
	// carries the terminal status. Upload warnings only affect the
	// returned record.
	o.publish(ctx, run, events)

	logger.Info("scrape run finished",
		zap.String("run_id", run.ID),
		zap.String("status", run.Status),
		zap.Int("events", run.EventsParsed),
		zap.String("backend", run.StorageBackend),
		zap.Int64("duration_ms", run.Duration))

	return run, events, nil
}

// persist writes events to DynamoDB when configured, falling back to CSV on
// failure or when no table is set
func (o *Orchestrator) persist(ctx context.Context, run *models.ScrapeRun, events []models.SeismicEvent) {
	logger := utils.GetLogger()

	if o.store != nil {
		stored, err := o.store.StoreEvents(ctx, events)
		if err == nil {
			run.StorageBackend = models.StorageDynamoDB
			run.EventsStored = stored
			return
		}
		run.Warnings = append(run.Warnings, fmt.Sprintf("DynamoDB write failed, falling back to CSV: %v", err))
		logger.Error("DynamoDB write failed, falling back to CSV", zap.Error(err))
	}

	if err := o.csv.Export(events, o.cfg.CSVPath); err != nil {
		run.Warnings = append(run.Warnings, fmt.Sprintf("CSV export failed: %v", err))
		logger.Error("CSV export failed", zap.Error(err))
		return
	}

	if len(events) > 0 {
		run.StorageBackend = models.StorageCSV
		run.CSVPath = o.cfg.CSVPath
		run.EventsStored = len(events)
	}
}

// publish uploads snapshots and the run record, best effort
func (o *Orchestrator) publish(ctx context.Context, run *models.ScrapeRun, events []models.SeismicEvent) {
	if o.uploader == nil {
		return
	}

	logger := utils.GetLogger()

	if len(events) > 0 {
		if result, err := o.uploader.UploadLatestEvents(ctx, events, run.SourceURL); err != nil {
			run.Warnings = append(run.Warnings, fmt.Sprintf("latest snapshot upload failed: %v", err))
			logger.Warn("latest snapshot upload failed", zap.Error(err))
		} else {
			run.UploadedKeys = append(run.UploadedKeys, result.Key)
		}

		if result, err := o.uploader.BackupEvents(ctx, events, run.SourceURL); err != nil {
			run.Warnings = append(run.Warnings, fmt.Sprintf("backup upload failed: %v", err))
			logger.Warn("backup upload failed", zap.Error(err))
		} else {
			run.UploadedKeys = append(run.UploadedKeys, result.Key)
		}
	}

	if result, err := o.uploader.UploadScrapeRun(ctx, run); err != nil {
		run.Warnings = append(run.Warnings, fmt.Sprintf("run record upload failed: %v", err))
		logger.Warn("run record upload failed", zap.Error(err))
	} else {
		run.UploadedKeys = append(run.UploadedKeys, result.Key)
	}
}

// finalize stamps the terminal state onto the run record
func (o *Orchestrator) finalize(run *models.ScrapeRun, start time.Time, status, errorSummary string) {
	run.CompletedAt = time.Now()
	run.Duration = time.Since(start).Milliseconds()
	run.Status = status
	run.ErrorSummary = errorSummary
}

// removeDuplicates drops events that share an ID, keeping first occurrence.
// The table occasionally repeats a row while an event is being re-reviewed.
func removeDuplicates(events []models.SeismicEvent) []models.SeismicEvent {
	if len(events) <= 1 {
		return events
	}

	unique := make([]models.SeismicEvent, 0, len(events))
	seen := make(map[string]bool)
	for _, event := range events {
		if !seen[event.ID] {
			seen[event.ID] = true
			unique = append(unique, event)
		}
	}
	return unique
}
