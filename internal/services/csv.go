package services

import (
	"encoding/csv"
	"fmt"
	"os"

	"go.uber.org/zap"

	"seismic-reports-scraper/internal/models"
	"seismic-reports-scraper/internal/utils"
)

// CSVExporter writes scraped events to a local CSV file. It is the fallback
// sink when DynamoDB is not configured or rejects the batch.
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes events to path with a header row. An empty slice writes
// nothing and is not an error.
func (e *CSVExporter) Export(events []models.SeismicEvent, path string) error {
	logger := utils.GetLogger()

	if len(events) == 0 {
		logger.Info("no events to export to CSV")
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.CSVHeader()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, event := range events {
		if err := w.Write(event.CSVRecord()); err != nil {
			return fmt.Errorf("failed to write CSV record for %s: %w", event.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	logger.Info("exported events to CSV",
		zap.Int("events", len(events)),
		zap.String("path", path))

	return nil
}
