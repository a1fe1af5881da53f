package models

import "time"

// ScrapeRun represents a complete scraping operation against the source table
type ScrapeRun struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
	Duration    int64     `json:"duration,omitempty"` // total duration in milliseconds
	Status      string    `json:"status"`             // running|completed|failed|partial

	// Aggregated results
	RowsFound         int `json:"rowsFound"`
	EventsParsed      int `json:"eventsParsed"`
	RowsSkipped       int `json:"rowsSkipped"`
	DuplicatesRemoved int `json:"duplicatesRemoved"`
	EventsStored      int `json:"eventsStored"`

	// Where the events ended up
	StorageBackend string   `json:"storageBackend"` // dynamodb|csv|none
	CSVPath        string   `json:"csvPath,omitempty"`
	UploadedKeys   []string `json:"uploadedKeys,omitempty"`

	// Error summary
	ErrorSummary string   `json:"errorSummary,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`

	// Metadata
	SourceURL       string `json:"sourceUrl"`
	TriggerType     string `json:"triggerType"` // scheduled|manual
	ScraperVersion  string `json:"scraperVersion"`
	LambdaRequestID string `json:"lambdaRequestId,omitempty"`
}

// Scrape run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusPartial   = "partial"
)

// Storage backend constants
const (
	StorageDynamoDB = "dynamodb"
	StorageCSV      = "csv"
	StorageNone     = "none"
)

// Trigger type constants
const (
	TriggerTypeScheduled = "scheduled"
	TriggerTypeManual    = "manual"
)
