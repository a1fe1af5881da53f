package models

import "time"

// EventsOutput represents the complete JSON structure for published event data
type EventsOutput struct {
	Metadata EventsMetadata `json:"metadata"`
	Events   []SeismicEvent `json:"events"`
}

// EventsMetadata contains metadata about the events dataset
type EventsMetadata struct {
	LastUpdated time.Time `json:"lastUpdated"`
	TotalEvents int       `json:"totalEvents"`
	Source      string    `json:"source"`
	Version     string    `json:"version"`
	Coverage    string    `json:"coverage"`
}

// SeismicEvent represents a single reported seismic event scraped from the
// IGP "sismos reportados" table
type SeismicEvent struct {
	ID string `json:"id" dynamodbav:"id"`

	// Reference is the descriptive location text of the event, e.g.
	// "12 km al SO de Lomas, Caraveli - Arequipa", with interior line
	// breaks collapsed to single spaces.
	Reference string `json:"reference" dynamodbav:"reference"`

	// ReportURL is the absolute URL of the per-event report page, when the
	// table row links to one.
	ReportURL string `json:"reportUrl,omitempty" dynamodbav:"report_url,omitempty"`

	// ReportedAt is the raw date/time text exactly as displayed in the
	// table. ReportedTime is the parsed equivalent in America/Lima; it is
	// zero when the raw text does not parse.
	ReportedAt   string    `json:"reportedAt" dynamodbav:"reported_at"`
	ReportedTime time.Time `json:"reportedTime,omitempty" dynamodbav:"reported_time,omitempty"`

	// MagnitudeText is the raw magnitude cell, Magnitude the parsed value
	// (0 when the cell is empty or not numeric).
	MagnitudeText string  `json:"magnitudeText" dynamodbav:"magnitude_text"`
	Magnitude     float64 `json:"magnitude" dynamodbav:"magnitude"`

	// System fields
	ScrapedAt time.Time `json:"scrapedAt" dynamodbav:"scraped_at"`
	RunID     string    `json:"runId" dynamodbav:"run_id"`
}

// NewEventsMetadata creates metadata for an events output snapshot
func NewEventsMetadata(totalEvents int, source string) EventsMetadata {
	return EventsMetadata{
		LastUpdated: time.Now(),
		TotalEvents: totalEvents,
		Source:      source,
		Version:     "1.0.0",
		Coverage:    "Peru",
	}
}

// CSVHeader returns the column order used for CSV exports. It mirrors the
// field order of the scraped table.
func CSVHeader() []string {
	return []string{"id", "reference", "report_url", "reported_at", "magnitude"}
}

// CSVRecord returns the event as a CSV record matching CSVHeader.
func (e SeismicEvent) CSVRecord() []string {
	return []string{e.ID, e.Reference, e.ReportURL, e.ReportedAt, e.MagnitudeText}
}
