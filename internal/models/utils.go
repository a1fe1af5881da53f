package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Layouts the IGP table uses for the date/time column. The site renders
// day-first timestamps, with and without seconds.
var reportedAtLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
}

// GenerateEventID creates a deterministic ID for an event based on its core
// attributes, so re-scraping the same row produces the same ID. Rows with no
// usable attributes get a random UUID instead.
func GenerateEventID(reference, reportedAt, magnitude string) string {
	normalizedRef := strings.ToLower(strings.TrimSpace(reference))
	normalizedAt := strings.TrimSpace(reportedAt)
	normalizedMag := strings.TrimSpace(magnitude)

	if normalizedRef == "" && normalizedAt == "" && normalizedMag == "" {
		return "evt_" + uuid.NewString()
	}

	input := fmt.Sprintf("%s|%s|%s", normalizedRef, normalizedAt, normalizedMag)
	hash := sha256.Sum256([]byte(input))
	return "evt_" + hex.EncodeToString(hash[:])[:12]
}

// GenerateRunID creates a unique ID for a scrape run
func GenerateRunID(timestamp time.Time) string {
	input := fmt.Sprintf("run|%d", timestamp.UnixNano())
	hash := sha256.Sum256([]byte(input))
	return "run_" + hex.EncodeToString(hash[:])[:8]
}

// NormalizeReference collapses interior line breaks and runs of whitespace in
// a reference cell into single spaces. The source table wraps location text
// across multiple lines.
func NormalizeReference(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// ParseMagnitude extracts a float magnitude from the raw cell text. Returns 0
// when the cell is empty or not numeric. The table sometimes renders values
// as "M 4.5" or with a comma decimal separator.
func ParseMagnitude(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "M")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// ParseReportedTime parses the raw date/time cell in the source's local time
// zone (America/Lima). Returns the zero time when no known layout matches.
func ParseReportedTime(raw string) time.Time {
	cleaned := strings.Join(strings.Fields(raw), " ")
	if cleaned == "" {
		return time.Time{}
	}

	loc, err := time.LoadLocation("America/Lima")
	if err != nil {
		loc = time.FixedZone("PET", -5*60*60)
	}

	for _, layout := range reportedAtLayouts {
		if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// IsValidURL performs basic URL validation
func IsValidURL(url string) bool {
	if url == "" {
		return false
	}
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// IsPlausibleMagnitude checks that a parsed magnitude is in a physically
// sensible range for reported events
func IsPlausibleMagnitude(m float64) bool {
	return m >= 0 && m <= 10
}

// ValidateRunStatus checks if the run status is valid
func ValidateRunStatus(status string) bool {
	switch status {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed, RunStatusPartial:
		return true
	}
	return false
}
