package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"seismic-reports-scraper/internal/models"
	"seismic-reports-scraper/internal/utils"
)

// Column positions in the IGP reported-events table. Column 1 holds an
// expand/collapse control and is not scraped.
const (
	colReference  = 0
	colReportedAt = 2
	colMagnitude  = 3
)

// rowSelector matches the data rows of the reported-events table
const rowSelector = "table.table tbody tr"

// TableParser extracts seismic events from the reported-events page HTML
type TableParser struct {
	baseURL *url.URL
}

// ParseResult carries the parsed events plus row-level accounting for the
// run summary
type ParseResult struct {
	Events      []models.SeismicEvent
	RowsFound   int
	RowsSkipped int
}

// NewTableParser creates a parser that resolves relative report links
// against baseURL
func NewTableParser(baseURL string) (*TableParser, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	return &TableParser{baseURL: parsed}, nil
}

// Parse extracts up to limit events from the page HTML. Rows with no data
// cells are skipped with a warning; missing individual cells produce empty
// fields, matching what the source table actually renders while an event is
// still being reviewed. An absent table yields an empty result, not an error.
func (p *TableParser) Parse(html string, limit int) (*ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}

	logger := utils.GetLogger()
	rows := doc.Find(rowSelector)

	result := &ParseResult{RowsFound: rows.Length()}
	logger.Info("rows found in table", zap.Int("rows", result.RowsFound))

	now := time.Now().UTC()

	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if limit >= 0 && len(result.Events) >= limit {
			return false
		}

		cells := row.Find("td")
		if cells.Length() == 0 {
			result.RowsSkipped++
			logger.Warn("skipping row without data cells", zap.Int("row", i))
			return true
		}

		event := p.parseRow(row, cells)
		event.ScrapedAt = now
		result.Events = append(result.Events, event)
		return true
	})

	return result, nil
}

// parseRow converts a single table row into an event
func (p *TableParser) parseRow(row, cells *goquery.Selection) models.SeismicEvent {
	reference := models.NormalizeReference(cellText(cells, colReference))
	reportedAt := strings.TrimSpace(cellText(cells, colReportedAt))
	magnitude := strings.TrimSpace(cellText(cells, colMagnitude))

	event := models.SeismicEvent{
		ID:            models.GenerateEventID(reference, reportedAt, magnitude),
		Reference:     reference,
		ReportedAt:    reportedAt,
		ReportedTime:  models.ParseReportedTime(reportedAt),
		MagnitudeText: magnitude,
		Magnitude:     models.ParseMagnitude(magnitude),
	}

	if href, ok := row.Find("a[href]").First().Attr("href"); ok {
		event.ReportURL = p.resolveURL(href)
	}

	return event
}

// resolveURL makes a report link absolute against the site base URL
func (p *TableParser) resolveURL(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return p.baseURL.ResolveReference(ref).String()
}

// cellText returns the trimmed text of the idx-th cell, or "" when the row
// has fewer cells
func cellText(cells *goquery.Selection, idx int) string {
	if idx >= cells.Length() {
		return ""
	}
	return cells.Eq(idx).Text()
}
