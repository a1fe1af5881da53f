package main

import (
	"testing"

	"seismic-reports-scraper/internal/models"
)

func TestResolveTriggerType(t *testing.T) {
	// EventBridge scheduled event
	scheduled := LambdaEvent{Source: "aws.events", DetailType: "Scheduled Event"}
	if got := resolveTriggerType(scheduled); got != models.TriggerTypeScheduled {
		t.Errorf("EventBridge event should resolve to scheduled, got %q", got)
	}

	// Explicit trigger type wins over source detection
	explicit := LambdaEvent{Source: "aws.events", TriggerType: models.TriggerTypeManual}
	if got := resolveTriggerType(explicit); got != models.TriggerTypeManual {
		t.Errorf("explicit trigger type should win, got %q", got)
	}

	// Anything else is a manual invocation
	manual := LambdaEvent{Source: "cli"}
	if got := resolveTriggerType(manual); got != models.TriggerTypeManual {
		t.Errorf("unknown source should resolve to manual, got %q", got)
	}
}

func TestLambdaEvent_LimitOverride(t *testing.T) {
	event := LambdaEvent{TriggerType: "manual", Limit: 25}

	if event.Limit != 25 {
		t.Errorf("expected limit override 25, got %d", event.Limit)
	}

	// Zero means "use configured LIMIT"
	defaultEvent := LambdaEvent{}
	if defaultEvent.Limit != 0 {
		t.Error("absent limit should decode to zero")
	}
}

func TestLambdaResponse_Structure(t *testing.T) {
	success := LambdaResponse{
		StatusCode:  200,
		Success:     true,
		Message:     "scraped 10 events via dynamodb",
		RunID:       "run_12345678",
		TotalEvents: 10,
		Events:      make([]models.SeismicEvent, 10),
	}

	if !success.Success {
		t.Error("success response should be marked successful")
	}
	if success.StatusCode != 200 {
		t.Errorf("expected status 200, got %d", success.StatusCode)
	}
	if len(success.Events) != success.TotalEvents {
		t.Error("event count should match body length")
	}

	failure := LambdaResponse{
		StatusCode: 500,
		Message:    "scrape failed: connection refused",
		Errors:     []string{"connection refused"},
	}

	if failure.Success {
		t.Error("failure response should not be marked successful")
	}
	if len(failure.Errors) == 0 {
		t.Error("failure response should carry error details")
	}
}
