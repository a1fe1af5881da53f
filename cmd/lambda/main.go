package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"seismic-reports-scraper/internal/config"
	"seismic-reports-scraper/internal/models"
	"seismic-reports-scraper/internal/scraper"
	"seismic-reports-scraper/internal/utils"
)

// LambdaEvent represents the EventBridge trigger event
type LambdaEvent struct {
	Source      string                 `json:"source"`
	DetailType  string                 `json:"detail-type"`
	Detail      map[string]interface{} `json:"detail"`
	TriggerType string                 `json:"trigger-type,omitempty"` // manual, scheduled
	Limit       int                    `json:"limit,omitempty"`        // optional override of LIMIT
}

// LambdaResponse represents the function response
type LambdaResponse struct {
	StatusCode     int                   `json:"statusCode"`
	Success        bool                  `json:"success"`
	Message        string                `json:"message"`
	RunID          string                `json:"run_id"`
	TotalEvents    int                   `json:"total_events"`
	ProcessingTime int64                 `json:"processing_time_ms"`
	Events         []models.SeismicEvent `json:"body"`
	Run            *models.ScrapeRun     `json:"run,omitempty"`
	Errors         []string              `json:"errors,omitempty"`
}

// resolveTriggerType derives the trigger type from the event shape
func resolveTriggerType(event LambdaEvent) string {
	if event.TriggerType != "" {
		return event.TriggerType
	}
	if event.Source == "aws.events" {
		return models.TriggerTypeScheduled
	}
	return models.TriggerTypeManual
}

// HandleLambdaEvent is the main Lambda handler function
func HandleLambdaEvent(ctx context.Context, event LambdaEvent) (LambdaResponse, error) {
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return LambdaResponse{
			StatusCode:     500,
			Message:        fmt.Sprintf("failed to load configuration: %v", err),
			ProcessingTime: time.Since(start).Milliseconds(),
		}, err
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		return LambdaResponse{
			StatusCode:     500,
			Message:        fmt.Sprintf("failed to initialize logger: %v", err),
			ProcessingTime: time.Since(start).Milliseconds(),
		}, err
	}
	defer utils.Sync()

	logger := utils.GetLogger()
	logger.Info("lambda invoked",
		zap.String("source", event.Source),
		zap.String("detail_type", event.DetailType))

	if event.Limit > 0 {
		cfg.Limit = event.Limit
	}

	orchestrator, err := scraper.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize orchestrator", zap.Error(err))
		return LambdaResponse{
			StatusCode:     500,
			Message:        fmt.Sprintf("failed to initialize orchestrator: %v", err),
			ProcessingTime: time.Since(start).Milliseconds(),
		}, err
	}

	run, events, err := orchestrator.Run(ctx, resolveTriggerType(event))
	if lc, ok := lambdacontext.FromContext(ctx); ok && run != nil {
		run.LambdaRequestID = lc.AwsRequestID
	}

	if err != nil {
		logger.Error("scrape run failed", zap.Error(err))
		response := LambdaResponse{
			StatusCode:     500,
			Message:        fmt.Sprintf("scrape failed: %v", err),
			ProcessingTime: time.Since(start).Milliseconds(),
			Run:            run,
		}
		if run != nil {
			response.RunID = run.ID
		}
		return response, err
	}

	response := LambdaResponse{
		StatusCode:     200,
		Success:        true,
		Message:        fmt.Sprintf("scraped %d events via %s", len(events), run.StorageBackend),
		RunID:          run.ID,
		TotalEvents:    len(events),
		ProcessingTime: time.Since(start).Milliseconds(),
		Events:         events,
		Run:            run,
		Errors:         run.Warnings,
	}

	logger.Info("lambda completed",
		zap.String("run_id", run.ID),
		zap.Int("events", len(events)),
		zap.Int64("processing_ms", response.ProcessingTime))

	return response, nil
}

// main is the entry point for the Lambda function
func main() {
	lambda.Start(HandleLambdaEvent)
}
