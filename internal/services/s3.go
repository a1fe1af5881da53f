package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"seismic-reports-scraper/internal/models"
)

// S3 object keys for published data
const (
	latestEventsKey = "events/latest.json"
	backupKeyPrefix = "events/backups"
	runKeyPrefix    = "runs"
)

// S3Client uploads event snapshots and run records
type S3Client struct {
	client *s3.Client
	bucket string
	region string
}

// S3UploadResult represents the result of an S3 upload operation
type S3UploadResult struct {
	Key        string    `json:"key"`
	ETag       string    `json:"etag"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
	PublicURL  string    `json:"public_url"`
}

// NewS3Client creates an S3 client with the default AWS configuration chain
func NewS3Client(ctx context.Context, bucket string) (*S3Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Client{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: cfg.Region,
	}, nil
}

// UploadLatestEvents uploads events as the "latest" snapshot for consumers
func (s *S3Client) UploadLatestEvents(ctx context.Context, events []models.SeismicEvent, source string) (*S3UploadResult, error) {
	return s.uploadEvents(ctx, events, source, latestEventsKey)
}

// BackupEvents creates a timestamped backup of the events snapshot
func (s *S3Client) BackupEvents(ctx context.Context, events []models.SeismicEvent, source string) (*S3UploadResult, error) {
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	key := fmt.Sprintf("%s/%s.json", backupKeyPrefix, timestamp)
	return s.uploadEvents(ctx, events, source, key)
}

// UploadScrapeRun uploads a run record
func (s *S3Client) UploadScrapeRun(ctx context.Context, run *models.ScrapeRun) (*S3UploadResult, error) {
	jsonData, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape run to JSON: %w", err)
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	key := fmt.Sprintf("%s/%s.json", runKeyPrefix, timestamp)
	return s.uploadJSON(ctx, jsonData, key)
}

// uploadEvents wraps events with metadata and uploads them as JSON
func (s *S3Client) uploadEvents(ctx context.Context, events []models.SeismicEvent, source, key string) (*S3UploadResult, error) {
	output := models.EventsOutput{
		Metadata: models.NewEventsMetadata(len(events), source),
		Events:   events,
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal events to JSON: %w", err)
	}

	return s.uploadJSON(ctx, jsonData, key)
}

// uploadJSON is a helper method to upload JSON data to S3
func (s *S3Client) uploadJSON(ctx context.Context, data []byte, key string) (*S3UploadResult, error) {
	key = strings.TrimPrefix(key, "/")

	result, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("public, max-age=300"),
		Metadata: map[string]string{
			"uploaded-by": "seismic-reports-scraper",
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	etag := ""
	if result.ETag != nil {
		etag = strings.Trim(*result.ETag, `"`)
	}

	return &S3UploadResult{
		Key:        key,
		ETag:       etag,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		PublicURL:  s.GetPublicURL(key),
	}, nil
}

// GetPublicURL generates the public URL for an S3 object
func (s *S3Client) GetPublicURL(key string) string {
	key = strings.TrimPrefix(key, "/")
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// GetBucketName returns the configured bucket name
func (s *S3Client) GetBucketName() string {
	return s.bucket
}
