package scrape

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
)

// s3PutAPI is the slice of the S3 client the archiver uses.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver stores raw scrape payloads in S3 so a bad mapping can be
// replayed without paying for another scrape. It is optional; a nil
// Archiver skips archiving.
type Archiver struct {
	client s3PutAPI
	bucket string
}

// NewArchiver builds an S3 archiver, or nil when archiving is disabled.
func NewArchiver(ctx context.Context, cfg config.ArchiveConfig) (*Archiver, error) {
	if !cfg.Enabled || cfg.S3Bucket == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &Archiver{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
	}, nil
}

// NewArchiverWithClient wires a prebuilt S3 client, for tests.
func NewArchiverWithClient(client s3PutAPI, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// Store writes the raw dataset payload under the record id. Failures are
// logged and swallowed; archiving never blocks the pipeline.
func (a *Archiver) Store(ctx context.Context, recordID string, payload []byte) {
	if a == nil {
		return
	}
	key := fmt.Sprintf("scrapes/%s/%s.json", recordID, time.Now().UTC().Format("20060102T150405Z"))
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		logger.Warn("failed to archive scrape payload", "record_id", recordID, "error", err.Error())
		return
	}
	logger.Debug("archived scrape payload", "record_id", recordID, "key", key)
}
