package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rickgao/airq-etl/internal/model"
)

const contentType = "text/csv"

// PutObjectAPI is the subset of the S3 client used by Exporter.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3 connection settings.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. MinIO
	Prefix          string
	PathStyle       bool
	AccessKeyID     string // optional; falls back to the default credential chain
	SecretAccessKey string
}

// Exporter uploads the reconciled table as CSV.
type Exporter struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
}

// New creates an Exporter backed by an S3 client built from cfg.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Exporter, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix, logger), nil
}

// NewWithClient creates an Exporter around an existing client.
func NewWithClient(client PutObjectAPI, bucket, prefix string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Key returns the object key for a run: prefix/YYYY/MM/DD/<runID>.csv.
func (e *Exporter) Key(runID string, at time.Time) string {
	return path.Join(e.prefix, at.UTC().Format("2006/01/02"), runID+".csv")
}

// Export uploads records and returns the s3:// URI written.
func (e *Exporter) Export(ctx context.Context, runID string, at time.Time, records []model.UnifiedRecord) (string, error) {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, records); err != nil {
		return "", fmt.Errorf("encode csv: %w", err)
	}

	key := e.Key(runID, at)
	size := int64(buf.Len())
	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Metadata:      map[string]string{"run-id": runID},
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", e.bucket, key, err)
	}

	uri := "s3://" + e.bucket + "/" + key
	e.logger.Info("archived run", "uri", uri, "records", len(records), "bytes", size)
	return uri, nil
}
