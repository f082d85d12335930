package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gabeoland-surg/video-library-metadata/internal/config"
	"github.com/gabeoland-surg/video-library-metadata/internal/grouping"
)

// ErrMissingKey is returned when a record carries no S3 key to fetch.
var ErrMissingKey = errors.New("record has no s3 key")

// ObjectAPI is the slice of the S3 client the store needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store downloads objects from the configured media bucket.
type Store struct {
	api    ObjectAPI
	bucket string
	log    *slog.Logger
}

// Option adjusts Store construction.
type Option func(*Store)

// WithObjectAPI substitutes the S3 client, used by tests.
func WithObjectAPI(api ObjectAPI) Option {
	return func(s *Store) { s.api = api }
}

// New builds a Store from configuration. Static credentials from the
// config file or environment take precedence; otherwise the default
// AWS credential chain applies.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	store := &Store{bucket: cfg.S3.Bucket, log: logger}
	for _, opt := range opts {
		opt(store)
	}
	if store.api == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.S3.Region),
		}
		if cfg.S3.AccessKeyID != "" && cfg.S3.SecretAccessKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws configuration: %w", err)
		}
		store.api = s3.NewFromConfig(awsCfg)
	}
	if store.bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}
	return store, nil
}

// Bucket reports the configured bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// DownloadToFile fetches one object and writes it to destPath. The
// destination is created with its parent directories; a partial file is
// removed when the copy fails.
func (s *Store) DownloadToFile(ctx context.Context, key, destPath string) error {
	if key == "" {
		return ErrMissingKey
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("ensure download directory: %w", err)
	}

	output, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer output.Body.Close()

	file, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	if _, err := io.Copy(file, output.Body); err != nil {
		file.Close()
		os.Remove(destPath)
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("close %s: %w", destPath, err)
	}
	return nil
}

// BatchResult reports the outcome of a bulk download.
type BatchResult struct {
	Downloaded []string `json:"downloaded"`
	Failed     []string `json:"failed"`
}

// DownloadAll fetches every record into destDir, naming each file after
// the record's filename. Failures are logged and collected rather than
// aborting the batch; context cancellation stops it.
func (s *Store) DownloadAll(ctx context.Context, records []grouping.VideoRecord, destDir string) (BatchResult, error) {
	result := BatchResult{Downloaded: []string{}, Failed: []string{}}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		destPath := filepath.Join(destDir, record.Filename)
		if err := s.DownloadToFile(ctx, record.S3Key, destPath); err != nil {
			s.log.Warn("download failed", "filename", record.Filename, "key", record.S3Key, "error", err)
			result.Failed = append(result.Failed, record.Filename)
			continue
		}
		s.log.Info("downloaded", "filename", record.Filename, "path", destPath)
		result.Downloaded = append(result.Downloaded, record.Filename)
	}
	return result, nil
}
