// Package storage archives raw fetched payloads to S3-compatible object
// storage so feed snapshots can be replayed or audited later.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/newsscope/newswatch/internal/config"
)

// Archiver uploads raw source payloads. An unconfigured archiver is valid
// and drops everything silently.
type Archiver struct {
	s3     *s3.Client
	bucket string
	now    func() time.Time
}

// New creates the archiver. With no endpoint configured, archiving is
// disabled but the returned Archiver is still usable.
func New(ctx context.Context, cfg config.ArchiveConfig) (*Archiver, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		slog.Info("storage: raw payload archiving disabled")
		return &Archiver{bucket: cfg.Bucket, now: time.Now}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = &cfg.Endpoint
		o.UsePathStyle = true
	})

	slog.Info("storage: raw payload archiving enabled", "bucket", cfg.Bucket)
	return &Archiver{s3: client, bucket: cfg.Bucket, now: time.Now}, nil
}

// Configured reports whether uploads will actually happen.
func (a *Archiver) Configured() bool {
	return a != nil && a.s3 != nil
}

// ArchivePayload compresses and uploads one fetched payload under
// raw/<source>/<date>/<hash>.gz. Content-addressed keys make re-fetches of
// unchanged feeds idempotent.
func (a *Archiver) ArchivePayload(ctx context.Context, sourceName string, payload []byte) error {
	if !a.Configured() {
		return nil
	}

	key := fmt.Sprintf("raw/%s/%s/%s.gz",
		sanitizeSourceName(sourceName),
		a.now().UTC().Format("2006-01-02"),
		sha256sum(payload))

	body, err := gzipCompress(payload)
	if err != nil {
		return fmt.Errorf("storage: compress payload: %w", err)
	}

	_, err = a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("storage: upload %s: %w", key, err)
	}

	slog.Debug("storage: payload archived", "key", key, "size", len(body))
	return nil
}

// GetPayload retrieves and decompresses one archived payload by key.
func (a *Archiver) GetPayload(ctx context.Context, key string) ([]byte, error) {
	if !a.Configured() {
		return nil, fmt.Errorf("storage: not configured")
	}

	out, err := a.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return gzipDecompress(data)
}

// sanitizeSourceName makes a source name safe for use as a key segment.
func sanitizeSourceName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, name)
	return strings.Trim(name, "-")
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
