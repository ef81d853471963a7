// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/pkg/uuidv7"
)

// Key prefixes partition the bucket by asset class.
const (
	keyPrefixVideos = "videos/"
	keyPrefixImages = "images/"
)

// S3Config holds the settings needed to reach an S3-compatible bucket
// (AWS S3, Cloudflare R2, MinIO).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; empty means AWS default resolution
	AccessKey string
	SecretKey string

	// PublicBaseURL is the prefix under which objects are publicly served.
	PublicBaseURL string
}

// S3Store implements [Store] on top of an S3-compatible object store.
//
// # Construction
//
// Credentials are supplied explicitly at construction — there is no
// package-level configuration, so tests can substitute a fake [Store]
// without touching process environment.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewS3Store builds the production media store client.
func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("media: failed to load object store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing is required by MinIO and most
			// self-hosted S3 implementations.
			options.UsePathStyle = true
		}
	})

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:  logger,
	}, nil
}

// Upload implements [Store].
func (store *S3Store) Upload(ctx context.Context, localPath string) (*Asset, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, apperr.UploadFailed("Media file could not be read", err)
	}
	defer file.Close()

	contentType := contentTypeFor(localPath)
	key := objectKeyFor(localPath, contentType)

	_, err = store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, apperr.UploadFailed("Uploading media to the object store failed", err)
	}

	asset := &Asset{URL: store.baseURL + "/" + key}

	// Object stores return no media metadata, so the duration has to come
	// from a local probe of the container before the staged file is removed.
	if strings.HasPrefix(contentType, "video/") {
		duration, probeErr := MP4Duration(localPath)
		if probeErr != nil {
			store.logger.Warn("media_duration_probe_failed",
				slog.String("key", key),
				slog.Any("error", probeErr),
			)
		}
		asset.Duration = duration
	}

	store.logger.Info("media_uploaded",
		slog.String("key", key),
		slog.String("content_type", contentType),
	)

	return asset, nil
}

// Delete implements [Store].
func (store *S3Store) Delete(ctx context.Context, assetURL string) error {
	key, ok := store.keyFromURL(assetURL)
	if !ok {
		// Foreign or malformed URL: nothing of ours to delete.
		return nil
	}

	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		// S3 DeleteObject on a missing key already succeeds. Some compatible
		// stores surface NoSuchKey instead; "already gone" is a success here.
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("media: failed to delete object %q: %w", key, err)
	}

	return nil
}

// Ping verifies the bucket is reachable with the configured credentials.
// Used by the readiness probe.
func (store *S3Store) Ping(ctx context.Context) error {
	_, err := store.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(store.bucket),
	})
	if err != nil {
		return fmt.Errorf("media: bucket %q unreachable: %w", store.bucket, err)
	}
	return nil
}

// keyFromURL maps a canonical asset URL back to its bucket key.
func (store *S3Store) keyFromURL(assetURL string) (string, bool) {
	prefix := store.baseURL + "/"
	if !strings.HasPrefix(assetURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(assetURL, prefix)
	return key, key != ""
}

// contentTypeFor resolves the MIME type from the file extension.
func contentTypeFor(localPath string) string {
	if contentType := mime.TypeByExtension(filepath.Ext(localPath)); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

// objectKeyFor builds a collision-free, time-sortable bucket key.
func objectKeyFor(localPath, contentType string) string {
	prefix := keyPrefixImages
	if strings.HasPrefix(contentType, "video/") {
		prefix = keyPrefixVideos
	}
	return prefix + uuidv7.New() + strings.ToLower(filepath.Ext(localPath))
}
