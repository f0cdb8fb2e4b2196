// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/metrics"
	"github.com/MKhiriev/go-diary-keeper/models"
)

// objectKeyTimeLayout prefixes generated keys, e.g. "images/20240101_093000_cat.png".
const objectKeyTimeLayout = "20060102_150405"

const defaultUploadBaseDelay = 200 * time.Millisecond

// objectAPI is the part of *s3.Client used by the attachment store.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newObjectAPI = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}

	objectKeyTime = time.Now
)

// s3AttachmentStorage implements [AttachmentStorage] on an S3 compatible
// bucket, optionally fronted by a CDN.
type s3AttachmentStorage struct {
	client  objectAPI
	cfg     config.Objects
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewS3AttachmentStorage builds the S3 client from cfg. Static credentials
// are used when an access key is configured, the default AWS chain otherwise.
// SDK level retries are disabled; uploads are retried by the store itself.
func NewS3AttachmentStorage(ctx context.Context, cfg config.Objects, m *metrics.Metrics, log *logger.Logger) (AttachmentStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		log.Err(err).Str("func", "NewS3AttachmentStorage").Msg("error loading aws config")
		return nil, fmt.Errorf("%w: %w", ErrObjectStore, err)
	}

	client := newObjectAPI(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		o.Retryer = aws.NopRetryer{}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	log.Info().Str("func", "NewS3AttachmentStorage").Str("bucket", cfg.Bucket).Msg("attachment storage created")
	return newS3AttachmentStorage(client, cfg, m, log), nil
}

func newS3AttachmentStorage(client objectAPI, cfg config.Objects, m *metrics.Metrics, log *logger.Logger) *s3AttachmentStorage {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = defaultUploadBaseDelay
	}
	return &s3AttachmentStorage{
		client:  client,
		cfg:     cfg,
		metrics: m,
		logger:  log,
	}
}

// Put uploads body under "<category>/<timestamp>_<basename>" and returns the
// public URL of the object.
//
// Failed uploads are retried with exponential backoff up to the configured
// attempt count. Rejected credentials and denied permissions stop the loop
// at once and yield [ErrUploadCredentials] or [ErrUploadPermission]; any other
// failure that outlives the budget yields [ErrUploadTransient].
func (s *s3AttachmentStorage) Put(ctx context.Context, category, filename, contentType string, body io.Reader, size int64) (string, error) {
	log := logger.FromContext(ctx)
	started := time.Now()

	key := objectKey(category, filename, objectKeyTime())

	payload, err := rewindable(body)
	if err != nil {
		log.Err(err).Str("func", "*s3AttachmentStorage.Put").Msg("error reading upload body")
		s.metrics.ObserveAttachment("put", metrics.OutcomeError, started)
		return "", fmt.Errorf("%w: %w", ErrObjectStore, err)
	}

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(s.cfg.MaxAttempts-1), retry.NewExponential(s.cfg.RetryBaseDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			s.metrics.IncAttachmentRetry("put")
		}
		if _, err := payload.Seek(0, io.SeekStart); err != nil {
			return err
		}

		input := &s3.PutObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(key),
			Body:   payload,
		}
		if contentType != "" {
			input.ContentType = aws.String(contentType)
		}
		if size > 0 {
			input.ContentLength = aws.Int64(size)
		}

		_, err := s.client.PutObject(ctx, input)
		if err == nil {
			return nil
		}
		if kind := classifyUploadError(err); kind != nil {
			return fmt.Errorf("%w: %w", kind, err)
		}
		log.Warn().Err(err).Str("func", "*s3AttachmentStorage.Put").Str("key", key).Int("attempt", attempt).Msg("upload attempt failed")
		return retry.RetryableError(err)
	})
	if err != nil {
		s.metrics.ObserveAttachment("put", metrics.OutcomeError, started)
		log.Err(err).Str("func", "*s3AttachmentStorage.Put").Str("key", key).Int("attempts", attempt).Msg("upload failed")
		if errors.Is(err, ErrUploadCredentials) || errors.Is(err, ErrUploadPermission) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrUploadTransient, err)
	}

	s.metrics.ObserveAttachment("put", metrics.OutcomeOK, started)
	log.Debug().Str("func", "*s3AttachmentStorage.Put").Str("key", key).Msg("attachment uploaded")

	return s.objectURL(key), nil
}

// Get fetches the object referenced by rawURL, trying every key variant in
// order. The caller closes the returned body.
func (s *s3AttachmentStorage) Get(ctx context.Context, rawURL string) (models.Attachment, error) {
	log := logger.FromContext(ctx)
	started := time.Now()

	variants, err := s.keyVariants(rawURL)
	if err != nil {
		s.metrics.ObserveAttachment("get", metrics.OutcomeNotFound, started)
		return models.Attachment{}, err
	}

	for _, key := range variants {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(key),
		})
		if isObjectNotFound(err) {
			continue
		}
		if err != nil {
			log.Err(err).Str("func", "*s3AttachmentStorage.Get").Str("key", key).Msg("error fetching attachment")
			s.metrics.ObserveAttachment("get", metrics.OutcomeError, started)
			return models.Attachment{}, fmt.Errorf("%w: %w", ErrObjectStore, err)
		}

		s.metrics.ObserveAttachment("get", metrics.OutcomeOK, started)
		return models.Attachment{
			Body:        out.Body,
			ContentType: aws.ToString(out.ContentType),
			Size:        aws.ToInt64(out.ContentLength),
		}, nil
	}

	s.metrics.ObserveAttachment("get", metrics.OutcomeNotFound, started)
	return models.Attachment{}, ErrObjectNotFound
}

// Delete removes the object referenced by rawURL. S3 acknowledges deletes of
// missing keys, so the first existing variant is located with HEAD first.
func (s *s3AttachmentStorage) Delete(ctx context.Context, rawURL string) error {
	log := logger.FromContext(ctx)
	started := time.Now()

	variants, err := s.keyVariants(rawURL)
	if err != nil {
		s.metrics.ObserveAttachment("delete", metrics.OutcomeNotFound, started)
		return err
	}

	for _, key := range variants {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(key),
		})
		if isObjectNotFound(err) {
			continue
		}
		if err == nil {
			_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.cfg.Bucket),
				Key:    aws.String(key),
			})
		}
		if err != nil {
			log.Err(err).Str("func", "*s3AttachmentStorage.Delete").Str("key", key).Msg("error deleting attachment")
			s.metrics.ObserveAttachment("delete", metrics.OutcomeError, started)
			return fmt.Errorf("%w: %w", ErrObjectStore, err)
		}

		s.metrics.ObserveAttachment("delete", metrics.OutcomeOK, started)
		log.Debug().Str("func", "*s3AttachmentStorage.Delete").Str("key", key).Msg("attachment deleted")
		return nil
	}

	s.metrics.ObserveAttachment("delete", metrics.OutcomeNotFound, started)
	return ErrObjectNotFound
}

// objectURL renders the public URL of key: CDN first, then a path-style
// custom endpoint, then the virtual-hosted AWS form.
func (s *s3AttachmentStorage) objectURL(key string) string {
	escaped := escapeObjectKey(key)
	switch {
	case s.cfg.CDNBaseURL != "":
		return strings.TrimRight(s.cfg.CDNBaseURL, "/") + "/" + escaped
	case s.cfg.Endpoint != "":
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + escaped
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, escaped)
	}
}

// urlPrefixes lists every base under which this store publishes objects.
func (s *s3AttachmentStorage) urlPrefixes() []string {
	var prefixes []string
	if s.cfg.CDNBaseURL != "" {
		prefixes = append(prefixes, strings.TrimRight(s.cfg.CDNBaseURL, "/")+"/")
	}
	if s.cfg.Endpoint != "" {
		endpoint := strings.TrimRight(s.cfg.Endpoint, "/")
		prefixes = append(prefixes, endpoint+"/"+s.cfg.Bucket+"/")
	}
	return append(prefixes,
		fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.cfg.Bucket, s.cfg.Region),
		fmt.Sprintf("https://%s.s3.amazonaws.com/", s.cfg.Bucket),
		fmt.Sprintf("https://s3.%s.amazonaws.com/%s/", s.cfg.Region, s.cfg.Bucket),
	)
}

// keyVariants extracts the object key from rawURL and returns the lookup
// candidates: raw, path-unescaped, query-unescaped, and the unescaped key
// with spaces re-encoded as "+" and as "%20". Duplicates are dropped.
func (s *s3AttachmentStorage) keyVariants(rawURL string) ([]string, error) {
	var raw string
	for _, prefix := range s.urlPrefixes() {
		if rest, ok := strings.CutPrefix(rawURL, prefix); ok && rest != "" {
			raw = rest
			break
		}
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedURL, rawURL)
	}

	return keyVariants(raw), nil
}

func keyVariants(raw string) []string {
	candidates := []string{raw}

	pathUnescaped, pathErr := url.PathUnescape(raw)
	if pathErr == nil {
		candidates = append(candidates, pathUnescaped)
	}
	if queryUnescaped, err := url.QueryUnescape(raw); err == nil {
		candidates = append(candidates, queryUnescaped)
	}
	if pathErr == nil {
		candidates = append(candidates,
			strings.ReplaceAll(pathUnescaped, " ", "+"),
			strings.ReplaceAll(pathUnescaped, " ", "%20"),
		)
	}

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok || c == "" {
			continue
		}
		seen[c] = struct{}{}
		variants = append(variants, c)
	}
	return variants
}

// objectKey builds "<category>/<YYYYmmdd_HHMMSS>_<basename>". Directory parts
// of filename are dropped.
func objectKey(category, filename string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return category + "/" + now.UTC().Format(objectKeyTimeLayout) + "_" + base
}

// escapeObjectKey percent-encodes every path segment of key.
func escapeObjectKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// rewindable returns body as a seeker so failed attempts can resend it.
func rewindable(body io.Reader) (io.ReadSeeker, error) {
	if rs, ok := body.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// classifyUploadError returns the permanent failure kind of err, or nil when
// err may be transient.
func classifyUploadError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	switch apiErr.ErrorCode() {
	case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken", "TokenRefreshRequired":
		return ErrUploadCredentials
	case "AccessDenied", "AllAccessDisabled", "AccountProblem", "InvalidBucketName", "NoSuchBucket":
		return ErrUploadPermission
	}
	return nil
}

func isObjectNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
