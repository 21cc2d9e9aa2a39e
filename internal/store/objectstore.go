// Package store publishes generated files to S3-compatible object storage.
package store

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/dvcrn/wework-cli/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

const (
	defaultObjectKey = "wework.ics"
	defaultRegion    = "us-east-1"
	calendarMIME     = "text/calendar; charset=utf-8"
)

// CalendarPublisher uploads the calendar feed to a bucket so calendar apps can
// subscribe to it.
type CalendarPublisher struct {
	client   *minio.Client
	endpoint string
	secure   bool
	bucket   string
	region   string
	key      string
}

// NewCalendarPublisher validates cfg and creates the storage client.
func NewCalendarPublisher(cfg config.CalendarStoreConfig) (*CalendarPublisher, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	secure := cfg.SecureTransport()
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "http://"), false
	}
	endpoint = strings.TrimRight(endpoint, "/")

	bucket := strings.TrimSpace(cfg.Bucket)
	accessKey := strings.TrimSpace(cfg.AccessKey)
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if endpoint == "" {
		return nil, fmt.Errorf("object store: endpoint is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("object store: bucket is required")
	}
	if accessKey == "" {
		return nil, fmt.Errorf("object store: access key is required")
	}
	if secretKey == "" {
		return nil, fmt.Errorf("object store: secret key is required")
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("object store: create client: %w", err)
	}

	return &CalendarPublisher{
		client:   client,
		endpoint: endpoint,
		secure:   secure,
		bucket:   bucket,
		region:   region,
		key:      objectKey(cfg.Prefix, cfg.ObjectKey),
	}, nil
}

func objectKey(prefix, key string) string {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		key = defaultObjectKey
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

// ObjectKey returns the key the calendar is stored under.
func (p *CalendarPublisher) ObjectKey() string {
	return p.key
}

// URL returns the path-style address of the published object.
func (p *CalendarPublisher) URL() string {
	scheme := "https"
	if !p.secure {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.endpoint, p.bucket, p.key)
}

// Publish uploads data, creating the bucket when needed. An upload is skipped
// when the stored object already has the same content; the second result
// reports whether anything was written.
func (p *CalendarPublisher) Publish(ctx context.Context, data []byte) (bool, error) {
	if len(data) == 0 {
		return false, fmt.Errorf("object store: refusing to publish an empty calendar")
	}
	if err := p.ensureBucket(ctx); err != nil {
		return false, err
	}

	sum := md5.Sum(data)
	digest := hex.EncodeToString(sum[:])
	info, err := p.client.StatObject(ctx, p.bucket, p.key, minio.StatObjectOptions{})
	switch {
	case err == nil:
		if strings.Trim(info.ETag, `"`) == digest {
			log.WithFields(log.Fields{"path": p.key}).Debug("object store: calendar unchanged")
			return false, nil
		}
	case isObjectNotFound(err):
	default:
		return false, fmt.Errorf("object store: stat %s: %w", p.key, err)
	}

	_, err = p.client.PutObject(ctx, p.bucket, p.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  calendarMIME,
		CacheControl: "no-cache",
	})
	if err != nil {
		return false, fmt.Errorf("object store: put object %s: %w", p.key, err)
	}
	log.WithFields(log.Fields{"path": p.key, "count": len(data)}).Debug("object store: calendar uploaded")
	return true, nil
}

func (p *CalendarPublisher) ensureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("object store: check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err = p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
		return fmt.Errorf("object store: create bucket: %w", err)
	}
	return nil
}

func isObjectNotFound(err error) bool {
	if err == nil {
		return false
	}
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound {
		return true
	}
	switch resp.Code {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return true
	}
	return false
}
