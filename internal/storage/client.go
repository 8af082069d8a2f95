package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps the S3-compatible object store holding uploaded stall media.
// Objects are written once and never deleted or overwritten by this system.
type Client struct {
	mc      *minio.Client
	cfg     Config
	enabled bool
}

// Config holds object storage connection settings.
type Config struct {
	Endpoint        string `mapstructure:"endpoint"` // e.g. "minio:9000" or an R2 endpoint
	AccessKeyID     string `mapstructure:"accesskeyid"`
	SecretAccessKey string `mapstructure:"secretaccesskey"`
	UseSSL          bool   `mapstructure:"usessl"`
	Bucket          string `mapstructure:"bucket"`
	PublicBaseURL   string `mapstructure:"publicbaseurl"` // CDN base for uploaded objects
}

// NewClient creates a storage client. If config has empty Endpoint, the
// client is disabled (all ops return ErrDisabled) and the upload path
// reports a configuration error per request.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return &Client{cfg: cfg, enabled: false}, nil
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Client{mc: mc, cfg: cfg, enabled: true}, nil
}

// ErrDisabled is returned when storage is not configured.
var ErrDisabled = fmt.Errorf("storage service not configured")

// Enabled reports whether the storage client is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Bucket returns the configured bucket name ("" when unconfigured).
func (c *Client) Bucket() string {
	return c.cfg.Bucket
}

// Put uploads an object under the given key as a single blocking write.
func (c *Client) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if !c.enabled {
		return ErrDisabled
	}
	_, err := c.mc.PutObject(ctx, c.cfg.Bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// GetObjectResult holds the reader and metadata for a downloaded object.
type GetObjectResult struct {
	Reader       io.ReadCloser
	ContentType  string
	Size         int64
	LastModified time.Time
}

// Get downloads an object by key.
func (c *Client) Get(ctx context.Context, key string) (*GetObjectResult, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}
	obj, err := c.mc.GetObject(ctx, c.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, err
	}
	return &GetObjectResult{
		Reader:       obj,
		ContentType:  info.ContentType,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

// PublicURL returns the public URL for a stored key. The configured base
// must be present; its absence is a deployment misconfiguration.
func (c *Client) PublicURL(key string) (string, error) {
	return PublicURL(c.cfg.PublicBaseURL, key)
}
