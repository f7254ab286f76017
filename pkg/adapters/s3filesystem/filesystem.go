// Package s3filesystem provides a FileSystem backed by an S3 bucket,
// so snapshots and source images can live in object storage instead of
// a local disk.
package s3filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/user/camsnap/pkg/ports"
)

// Config holds the connection settings for one bucket.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional: for S3-compatible endpoints (MinIO, LocalStack)
	AccessKeyID     string // Optional: static credentials
	SecretAccessKey string // Optional: static credentials
	KeyPrefix       string // Optional: prepended to every path
}

// FileSystem implements ports.FileSystem over one S3 bucket.
type FileSystem struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// New creates a FileSystem from the config, resolving credentials the
// AWS default way unless static ones are given.
func New(ctx context.Context, cfg Config) (*FileSystem, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var configOpts []func(*awsconfig.LoadOptions) error
	configOpts = append(configOpts, awsconfig.WithRegion(cfg.Region))
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &FileSystem{
		client:    s3.NewFromConfig(awsCfg, clientOpts...),
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// NewWithClient creates a FileSystem over an existing client, for
// tests and callers managing their own AWS configuration.
func NewWithClient(client *s3.Client, bucket, keyPrefix string) *FileSystem {
	return &FileSystem{client: client, bucket: bucket, keyPrefix: keyPrefix}
}

func (fs *FileSystem) key(path string) string {
	path = strings.TrimLeft(path, "/")
	if fs.keyPrefix == "" {
		return path
	}
	return strings.TrimRight(fs.keyPrefix, "/") + "/" + path
}

// Open fetches the object at path. The handle streams the object body;
// Size comes from the response's Content-Length, or -1 when the
// backend does not report one.
func (fs *FileSystem) Open(ctx context.Context, path string) (ports.File, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(path)),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", fs.bucket, fs.key(path), err)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return &file{body: out.Body, size: size}, nil
}

// WriteFile uploads data as the object at path.
func (fs *FileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(path)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", fs.bucket, fs.key(path), err)
	}
	return nil
}

// file adapts a GetObject response body to ports.File.
type file struct {
	body io.ReadCloser
	size int64
}

func (f *file) Read(p []byte) (int, error) {
	return f.body.Read(p)
}

func (f *file) Close() error {
	return f.body.Close()
}

func (f *file) Size() int64 {
	return f.size
}

// Ensure FileSystem implements ports.FileSystem
var _ ports.FileSystem = (*FileSystem)(nil)
