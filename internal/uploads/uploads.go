// Package uploads stores rendered documents (tailored resumes, letters,
// theme templates) in S3-compatible object storage, keyed per user.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotFound is returned when a requested object does not exist.
var ErrNotFound = errors.New("uploads: object not found")

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Bucket wraps one S3 bucket; creation is lazy so construction never needs
// network access.
type Bucket struct {
	client *minio.Client
	name   string
	region string

	initOnce sync.Once
	initErr  error
}

func New(cfg Config) (*Bucket, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("uploads: endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("uploads: access key and secret key are required")
	}
	name := strings.TrimSpace(cfg.Bucket)
	if name == "" {
		return nil, fmt.Errorf("uploads: bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("uploads: init client: %w", err)
	}
	return &Bucket{client: client, name: name, region: region}, nil
}

func (b *Bucket) ensureBucket(ctx context.Context) error {
	b.initOnce.Do(func() {
		exists, err := b.client.BucketExists(ctx, b.name)
		if err != nil {
			b.initErr = err
			return
		}
		if exists {
			return
		}
		b.initErr = b.client.MakeBucket(ctx, b.name, minio.MakeBucketOptions{Region: b.region})
	})
	return b.initErr
}

// Put stores one rendered document under userID/path.
func (b *Bucket) Put(ctx context.Context, userID, path string, content []byte, contentType string) error {
	userID = strings.TrimSpace(userID)
	path = strings.TrimSpace(path)
	if userID == "" {
		return fmt.Errorf("uploads: user id is required")
	}
	if path == "" {
		return fmt.Errorf("uploads: path is required")
	}
	if err := b.ensureBucket(ctx); err != nil {
		return fmt.Errorf("uploads: ensure bucket: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := objectKey(userID, path)
	_, err := b.client.PutObject(ctx, b.name, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (b *Bucket) Get(ctx context.Context, userID, path string) ([]byte, error) {
	if err := b.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("uploads: ensure bucket: %w", err)
	}
	obj, err := b.client.GetObject(ctx, b.name, objectKey(userID, path), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (b *Bucket) List(ctx context.Context, userID string) ([]string, error) {
	if err := b.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("uploads: ensure bucket: %w", err)
	}
	prefix := strings.TrimSuffix(strings.TrimSpace(userID), "/") + "/"
	paths := make([]string, 0, 32)
	for obj := range b.client.ListObjects(ctx, b.name, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if obj.Key == "" {
			continue
		}
		paths = append(paths, strings.TrimPrefix(obj.Key, prefix))
	}
	sort.Strings(paths)
	return paths, nil
}

// SignedURL returns a presigned download link valid for one hour.
func (b *Bucket) SignedURL(ctx context.Context, userID, path string) (string, error) {
	u, err := b.client.PresignedGetObject(ctx, b.name, objectKey(userID, path), time.Hour, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func objectKey(userID, path string) string {
	return strings.TrimSpace(userID) + "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
}
