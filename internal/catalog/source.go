// AngelaMos | 2026
// source.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/carterperez-dev/house-of-bloom/internal/config"
)

// ErrSourceNotFound means the export does not exist. Load treats it as an
// empty catalog.
var ErrSourceNotFound = errors.New("catalog source not found")

type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

type FileSource struct {
	Path string
}

func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", s.Path, ErrSourceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string {
	return s.Path
}

// ObjectSource reads the export from an S3-compatible bucket.
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

func NewObjectSource(
	cfg config.StorageConfig,
	bucket, key string,
) (*ObjectSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	return &ObjectSource{client: client, bucket: bucket, key: key}, nil
}

func (s *ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, s.key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchObject(err) {
			return nil, fmt.Errorf("stat %s: %w", s, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", s, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s, err)
	}
	return obj, nil
}

func (s *ObjectSource) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

func isNoSuchObject(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

// NewSource picks an ObjectSource for s3://bucket/key locations and a
// FileSource for everything else.
func NewSource(cfg config.CatalogConfig, storage config.StorageConfig) (Source, error) {
	if !strings.HasPrefix(cfg.Source, "s3://") {
		return FileSource{Path: cfg.Source}, nil
	}

	u, err := url.Parse(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("parse catalog source: %w", err)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("catalog source %q must be s3://bucket/key", cfg.Source)
	}

	return NewObjectSource(storage, u.Host, key)
}

// Load reads and parses the export. A missing export yields an empty
// catalog.
func Load(ctx context.Context, src Source) ([]Plant, []Category, error) {
	rc, err := src.Open(ctx)
	if errors.Is(err, ErrSourceNotFound) {
		return []Plant{}, []Category{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close() //nolint:errcheck // read-only

	rows, err := ReadRows(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog %s: %w", src, err)
	}

	plants, categories := Parse(rows)
	return plants, categories, nil
}
