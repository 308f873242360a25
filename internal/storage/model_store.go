package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/megumiii12/athlete/internal/config"
)

// ModelStore fetches the trained classifier artifact. When an object
// store is configured it is tried first; the local filesystem path is
// the fallback so a bundled artifact still works without MinIO.
type ModelStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

// NewModelStore returns a nil-client store when no endpoint is
// configured; FetchArtifact then reads only from disk.
func NewModelStore(cfg config.StorageConfig) (*ModelStore, error) {
	if cfg.Endpoint == "" {
		return &ModelStore{cfg: cfg}, nil
	}

	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ModelStore{client: client, cfg: cfg}, nil
}

// FetchArtifact returns the raw artifact bytes, trying the object store
// first and the local path second.
func (s *ModelStore) FetchArtifact(ctx context.Context, model config.ModelConfig) ([]byte, error) {
	if s.client != nil {
		data, err := s.fetchObject(ctx, model.ObjectKey)
		if err == nil {
			return data, nil
		}
		// Fall through to the local path; the caller decides whether a
		// completely missing artifact matters.
	}

	data, err := os.ReadFile(model.Path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return data, nil
}

func (s *ModelStore) fetchObject(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", objectKey, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", objectKey, err)
	}
	return data, nil
}
