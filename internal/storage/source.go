// Package storage loads knowledge documents from files, HTTP endpoints and
// S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
)

const maxSourceBytes = 10 * 1024 * 1024

// ObjectGetter reads objects from a bucket.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// FileSource reads a knowledge document from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return s.Path }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeNotFound, "knowledge source not found", err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return data, nil
}

// HTTPSource fetches a knowledge document with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Name() string { return s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "knowledge source fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cause := fmt.Errorf("%s returned status %d", s.URL, resp.StatusCode)
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeNotFound, "knowledge source not found", cause)
		}
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "knowledge source fetch failed", cause)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// S3Source reads a knowledge document from a bucket.
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

func (s *S3Source) Name() string { return "s3://" + s.Bucket + "/" + s.Key }

func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	return s.Client.GetObject(ctx, s.Bucket, s.Key)
}

// OpenOptions supplies the clients a source may need.
type OpenOptions struct {
	HTTPClient *http.Client
	S3         ObjectGetter
}

// Source is the common interface of FileSource, HTTPSource and S3Source.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// Open resolves a source URI: s3://bucket/key, http(s)://..., or a file
// path. An empty URI returns a nil Source.
func Open(uri string, opts OpenOptions) (Source, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, nil
	}

	switch {
	case strings.HasPrefix(uri, "s3://"):
		u, err := url.Parse(uri)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "unsupported knowledge source uri", err)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, domain.ErrUnsupportedSourceURI
		}
		if opts.S3 == nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "unsupported knowledge source uri",
				errors.New("s3 source requires S3 configuration"))
		}
		return &S3Source{Client: opts.S3, Bucket: u.Host, Key: key}, nil
	case strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://"):
		return &HTTPSource{URL: uri, Client: opts.HTTPClient}, nil
	case strings.HasPrefix(uri, "file://"):
		return &FileSource{Path: strings.TrimPrefix(uri, "file://")}, nil
	case strings.Contains(uri, "://"):
		return nil, domain.ErrUnsupportedSourceURI
	default:
		return &FileSource{Path: uri}, nil
	}
}
