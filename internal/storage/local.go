package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const localPrefix = "posts"

// Local stores files under a directory served at baseURL
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the directory if needed
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(filepath.Join(dir, localPrefix), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &Local{dir: dir, baseURL: baseURL}, nil
}

// Save writes body to a new file and returns its relative path
func (l *Local) Save(_ context.Context, filename string, body io.Reader) (string, error) {
	key, err := objectKey(localPrefix, filename)
	if err != nil {
		return "", err
	}
	f, err := os.Create(filepath.Join(l.dir, filepath.FromSlash(key)))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return key, nil
}

// URL returns the public URL of handle
func (l *Local) URL(handle string) string {
	return joinURL(l.baseURL, handle)
}
