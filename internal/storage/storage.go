// Package storage saves post images and resolves their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/yatube/yatube/internal/apperr"
	"github.com/yatube/yatube/pkg/config"
)

// Store persists uploaded files and hands back an opaque handle
type Store interface {
	Save(ctx context.Context, filename string, body io.Reader) (string, error)
	URL(handle string) string
}

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// New builds the Store selected by the configured backend
func New(cfg *config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocal(cfg.LocalDir, cfg.BaseURL)
	case "s3":
		return NewS3(cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// objectKey returns a fresh key under prefix keeping the upload's extension.
func objectKey(prefix, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !allowedExt[ext] {
		return "", apperr.Invalid("image", "unsupported image type")
	}
	return path.Join(prefix, uuid.NewString()+ext), nil
}

func joinURL(base, handle string) string {
	if handle == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(handle, "/")
}
