// Package media stores menu and profile images and hands back a durable URL.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrUploadRejected means the backend refused the file (type, size, quota).
var ErrUploadRejected = errors.New("upload rejected")

// Uploader stores one image under a named preset and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename, preset string) (string, error)
}

type Config struct {
	Backend       string
	CloudName     string
	CloudinaryURL string
	Directory     string
	PublicBaseURL string
}

// FromConfig builds the backend named by cfg.Backend.
func FromConfig(cfg Config) (Uploader, error) {
	switch cfg.Backend {
	case "", "local":
		local, err := NewLocalBackend(cfg.Directory, cfg.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("media: local backend: %w", err)
		}
		return local, nil
	case "cloudinary":
		if cfg.CloudName == "" {
			return nil, errors.New("media: cloudinary backend needs a cloud name")
		}
		return NewCloudinary(cfg.CloudinaryURL, cfg.CloudName), nil
	case "noop":
		return NewNoopBackend(), nil
	default:
		return nil, fmt.Errorf("media: unsupported backend %q", cfg.Backend)
	}
}

type NoopBackend struct{}

func NewNoopBackend() *NoopBackend { return &NoopBackend{} }

// Upload drains the file and returns an empty URL.
func (NoopBackend) Upload(_ context.Context, file io.Reader, _, _ string) (string, error) {
	_, err := io.Copy(io.Discard, file)
	return "", err
}
