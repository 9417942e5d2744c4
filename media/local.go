package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize caps a single stored image.
const MaxFileSize = 5 << 20

var allowedExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// LocalBackend writes images below a directory that the HTTP server exposes at /uploads.
type LocalBackend struct {
	dir     string
	baseURL string
}

func NewLocalBackend(dir, publicBaseURL string) (*LocalBackend, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create uploads directory %s: %w", dir, err)
	}
	return &LocalBackend{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (b *LocalBackend) Upload(ctx context.Context, file io.Reader, filename, preset string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExts[ext] {
		return "", fmt.Errorf("%w: unsupported file type %q", ErrUploadRejected, ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	presetDir := filepath.Join(b.dir, filepath.Base(preset))
	if err := os.MkdirAll(presetDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create preset directory: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(presetDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save file: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(path)
		return "", fmt.Errorf("%w: file larger than %d bytes", ErrUploadRejected, MaxFileSize)
	}

	return b.baseURL + "/uploads/" + filepath.Base(preset) + "/" + name, nil
}
