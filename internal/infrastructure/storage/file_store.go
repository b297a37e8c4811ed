// Package storage persists uploaded attachment content on local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"taskdeck/internal/core/ports"
)

// LocalFileStore writes uploads under a base directory and returns the
// URL path they are served from.
type LocalFileStore struct {
	baseDir     string
	servePrefix string
}

func NewLocalFileStore(baseDir, servePrefix string) (ports.FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &LocalFileStore{
		baseDir:     baseDir,
		servePrefix: servePrefix,
	}, nil
}

func (fs *LocalFileStore) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	// The stored name is generated server-side, but strip any path
	// components in case a raw client name ever reaches here.
	name = filepath.Base(name)

	file, err := os.Create(filepath.Join(fs.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return "", fmt.Errorf("failed to write upload data: %w", err)
	}

	return path.Join(fs.servePrefix, name), nil
}
