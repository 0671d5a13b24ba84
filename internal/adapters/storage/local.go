package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dkeye/Livecast/internal/config"
)

// LocalStorage writes files under a base directory that the HTTP router serves.
type LocalStorage struct {
	basePath     string
	publicPrefix string
}

func NewLocalStorage(cfg config.LocalConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}
	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	return &LocalStorage{
		basePath:     absPath,
		publicPrefix: "/" + strings.Trim(cfg.PublicPrefix, "/"),
	}, nil
}

func (s *LocalStorage) BasePath() string { return s.basePath }

func (s *LocalStorage) PublicPrefix() string { return s.publicPrefix }

// fullPath maps key below basePath; keys that climb out are rejected.
func (s *LocalStorage) fullPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || clean == ".." || filepath.IsAbs(clean) ||
		strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.basePath, clean), nil
}

func (s *LocalStorage) Write(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	full, err := s.fullPath(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, full); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

// URL returns the path the router serves key under. ttl does not apply.
func (s *LocalStorage) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	full, err := s.fullPath(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", key)
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	return path.Join(s.publicPrefix, filepath.ToSlash(key)), nil
}
