// Package files manages uploaded documents and downloadable artifacts on disk.
package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"realm/internal/ports"
)

// Store writes uploads verbatim under their original filename and serves
// plain-text artifacts out of a contents directory.
type Store struct {
	uploadsDir  string
	contentsDir string
	logger      *slog.Logger
}

var _ ports.FileStore = (*Store)(nil)

// NewStore creates both directories if they do not exist yet.
func NewStore(uploadsDir, contentsDir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, dir := range []string{uploadsDir, contentsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return &Store{uploadsDir: uploadsDir, contentsDir: contentsDir, logger: logger}, nil
}

// SaveUpload writes the uploaded bytes verbatim and returns the stored path.
// The name is reduced to its base to keep writes inside the uploads dir.
func (s *Store) SaveUpload(name string, data []byte) (string, error) {
	path := filepath.Join(s.uploadsDir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}

	s.logger.Info("saved uploaded file", "path", path, "bytes", len(data))
	return path, nil
}

// UploadPath resolves an upload filename to its on-disk location.
func (s *Store) UploadPath(name string) string {
	return filepath.Join(s.uploadsDir, filepath.Base(name))
}

// ListContents returns the names of regular files available for download.
// A missing contents directory is not an error: it is logged and yields an
// empty listing.
func (s *Store) ListContents() ([]string, error) {
	entries, err := os.ReadDir(s.contentsDir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Error("contents directory not found", "dir", s.contentsDir)
			return []string{}, nil
		}
		return nil, fmt.Errorf("list contents: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	s.logger.Debug("listed files", "dir", s.contentsDir, "count", len(names))
	return names, nil
}

// ReadContent returns the bytes of a downloadable file by name.
func (s *Store) ReadContent(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.contentsDir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}

// CreateDownloadable writes content as a plain-text artifact into the
// contents directory and returns its path.
func (s *Store) CreateDownloadable(content, filename string) (string, error) {
	path := filepath.Join(s.contentsDir, filepath.Base(filename))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("create downloadable: %w", err)
	}

	s.logger.Info("created downloadable file", "path", path)
	return path, nil
}
