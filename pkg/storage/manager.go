package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager handles content-addressed storage of downloaded images.
// Files are named <contentHash>.jpg inside a single output directory,
// so storing the same content twice is a no-op at the filesystem level.
type Manager struct {
	outputDir string
	stored    map[string]bool
	mu        sync.RWMutex
}

// NewManager creates a storage manager rooted at outputDir, creating the
// directory if needed and indexing any images already present.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manager{
		outputDir: outputDir,
		stored:    make(map[string]bool),
	}

	if err := m.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return m, nil
}

// scanExistingFiles indexes hashes of images already on disk
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".jpg") {
			continue
		}
		hash := strings.TrimSuffix(name, ".jpg")
		m.stored[hash] = true
	}

	return nil
}

// IsStored reports whether an image with the given content hash already exists
func (m *Manager) IsStored(contentHash string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stored[contentHash]
}

// Save writes the encoded image to <outputDir>/<contentHash>.jpg and returns
// the final path. The write goes to a temp file first and is renamed into
// place, so a crash never leaves a partial image under the final name.
// Saving a hash that already exists overwrites the file with identical
// content and is not an error.
func (m *Manager) Save(r io.Reader, contentHash string) (string, error) {
	finalPath := m.Path(contentHash)

	tmp, err := os.CreateTemp(m.outputDir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write image data: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize image file: %w", err)
	}

	m.mu.Lock()
	m.stored[contentHash] = true
	m.mu.Unlock()

	return finalPath, nil
}

// Path returns the storage path for a content hash
func (m *Manager) Path(contentHash string) string {
	return filepath.Join(m.outputDir, contentHash+".jpg")
}

// OutputDir returns the directory images are stored in
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// Count returns the number of distinct images stored
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stored)
}
