package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager handles the dataset image tree and duplicate detection. Workers
// write to distinct paths derived from their own object ID, so the only
// shared filesystem operation is directory creation, which is idempotent.
type Manager struct {
	datasetDir string
	imagesDir  string
	saved      map[string]bool
	mu         sync.RWMutex
}

// NewManager creates the dataset root and images directory.
func NewManager(datasetDir string) (*Manager, error) {
	imagesDir := filepath.Join(datasetDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	return &Manager{
		datasetDir: datasetDir,
		imagesDir:  imagesDir,
		saved:      make(map[string]bool),
	}, nil
}

// DatasetDir returns the dataset root path.
func (m *Manager) DatasetDir() string {
	return m.datasetDir
}

// ImagePath returns the destination path for an object image:
// images/<era>/<sub_period_with_underscores>/<objectID>.jpg.
func (m *Manager) ImagePath(era, subPeriod string, objectID int) string {
	folder := strings.ReplaceAll(subPeriod, " ", "_")
	return filepath.Join(m.imagesDir, era, folder, fmt.Sprintf("%d.jpg", objectID))
}

// IsDownloaded checks whether the image for an object already exists.
func (m *Manager) IsDownloaded(era, subPeriod string, objectID int) bool {
	path := m.ImagePath(era, subPeriod, objectID)

	m.mu.RLock()
	cached := m.saved[path]
	m.mu.RUnlock()
	if cached {
		return true
	}

	if _, err := os.Stat(path); err == nil {
		m.mu.Lock()
		m.saved[path] = true
		m.mu.Unlock()
		return true
	}
	return false
}

// SaveImage writes an image payload to its classification folder and
// returns the saved path. The write goes through a temporary file and an
// atomic rename, so a failed write never leaves a partial image behind.
func (m *Manager) SaveImage(data []byte, era, subPeriod string, objectID int) (string, error) {
	path := m.ImagePath(era, subPeriod, objectID)

	// MkdirAll tolerates concurrent creation of the same subperiod folder.
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create period directory: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to write image data: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.saved[path] = true
	m.mu.Unlock()

	return path, nil
}

// SavedCount returns the number of images saved or observed on disk.
func (m *Manager) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}
