package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Manager writes archives and exports into one output directory
type Manager struct {
	outputDir string
	saved     map[string]int64
	mu        sync.RWMutex
}

// NewManager creates the output directory if needed
func NewManager(outputDir string) (*Manager, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		saved:     make(map[string]int64),
	}, nil
}

// Path returns where name is written
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, filepath.Base(name))
}

// Exists reports whether name is already present in the output directory
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.Path(name))
	return err == nil
}

// Save writes r to name, replacing any previous file of that name.
// The file only appears once it is fully written.
func (m *Manager) Save(name string, r io.Reader) (string, error) {
	filename := m.Path(name)

	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.saved[filepath.Base(name)] = n
	m.mu.Unlock()

	return filename, nil
}

// SaveBytes is Save for an in-memory body
func (m *Manager) SaveBytes(name string, data []byte) (string, error) {
	return m.Save(name, bytes.NewReader(data))
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// Saved returns the names written by this manager, sorted
func (m *Manager) Saved() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.saved))
	for name := range m.saved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the byte count last written for name
func (m *Manager) Size(name string) (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.saved[filepath.Base(name)]
	return n, ok
}
