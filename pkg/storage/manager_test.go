package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "out")

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if _, err := os.Stat(tempDir); err != nil {
		t.Fatalf("Expected output directory to be created: %v", err)
	}

	if manager.Exists("launch_data.csv") {
		t.Error("Expected Exists to return false for missing file")
	}

	testData := []byte("launch_name,provider\n")
	path, err := manager.Save("launch_data.csv", bytes.NewReader(testData))
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}

	expectedPath := filepath.Join(tempDir, "launch_data.csv")
	if path != expectedPath {
		t.Errorf("Expected path %s, got %s", expectedPath, path)
	}

	content, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(content, testData) {
		t.Error("File content does not match expected data")
	}

	if _, err := os.Stat(expectedPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temporary file to be removed")
	}

	if !manager.Exists("launch_data.csv") {
		t.Error("Expected Exists to return true after save")
	}
	if size, ok := manager.Size("launch_data.csv"); !ok || size != int64(len(testData)) {
		t.Errorf("Expected size %d, got %d (%v)", len(testData), size, ok)
	}
}

func TestManagerReplaces(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if _, err := manager.SaveBytes("spacecraft_images.zip", []byte("first")); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	path, err := manager.SaveBytes("spacecraft_images.zip", []byte("second"))
	if err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "second" {
		t.Errorf("Expected replaced content, got %q", content)
	}
	if got := manager.Saved(); len(got) != 1 || got[0] != "spacecraft_images.zip" {
		t.Errorf("Unexpected saved list: %v", got)
	}
}

func TestManagerStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	path, err := manager.SaveBytes("../escape.zip", []byte("x"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Expected file inside %s, got %s", dir, path)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestManagerFailedWriteLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if _, err := manager.Save("launch_images.zip", failingReader{}); err == nil {
		t.Fatal("Expected error from failing reader")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected empty directory, found %d entries", len(entries))
	}
	if manager.Exists("launch_images.zip") {
		t.Error("Expected no file after failed write")
	}
}
