package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"bugcrawl/pkg/errors"
)

func TestManager(t *testing.T) {
	// Create temporary directory for testing
	tempDir := t.TempDir()
	dir := filepath.Join(tempDir, "bugs")

	// NewManager creates the directory recursively
	manager, err := NewManager(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested")); err != nil {
		t.Fatalf("Expected directory to be created: %v", err)
	}

	// Test Exists for non-existent issue
	exists, err := manager.Exists("MANATEE-400")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Expected Exists to return false for non-existent file")
	}

	// Test SaveIssue
	testData := []byte(`{"key":"MANATEE-400"}`)
	if err := manager.SaveIssue("MANATEE-400", testData); err != nil {
		t.Fatalf("Failed to save issue: %v", err)
	}

	// Verify file was created with the expected content
	expectedPath := manager.IssuePath("MANATEE-400")
	content, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(content, testData) {
		t.Error("File content does not match expected data")
	}

	// No temporary file is left behind after a successful save
	if _, err := os.Stat(expectedPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temporary file to be gone after save")
	}

	// Test Exists for existing issue
	exists, err = manager.Exists("MANATEE-400")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected Exists to return true for existing file")
	}
}

func TestMissing(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Only B is present
	if err := manager.SaveIssue("B", []byte(`{}`)); err != nil {
		t.Fatalf("Failed to save issue: %v", err)
	}

	missing, err := manager.Missing([]string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("Missing failed: %v", err)
	}

	if len(missing) != 2 || missing[0] != "A" || missing[1] != "C" {
		t.Errorf("Expected missing set [A C], got %v", missing)
	}
}

func TestMissingPreservesDuplicates(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// The source list is not deduplicated
	missing, err := manager.Missing([]string{"A", "A", "B"})
	if err != nil {
		t.Fatalf("Missing failed: %v", err)
	}

	if len(missing) != 3 {
		t.Errorf("Expected duplicates to be preserved, got %v", missing)
	}
}

func TestMissingEmptyInput(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	missing, err := manager.Missing(nil)
	if err != nil {
		t.Fatalf("Missing failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("Expected empty missing set, got %v", missing)
	}
}

func TestSaveIssueRejectsUnsafeKey(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	for _, key := range []string{"../evil", "a/b", "", ".."} {
		if err := manager.SaveIssue(key, []byte(`{}`)); err == nil {
			t.Errorf("Expected SaveIssue to reject key %q", key)
		}
	}

	// Nothing was written outside or inside the directory
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no files after rejected saves, found %d", len(entries))
	}
}

func TestSaveIssueOverwritesStaleTemp(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// A stale .tmp from an interrupted run must not block the next attempt
	stale := manager.IssuePath("OS-1234") + ".tmp"
	if err := os.WriteFile(stale, []byte("partial"), 0644); err != nil {
		t.Fatalf("Failed to create stale temp file: %v", err)
	}

	testData := []byte(`{"key":"OS-1234"}`)
	if err := manager.SaveIssue("OS-1234", testData); err != nil {
		t.Fatalf("Failed to save over stale temp: %v", err)
	}

	content, err := os.ReadFile(manager.IssuePath("OS-1234"))
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(content, testData) {
		t.Error("Expected final file to hold the new body")
	}
}

func TestSaveIssueFilesystemError(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Remove the directory out from under the manager so the write fails
	if err := os.RemoveAll(tempDir); err != nil {
		t.Fatalf("Failed to remove directory: %v", err)
	}

	err = manager.SaveIssue("OS-1", []byte(`{}`))
	if err == nil {
		t.Fatal("Expected filesystem error")
	}
	if !errors.IsKind(err, errors.KindFilesystem) {
		t.Errorf("Expected filesystem error kind, got %v", err)
	}
}
