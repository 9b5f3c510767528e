package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"bugcrawl/pkg/bugview"
	"bugcrawl/pkg/errors"
)

// Manager handles the local issue directory: existence checks against
// already-downloaded issues and crash-safe persistence of new ones.
type Manager struct {
	dir string
}

// NewManager creates a storage manager bound to the target directory,
// creating it recursively if absent.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New(errors.KindFilesystem, "failed to create output directory: %v", err)
	}

	return &Manager{dir: dir}, nil
}

// Dir returns the target directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// IssuePath returns the final path for an issue's local file.
func (m *Manager) IssuePath(key string) string {
	return filepath.Join(m.dir, fmt.Sprintf("%s.json", key))
}

// Exists reports whether the issue's final file is present. A stat failure
// for any reason other than "not found" is a filesystem error, never
// silently treated as present or absent.
func (m *Manager) Exists(key string) (bool, error) {
	_, err := os.Stat(m.IssuePath(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.New(errors.KindFilesystem, "failed to stat %s: %v", m.IssuePath(key), err)
}

// Missing returns the subsequence of keys with no corresponding local file,
// preserving the input order. The input is not deduplicated.
func (m *Manager) Missing(keys []string) ([]string, error) {
	missing := make([]string, 0, len(keys))
	for _, key := range keys {
		exists, err := m.Exists(key)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

// SaveIssue persists an issue body atomically: the body is written to a
// temporary file and renamed onto the final path. The rename is the single
// publish point, so a reader never observes a half-written final file.
func (m *Manager) SaveIssue(key string, body []byte) error {
	if err := bugview.ValidateKey(key); err != nil {
		return err
	}

	finalPath := m.IssuePath(key)
	tempPath := finalPath + ".tmp"

	if err := os.WriteFile(tempPath, body, 0644); err != nil {
		os.Remove(tempPath)
		return errors.New(errors.KindFilesystem, "failed to write %s: %v", tempPath, err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return errors.New(errors.KindFilesystem, "failed to rename %s: %v", tempPath, err)
	}

	return nil
}
