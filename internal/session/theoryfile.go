package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// resolveTheoryPath resolves a theory-file path against basePath, per
// spec.md §6.2 "Loading resolves relative paths against a session-configured
// base path." An already-absolute path is returned unchanged.
func resolveTheoryPath(basePath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}

func (s *Session) readTheoryFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: reading theory file %s: %w", path, err)
	}
	return data, nil
}
