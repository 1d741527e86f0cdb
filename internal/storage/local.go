package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteLocal writes data to path, creating parent directories as needed.
// It returns the absolute path of the written file.
func WriteLocal(path string, data []byte) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", abs, err)
	}

	if err := os.WriteFile(abs, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", abs, err)
	}

	return abs, nil
}
