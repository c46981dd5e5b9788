package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExportName is used when an export has no target path.
const DefaultExportName = "projects-backup.json"

// ReadInput reads an import payload from path, or from stdin when path is "-".
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("import path cannot be empty")
	}

	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, nil
}

// ExportPath resolves the export target. A directory gets DefaultExportName appended.
func ExportPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultExportName
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultExportName)
	}
	return path
}

// WriteExport writes data to path, creating parent directories, and returns the path written.
func WriteExport(path string, data []byte) (string, error) {
	target := ExportPath(path)

	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("error creating %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("error writing %s: %w", target, err)
	}
	return target, nil
}
