package extractor

import (
	"fmt"
	"os"
)

// withTempFile writes data to a new temporary file, calls fn with its path, and removes
// the file afterwards, including when fn fails or panics.
func withTempFile(data []byte, pattern string, fn func(path string) error) error {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	path := tmpFile.Name()
	defer os.Remove(path)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	// Close before handing the path to readers that reopen it.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	return fn(path)
}
