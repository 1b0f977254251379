// Package vault manages the on-disk document vault served at /vault.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// placeholderFiles are seeded on startup so a fresh install serves something
// from every vault link. Real template PDFs replace them in production.
var placeholderFiles = []string{
	"section-609.pdf",
	"inquiry-removal.pdf",
	"medical-debt.pdf",
	"cease-desist.pdf",
	"vod-template.pdf",
}

// EnsureDir creates the vault directory if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}
	return nil
}

// CreatePlaceholderFiles writes a placeholder for each known vault document
// that is missing. Existing files are never touched.
func CreatePlaceholderFiles(dir string) error {
	if err := EnsureDir(dir); err != nil {
		return err
	}

	for _, filename := range placeholderFiles {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		title := strings.ToUpper(strings.TrimSuffix(filename, ".pdf"))
		content := fmt.Sprintf("DEBT ERASER PRO - %s\n\nThis is a placeholder document.\n\nIn production, replace this with actual legal templates.", title)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write placeholder %s: %w", path, err)
		}
	}
	return nil
}
