package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BackupPath returns the first unused backup name for path: <path>.bak1,
// <path>.bak2, and so on.
func BackupPath(path string) string {
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.bak%d", path, i)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// Backup copies an existing output file aside before new postings are
// appended to it. Returns the backup path.
func Backup(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening output for backup: %w", err)
	}
	defer src.Close()

	backup := BackupPath(path)
	dst, err := os.Create(backup)
	if err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copying to backup %s: %w", backup, err)
	}
	return backup, nil
}

// DefaultOutputPath swaps the input file's extension for .ledger.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".ledger"
}
