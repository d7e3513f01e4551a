// Package filex holds small file-system helpers.
package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxDuplicates bounds the "name (n).ext" search in CreateUnique.
const maxDuplicates = 1000

// EnsureDir creates dir (relative paths are resolved against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// CreateUnique creates name inside dir without replacing an existing file.
// When name is taken, "base (1).ext", "base (2).ext" and so on are tried,
// the way browsers name repeated downloads.
func CreateUnique(dir, name string) (*os.File, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; i <= maxDuplicates; i++ {
		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
		candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
	}
	return nil, fmt.Errorf("create %s: too many files with the same name", name)
}
