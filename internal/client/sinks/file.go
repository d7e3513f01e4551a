package sinks

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/filex"
)

// FileSink writes bundles into a directory. Existing files are never
// replaced; a numbered name is chosen instead.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}

	f, err := filex.CreateUnique(dir, name)
	if err != nil {
		return "", fmt.Errorf("create bundle file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write bundle file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close bundle file: %w", err)
	}
	return f.Name(), nil
}
