package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes files under Dir; they are served back from URLPrefix.
type Local struct {
	Dir       string
	URLPrefix string
}

// NewLocal makes sure dir exists. baseURL may be empty for relative paths.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{Dir: dir, URLPrefix: strings.TrimSuffix(baseURL, "/") + "/uploads/"}, nil
}

// Save writes r to Dir/name, refusing to overwrite, and returns its URL.
func (l *Local) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	dest, err := l.resolve(name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return l.URLPrefix + name, nil
}

// Delete removes name; a missing file is not an error.
func (l *Local) Delete(ctx context.Context, name string) error {
	dest, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *Local) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(l.Dir, name), nil
}
