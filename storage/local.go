package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Local stores files under a directory served as static content.
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Local{Dir: dir, BaseURL: baseURL}, nil
}

func (l *Local) Save(r io.Reader, filename string) (string, error) {
	f, err := os.Create(filepath.Join(l.Dir, filename))
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}
	return filename, nil
}

func (l *Local) Remove(filename string) error {
	err := os.Remove(filepath.Join(l.Dir, filename))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) URL(filename string) string {
	return path.Join(l.BaseURL, filename)
}
