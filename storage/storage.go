// Package storage abstracts where uploaded and scraped images live: the
// local uploads directory or an S3 bucket.
package storage

import (
	"io"
	"path/filepath"
	"strings"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

type Storage interface {
	// Save writes the file under filename and returns the stored name.
	Save(r io.Reader, filename string) (string, error)
	// Remove deletes a stored file. Removing a missing file is not an error.
	Remove(filename string) error
	// URL returns the public URL for a stored file.
	URL(filename string) string
}

// AllowedFile reports whether the filename carries a permitted image
// extension.
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// NormalizeExt returns the lowercased extension without the dot, falling
// back to jpg for anything outside the whitelist.
func NormalizeExt(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions["."+ext] {
		return "jpg"
	}
	return ext
}
