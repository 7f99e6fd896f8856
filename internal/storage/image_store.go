// Package storage persists uploaded complaint photos on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".heic": true,
}

// StoredImage references a file written by ImageStore.
type StoredImage struct {
	Name         string
	OriginalName string
	Path         string
	URL          string
	Size         int64
}

// ImageStore writes uploads under dir with generated names so two uploads of
// "photo.jpg" never overwrite each other.
type ImageStore struct {
	dir       string
	publicURL string
}

// NewImageStore ensures dir exists.
func NewImageStore(dir, publicURL string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &ImageStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir returns the directory images are written to.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save copies r into a new file named after a fresh UUID and the original extension.
func (s *ImageStore) Save(originalName string, r io.Reader) (StoredImage, error) {
	name := uuid.NewString() + sanitizeExt(originalName)
	fullPath := filepath.Join(s.dir, name)

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return StoredImage{}, fmt.Errorf("create %s: %w", name, err)
	}

	size, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(fullPath)
		return StoredImage{}, fmt.Errorf("write %s: %w", name, err)
	}

	return StoredImage{
		Name:         name,
		OriginalName: filepath.Base(originalName),
		Path:         fullPath,
		URL:          path.Join(s.publicURL, name),
		Size:         size,
	}, nil
}

// Delete removes a stored image. Deleting a missing file is not an error.
func (s *ImageStore) Delete(img StoredImage) error {
	if img.Path == "" {
		return nil
	}
	if err := os.Remove(img.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", img.Name, err)
	}
	return nil
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if allowedExtensions[ext] {
		return ext
	}
	return ""
}
