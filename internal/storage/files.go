package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore persists uploaded evidence and generated documents under a base
// directory served statically, returning the public URL path for each file.
type FileStore struct {
	baseDir string
	baseURL string
}

// NewFileStore creates the base directory if needed.
func NewFileStore(baseDir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the base directory, for mounting as a static route.
func (fs *FileStore) Dir() string {
	return fs.baseDir
}

// UploadName builds a collision-resistant file name from the owning folio,
// the photo kind and the upload instant, keeping the original extension.
func UploadName(folio, tipo, original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s_%s_%d%s", folio, strings.ToLower(tipo), now.UnixNano(), ext)
}

// Save streams r into subdir/name and returns the public URL path.
func (fs *FileStore) Save(subdir, name string, r io.Reader) (string, error) {
	dir := filepath.Join(fs.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating dir %s: %w", subdir, err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("creating file %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("writing file %s: %w", name, err)
	}

	return fs.baseURL + "/" + subdir + "/" + name, nil
}

// SaveBytes writes data to subdir/name and returns the public URL path.
func (fs *FileStore) SaveBytes(subdir, name string, data []byte) (string, error) {
	return fs.Save(subdir, name, bytes.NewReader(data))
}
