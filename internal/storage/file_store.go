package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	customError "github.com/segyhp/loan-engine/pkg/errors"
)

// FileStore writes uploaded documents under a root directory.
// Returned paths are relative to the root and use forward slashes.
type FileStore struct {
	fs   afero.Fs
	root string
}

func NewFileStore(fs afero.Fs, root string) *FileStore {
	return &FileStore{fs: fs, root: root}
}

// NewOSFileStore stores documents on the local disk.
func NewOSFileStore(root string) *FileStore {
	return NewFileStore(afero.NewOsFs(), root)
}

// Store writes data into folder and returns the stored path.
func (s *FileStore) Store(ctx context.Context, folder, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", customError.Storage("upload cancelled", err)
	}
	if len(data) == 0 {
		return "", customError.Validation(fmt.Sprintf("file %q is empty", fileName), nil)
	}

	rel := path.Join(cleanFolder(folder), storedName(fileName))
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", customError.Storage("could not create upload folder", err)
	}
	if err := afero.WriteFile(s.fs, full, data, 0o644); err != nil {
		return "", customError.Storage("could not store "+fileName, err)
	}

	return rel, nil
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (s *FileStore) Delete(ctx context.Context, rel string) error {
	if rel == "" {
		return nil
	}
	full := filepath.Join(s.root, filepath.FromSlash(path.Clean("/" + rel)))
	if err := s.fs.Remove(full); err != nil && !os.IsNotExist(err) {
		return customError.Storage("could not delete "+rel, err)
	}
	return nil
}

// Exists reports whether rel was stored.
func (s *FileStore) Exists(rel string) (bool, error) {
	return afero.Exists(s.fs, filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+rel))))
}

func cleanFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || folder == "." {
		return "misc"
	}
	return folder
}

// storedName keeps the extension and makes the name unique.
func storedName(fileName string) string {
	ext := strings.ToLower(path.Ext(filepath.Base(fileName)))
	return fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.NewString(), ext)
}
