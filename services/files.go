package services

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive-dev/taskhive-backend/errs"
)

// FileStore keeps cover-letter and profile-image artifacts on disk under a
// single root directory. Callers only ever hold the opaque filename it
// returns; the lifecycle core reads and writes that reference, never bytes.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{root: root}, nil
}

// Save writes data under a freshly minted name and returns the name.
func (s *FileStore) Save(data []byte, ext string) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	name := uuid.New().String()
	if ext != "" && !strings.ContainsAny(ext, "./\\") {
		name = name + "." + ext
	}
	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// Open returns the stored bytes for a name previously returned by Save.
func (s *FileStore) Open(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if os.IsNotExist(err) {
		return nil, errs.NewNotFound("file")
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Remove deletes a stored artifact. Removing a name that no longer exists is
// not an error.
func (s *FileStore) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// checkName rejects anything that is not a bare filename.
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, "/\\") {
		return errs.NewValidation("file", "invalid file name")
	}
	return nil
}
