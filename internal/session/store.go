package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/naveenspark/storefront/pkg/domain"
)

// Record is what a Store holds. Either field may be empty; the user bytes are
// returned unparsed so a corrupt record can be detected by the caller.
type Record struct {
	Token string
	User  []byte
}

// Store is durable storage for the session across restarts.
type Store interface {
	Read() (Record, error)
	Write(token string, user domain.User) error
	Clear() error
}

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// FileStore keeps the session as two files in a private directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Read returns whatever is on disk. Missing files are not an error.
func (s *FileStore) Read() (Record, error) {
	var rec Record
	tok, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Record{}, fmt.Errorf("read token: %w", err)
	}
	rec.Token = strings.TrimSpace(string(tok))

	user, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Record{}, fmt.Errorf("read user: %w", err)
	}
	if len(strings.TrimSpace(string(user))) > 0 {
		rec.User = user
	}
	return rec, nil
}

// Write replaces both files.
func (s *FileStore) Write(token string, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, tokenFile), []byte(token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, userFile), data); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Clear removes both files. Clearing an empty store is a no-op.
func (s *FileStore) Clear() error {
	var errs []error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
