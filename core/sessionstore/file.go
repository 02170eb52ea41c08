package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/gymdesk/authkit/core/session"
)

// File persists the session as a JSON document on disk. Writes go to a
// temporary file in the same directory followed by a rename, so readers
// never observe a partially written session and Save remains an atomic
// replace.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file-backed store at path, creating parent
// directories as needed. The file itself is created lazily on first Save
// with 0600 permissions.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Join(session.ErrSaveSession, err)
	}

	return &File{path: path}, nil
}

func (f *File) Load(ctx context.Context) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt file is indistinguishable from no session; the caller
		// re-authenticates either way.
		return nil, session.ErrNotFound
	}

	return &sess, nil
}

func (f *File) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return session.ErrNilSession
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Join(session.ErrSaveSession, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return errors.Join(session.ErrSaveSession, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Join(session.ErrSaveSession, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Join(session.ErrSaveSession, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(session.ErrSaveSession, err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Join(session.ErrSaveSession, err)
	}

	return nil
}

func (f *File) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(session.ErrClearSession, err)
	}

	return nil
}
