// Package localstore implements the client-local persistence bridge: a
// synchronous text store holding the whole serialized school list as one
// blob.
package localstore

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/ericardos/chamada-escolar/core"
)

// FileStore persists the blob as a single file on disk.
type FileStore struct {
	path   string
	logger core.Logger
}

func NewFileStore(path string, logger core.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load returns the stored text, or ok=false when the file is absent or
// unreadable. Read failures never propagate; they are logged only.
func (s *FileStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("localstore: could not read state file", errors.Wrap(err, s.path))
		}
		return "", false
	}
	return string(data), true
}

func (s *FileStore) Save(text string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "localstore: could not create state dir")
		}
	}
	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil {
		return errors.Wrap(err, "localstore: could not write state file")
	}
	return nil
}

// MemStore keeps the blob in memory; used in tests and ephemeral runs.
type MemStore struct {
	mutex sync.RWMutex
	text  string
	ok    bool
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Load() (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.text, s.ok
}

func (s *MemStore) Save(text string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.text = text
	s.ok = true
	return nil
}
