package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/unkn0wn-root/findterm/internal/errdef"
)

// Store is the key-value persistence surface the find controller writes its
// option flags through.
type Store interface {
	Get(key string) (string, bool)
	GetBool(key string, fallback bool) bool
	Set(key, value string) error
	SetBool(key string, value bool) error
	Delete(key string) error
}

// FileStore keeps values in a flat JSON object on disk. Every mutation
// persists immediately via temp file and rename.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	values map[string]string
	loaded bool
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, values: make(map[string]string)}
}

// Get takes the write lock because the first read triggers the lazy load.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) GetBool(key string, fallback bool) bool {
	raw, ok := s.Get(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	s.values[key] = value
	return s.persistLocked()
}

func (s *FileStore) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.persistLocked()
}

func (s *FileStore) loadLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.loaded = true
			return nil
		}
		return errdef.Wrap(errdef.CodeStorage, err, "read store")
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			return errdef.Wrap(errdef.CodeStorage, err, "parse store")
		}
	}
	s.loaded = true
	return nil
}

func (s *FileStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "create store dir")
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "encode store")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "write store tmp")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "replace store file")
	}
	return nil
}

// MemStore is an in-memory Store for tests and programmatic embedding.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemStore) GetBool(key string, fallback bool) bool {
	raw, ok := s.Get(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemStore) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
