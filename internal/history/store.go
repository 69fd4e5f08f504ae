package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/unkn0wn-root/findterm/internal/errdef"
)

// Store persists the search-term list as a JSON array, newest last. Writes
// go through a temp file and rename so a crash never truncates history.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted terms, tolerating a missing file.
func (s *Store) Load() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errdef.Wrap(errdef.CodeHistory, err, "read history")
	}
	if len(data) == 0 {
		return nil, nil
	}

	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, errdef.Wrap(errdef.CodeHistory, err, "parse history")
	}
	return terms, nil
}

// Save atomically replaces the history file with the supplied terms.
func (s *Store) Save(terms []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "create history dir")
	}

	data, err := json.MarshalIndent(terms, "", "  ")
	if err != nil {
		return errdef.Wrap(errdef.CodeHistory, err, "encode history")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "write history tmp")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "replace history file")
	}
	return nil
}
