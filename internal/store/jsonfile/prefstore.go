// Package jsonfile provides JSON-file-backed persistence for preferences.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
)

// PrefsFile is the root JSON structure stored on disk.
type PrefsFile struct {
	Entries map[string]prefs.Entry `json:"entries"`
}

// PrefStore implements prefs.Store using a JSON file for persistence. A file
// lock guards against concurrent CLI and TUI processes writing at once.
type PrefStore struct {
	path string
	mu   sync.RWMutex
}

// NewPrefStore creates a new JSON file preference store at the given path.
func NewPrefStore(path string) *PrefStore {
	return &PrefStore{path: path}
}

func (s *PrefStore) lockPath() string {
	return s.path + ".lock"
}

// withSharedLock executes fn while holding a shared (read) file lock.
func (s *PrefStore) withSharedLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_SH, fn)
}

// withExclusiveLock executes fn while holding an exclusive (write) file lock.
func (s *PrefStore) withExclusiveLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_EX, fn)
}

func (s *PrefStore) withFileLock(lockType int, fn func() error) error {
	// Ensure parent directory exists for lock file
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := syscall.Flock(int(f.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN) //nolint:errcheck

	return fn()
}

// Get returns an entry by key. Returns prefs.ErrKeyNotFound if not found.
func (s *PrefStore) Get(ctx context.Context, key string) (prefs.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry prefs.Entry
	var found bool

	err := s.withSharedLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		entry, found = file.Entries[key]
		return nil
	})
	if err != nil {
		return prefs.Entry{}, err
	}

	if !found {
		return prefs.Entry{}, prefs.ErrKeyNotFound
	}

	return entry, nil
}

// Set creates or updates an entry.
func (s *PrefStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withExclusiveLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		now := time.Now()
		entry, exists := file.Entries[key]
		if exists {
			entry.Value = value
			entry.UpdatedAt = now
		} else {
			entry = prefs.Entry{
				Key:       key,
				Value:     value,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}

		file.Entries[key] = entry
		return s.save(file)
	})
}

// Delete removes an entry by key. Returns prefs.ErrKeyNotFound if not found.
func (s *PrefStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notFound bool

	err := s.withExclusiveLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		if _, ok := file.Entries[key]; !ok {
			notFound = true
			return nil
		}

		delete(file.Entries, key)
		return s.save(file)
	})
	if err != nil {
		return err
	}

	if notFound {
		return prefs.ErrKeyNotFound
	}

	return nil
}

// List returns all stored entries.
func (s *PrefStore) List(ctx context.Context) ([]prefs.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []prefs.Entry

	err := s.withSharedLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		for _, entry := range file.Entries {
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// load reads the prefs file from disk.
// Returns an empty PrefsFile if the file doesn't exist.
func (s *PrefStore) load() (PrefsFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return PrefsFile{Entries: make(map[string]prefs.Entry)}, nil
		}
		return PrefsFile{}, err
	}

	if len(data) == 0 {
		return PrefsFile{Entries: make(map[string]prefs.Entry)}, nil
	}

	var file PrefsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return PrefsFile{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	if file.Entries == nil {
		file.Entries = make(map[string]prefs.Entry)
	}

	return file, nil
}

// save writes the prefs file to disk atomically.
func (s *PrefStore) save(file PrefsFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp) // best effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
