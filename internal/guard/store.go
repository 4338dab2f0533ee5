package guard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store persists the cooldown state across process restarts.
type Store interface {
	// Load returns the last accepted press time. The bool is false when no
	// prior press is recorded (absent or corrupt state).
	Load() (time.Time, bool, error)

	// Save durably records the last accepted press time.
	Save(t time.Time) error
}

// cooldownFile is the on-disk JSON shape. Epoch seconds as a float, matching
// the format earlier installations of this controller wrote, so an in-place
// upgrade honors a cooldown already in progress.
type cooldownFile struct {
	LastPrintTime float64 `json:"last_print_time"`
}

// FileStore persists cooldown state to a JSON file with atomic replace.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the last press time from disk. An absent or unreadable file is
// treated as "no prior press", not an error.
func (s *FileStore) Load() (time.Time, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read cooldown file: %w", err)
	}

	var cf cooldownFile
	if err := json.Unmarshal(data, &cf); err != nil {
		// Corrupt file: treat as no prior press.
		return time.Time{}, false, nil
	}
	if cf.LastPrintTime <= 0 {
		return time.Time{}, false, nil
	}

	sec := int64(cf.LastPrintTime)
	nsec := int64((cf.LastPrintTime - float64(sec)) * 1e9)
	return time.Unix(sec, nsec), true, nil
}

// Save writes the last press time via temp file + rename so a concurrent
// reader never sees a partial write.
func (s *FileStore) Save(t time.Time) error {
	cf := cooldownFile{LastPrintTime: float64(t.UnixNano()) / 1e9}
	data, err := json.Marshal(cf)
	if err != nil {
		return fmt.Errorf("marshal cooldown state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".cooldown-*")
	if err != nil {
		return fmt.Errorf("create temp cooldown file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cooldown state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp cooldown file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cooldown file: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	Last time.Time
	Set  bool

	// SaveError, if set, will be returned by Save.
	SaveError error

	// Saves counts the number of Save calls.
	Saves int
}

// Load returns the stored time.
func (m *MemStore) Load() (time.Time, bool, error) {
	return m.Last, m.Set, nil
}

// Save stores the time.
func (m *MemStore) Save(t time.Time) error {
	m.Saves++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Last = t
	m.Set = true
	return nil
}
