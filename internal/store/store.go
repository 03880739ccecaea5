package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Store manages a directory of speaker presets, one JSON file each, plus an
// index for quick listing.
type Store struct {
	dir       string
	indexPath string
	mu        sync.Mutex
}

// Index contains quick lookup information for all presets.
type Index struct {
	Presets   map[string]IndexEntry `json:"presets"` // name -> entry
	UpdatedAt time.Time             `json:"updated_at"`
}

// IndexEntry contains summary info for quick listing.
type IndexEntry struct {
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultPath returns the default store path (~/.thingy/presets).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".thingy", "presets"), nil
}

// Open opens or creates a store at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create presets dir: %w", err)
	}
	return &Store{
		dir:       path,
		indexPath: filepath.Join(path, indexName+".json"),
	}, nil
}

// OpenDefault opens the store at the default path.
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Path returns the store directory.
func (s *Store) Path() string {
	return s.dir
}

func (s *Store) presetPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes a preset, replacing any preset with the same name. The
// original creation time is kept on replace. Returns whether the preset
// was new.
func (s *Store) Save(p Preset) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	isNew := true
	if existing, err := s.read(p.Name); err == nil {
		isNew = false
		p.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, ErrPresetNotFound) {
		return false, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal preset: %w", err)
	}
	if err := os.WriteFile(s.presetPath(p.Name), data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write preset: %w", err)
	}

	if err := s.updateIndex(func(index *Index) {
		index.Presets[p.Name] = IndexEntry{
			Name:      p.Name,
			Summary:   p.Summary(),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
	}); err != nil {
		return false, fmt.Errorf("failed to update index: %w", err)
	}
	return isNew, nil
}

// Get retrieves a preset by name.
func (s *Store) Get(name string) (*Preset, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(name)
}

func (s *Store) read(name string) (*Preset, error) {
	data, err := os.ReadFile(s.presetPath(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", name, err)
	}
	return &p, nil
}

// List returns all presets in the store, sorted by name.
func (s *Store) List() ([]IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	entries := make([]IndexEntry, 0, len(index.Presets))
	for _, entry := range index.Presets {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Delete removes a preset.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.presetPath(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
		}
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	return s.updateIndex(func(index *Index) {
		delete(index.Presets, name)
	})
}

// Count returns the number of presets in the store. It reads only the index.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex()
	if err != nil {
		return 0, fmt.Errorf("failed to load index: %w", err)
	}
	return len(index.Presets), nil
}

func (s *Store) loadIndex() (*Index, error) {
	data, err := os.ReadFile(s.indexPath)
	if os.IsNotExist(err) {
		return &Index{Presets: make(map[string]IndexEntry)}, nil
	}
	if err != nil {
		return nil, err
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, err
	}
	if index.Presets == nil {
		index.Presets = make(map[string]IndexEntry)
	}
	return &index, nil
}

func (s *Store) updateIndex(fn func(*Index)) error {
	index, err := s.loadIndex()
	if err != nil {
		return err
	}
	fn(index)
	index.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.indexPath, data, 0o644)
}
