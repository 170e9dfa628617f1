package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maltedev/place-archiver/internal/models"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type ProgressEntry struct {
	Mode      string    `json:"mode"`
	Store     string    `json:"store"`
	Status    string    `json:"status"` // pending, completed, failed
	Outcome   string    `json:"outcome,omitempty"`
	Images    int       `json:"images"`
	UpdatedAt time.Time `json:"updated_at"`
	Error     string    `json:"error,omitempty"`
}

// ProgressStore remembers per-store results across runs so an interrupted run
// can be resumed.
type ProgressStore struct {
	mu       sync.RWMutex
	entries  map[string]*ProgressEntry
	filename string
}

func NewProgressStore(filename string) (*ProgressStore, error) {
	ps := &ProgressStore{
		entries:  make(map[string]*ProgressEntry),
		filename: filename,
	}

	if err := ps.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load progress file: %w", err)
	}

	return ps, nil
}

func progressKey(mode string, store models.Store) string {
	return mode + ":" + StoreKey(store)
}

func (ps *ProgressStore) MarkPending(mode string, store models.Store) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	key := progressKey(mode, store)
	if e, ok := ps.entries[key]; ok && e.Status == StatusCompleted {
		return nil
	}

	ps.entries[key] = &ProgressEntry{
		Mode:      mode,
		Store:     StoreKey(store),
		Status:    StatusPending,
		UpdatedAt: time.Now(),
	}
	return ps.save()
}

// Record stores the result of a processed row. Outcomes that need manual follow-up
// are kept as failed so a resumed run tries them again.
func (ps *ProgressStore) Record(mode string, result models.StoreResult) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	status := StatusCompleted
	if result.Outcome.NeedsFollowUp() {
		status = StatusFailed
	}

	entry := &ProgressEntry{
		Mode:      mode,
		Store:     StoreKey(result.Store),
		Status:    status,
		Outcome:   string(result.Outcome),
		Images:    result.Images,
		UpdatedAt: time.Now(),
	}
	if status == StatusFailed {
		entry.Error = result.Detail
	}

	ps.entries[progressKey(mode, result.Store)] = entry
	return ps.save()
}

func (ps *ProgressStore) Get(mode string, store models.Store) (*ProgressEntry, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	entry, exists := ps.entries[progressKey(mode, store)]
	return entry, exists
}

func (ps *ProgressStore) IsCompleted(mode string, store models.Store) bool {
	entry, ok := ps.Get(mode, store)
	return ok && entry.Status == StatusCompleted
}

func (ps *ProgressStore) GetStats() map[string]int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	stats := make(map[string]int)
	for _, entry := range ps.entries {
		stats[entry.Status]++
	}
	stats["total"] = len(ps.entries)
	return stats
}

func (ps *ProgressStore) save() error {
	data, err := json.MarshalIndent(ps.entries, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(ps.filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	// Write to temp file first for atomicity
	tmpFile := ps.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, ps.filename)
}

func (ps *ProgressStore) Load() error {
	data, err := os.ReadFile(ps.filename)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &ps.entries); err != nil {
		return err
	}
	// A file holding "null" decodes to a nil map.
	if ps.entries == nil {
		ps.entries = make(map[string]*ProgressEntry)
	}
	return nil
}
