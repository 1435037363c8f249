package store

import (
	"sync"
	"time"

	"github.com/AngelCh415/admira-dash/internal/models"
)

// MemoryStore holds the last successfully loaded dataset. Refreshes swap the
// whole snapshot so readers never see one source updated and the other not.
type MemoryStore struct {
	mu   sync.RWMutex
	ds   *models.Dataset
	runs int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace installs a new snapshot. Slices are copied; callers keep theirs.
func (s *MemoryStore) Replace(leads []models.Lead, campaigns []models.Campaign, at time.Time) {
	ds := &models.Dataset{
		Leads:     append([]models.Lead(nil), leads...),
		Campaigns: append([]models.Campaign(nil), campaigns...),
		LoadedAt:  at,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
	s.runs++
}

// Snapshot returns the current dataset and whether one was ever loaded.
// The returned value must be treated as read-only.
func (s *MemoryStore) Snapshot() (models.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ds == nil {
		return models.Dataset{}, false
	}
	return *s.ds, true
}

func (s *MemoryStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds != nil
}

func (s *MemoryStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ds == nil {
		return time.Time{}
	}
	return s.ds.LoadedAt
}

// Loads counts successful replacements since start.
func (s *MemoryStore) Loads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs
}
