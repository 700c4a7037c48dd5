package httpform

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/goliatone/go-errors"
)

// Store keeps the last accepted values of a record. The previous values are
// what password controls fall back to when left blank on resubmission.
type Store interface {
	// Load returns the stored values. Unknown records return an empty map
	// and no error.
	Load(ctx context.Context, form, record string) (map[string]any, error)
	// Save stores values under record and returns the record key. An empty
	// record asks the store to allocate one.
	Save(ctx context.Context, form, record string, values map[string]any) (string, error)
}

// MemoryStore is a Store backed by a map, safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]map[string]any
	next    int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) Load(ctx context.Context, form, record string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.records[form][record]), nil
}

func (s *MemoryStore) Save(ctx context.Context, form, record string, values map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if form == "" {
		return "", errors.New("form name is required", errors.CategoryBadInput).
			WithTextCode("STORE_FORM_REQUIRED")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record == "" {
		s.next++
		record = strconv.Itoa(s.next)
	}
	if s.records[form] == nil {
		s.records[form] = make(map[string]map[string]any)
	}
	s.records[form][record] = maps.Clone(values)
	return record, nil
}

// Records lists the record keys stored for form, sorted.
func (s *MemoryStore) Records(form string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.records[form]))
	for key := range s.records[form] {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
