package sessions

import (
	"sync"
	"time"
)

// InMemorySessionRepo is an in-memory implementation of Repo. Records are
// stored by value, so callers never share mutable state with the store.
type InMemorySessionRepo struct {
	mu      sync.RWMutex
	records map[string]Record
}

var _ Repo = (*InMemorySessionRepo)(nil)

// NewInMemorySessionRepo creates a new in-memory session repository.
func NewInMemorySessionRepo() *InMemorySessionRepo {
	return &InMemorySessionRepo{
		records: make(map[string]Record),
	}
}

// Get retrieves the record for key.
func (r *InMemorySessionRepo) Get(key string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[key]
	return rec, ok
}

// Put inserts or overwrites the record for key.
func (r *InMemorySessionRepo) Put(key string, rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[key] = rec
}

// Remove deletes the record for key if it exists.
func (r *InMemorySessionRepo) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, key)
}

// Clear removes all records and returns how many were held.
func (r *InMemorySessionRepo) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.records)
	r.records = make(map[string]Record)
	return n
}

// Sweep removes records idle for longer than maxIdle and returns the count.
func (r *InMemorySessionRepo) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for key, rec := range r.records {
		if rec.LastActivity.Before(cutoff) {
			delete(r.records, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of records currently held.
func (r *InMemorySessionRepo) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}

// All returns a snapshot of every record.
func (r *InMemorySessionRepo) All() []KeyedRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]KeyedRecord, 0, len(r.records))
	for key, rec := range r.records {
		out = append(out, KeyedRecord{Key: key, Record: rec})
	}
	return out
}
