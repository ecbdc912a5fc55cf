// Package progress stores respondents' partial answer sets between visits.
// #IMPLEMENTATION_DECISION: Key-value abstraction so the session orchestrator does not depend on a backend
package progress

import (
	"context"
	"sync"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// Store is a byte-oriented key-value store. Get returns models.ErrProgressNotFound
// for missing keys; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key returns the storage key of a survey's saved progress
func Key(surveyID string) string {
	return "survey_progress_" + surveyID
}

// MemoryStore keeps progress in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, models.ErrProgressNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes the key
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ Store = (*MemoryStore)(nil)

// scopedStore namespaces every key with a prefix
type scopedStore struct {
	inner  Store
	prefix string
}

// Scoped returns a view of inner whose keys are prefixed with scope.
// One scope stands for one respondent, so two respondents never share a key.
func Scoped(inner Store, scope string) Store {
	return &scopedStore{inner: inner, prefix: scope + ":"}
}

func (s *scopedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
