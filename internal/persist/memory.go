package persist

import (
	"context"
	"sync"

	"github.com/gyxcit/simdecision/internal/layout"
	"github.com/gyxcit/simdecision/internal/model"
)

// MemoryStore implements Store for testing and development. It keeps deep
// copies so callers cannot mutate stored snapshots.
type MemoryStore struct {
	mu     sync.Mutex
	model  *model.SystemModel
	render *layout.Cache

	// SaveErr, when set, is returned by both save methods. Used to test
	// that persistence failures never propagate.
	SaveErr error

	// SaveCount tracks successful model saves.
	SaveCount int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveModel stores a deep copy of the model.
func (s *MemoryStore) SaveModel(ctx context.Context, m *model.SystemModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.model = m.Clone()
	s.SaveCount++
	return nil
}

// LoadModel returns a deep copy of the stored model, or (nil, nil).
func (s *MemoryStore) LoadModel(ctx context.Context) (*model.SystemModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return nil, nil
	}
	return s.model.Clone(), nil
}

// SaveRenderState stores a copy of the cache.
func (s *MemoryStore) SaveRenderState(ctx context.Context, cache *layout.Cache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	cp := layout.NewCache()
	for k, v := range cache.EntitySizes {
		cp.EntitySizes[k] = v
	}
	for k, v := range cache.FreePositions {
		cp.FreePositions[k] = v
	}
	s.render = cp
	return nil
}

// LoadRenderState returns a copy of the stored cache, or (nil, nil).
func (s *MemoryStore) LoadRenderState(ctx context.Context) (*layout.Cache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.render == nil {
		return nil, nil
	}
	cp := layout.NewCache()
	for k, v := range s.render.EntitySizes {
		cp.EntitySizes[k] = v
	}
	for k, v := range s.render.FreePositions {
		cp.FreePositions[k] = v
	}
	return cp, nil
}

// Close is a no-op for in-memory storage.
func (s *MemoryStore) Close() error {
	return nil
}
