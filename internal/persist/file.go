package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gyxcit/simdecision/internal/layout"
	"github.com/gyxcit/simdecision/internal/model"
)

// DataDirName is the per-project state directory.
const DataDirName = ".simdec"

// DataDir returns the per-project state directory under projectRoot.
func DataDir(projectRoot string) string {
	return filepath.Join(projectRoot, DataDirName)
}

// FileStore persists snapshots as JSON files under <root>/.simdec/.
// Thread-safe for concurrent access.
type FileStore struct {
	mu         sync.Mutex
	dataDir    string
	modelFile  string
	renderFile string
}

// NewFileStore creates a FileStore rooted at projectRoot, creating the
// .simdec directory if needed.
func NewFileStore(projectRoot string) (*FileStore, error) {
	dataDir := filepath.Join(projectRoot, DataDirName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", DataDirName, err)
	}
	return &FileStore{
		dataDir:    dataDir,
		modelFile:  filepath.Join(dataDir, KeyModel+".json"),
		renderFile: filepath.Join(dataDir, KeyRender+".json"),
	}, nil
}

// SaveModel overwrites the model snapshot.
func (s *FileStore) SaveModel(ctx context.Context, m *model.SystemModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.modelFile, m)
}

// LoadModel reads the model snapshot. Returns (nil, nil) when absent.
func (s *FileStore) LoadModel(ctx context.Context) (*model.SystemModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.modelFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading model snapshot: %w", err)
	}
	m, err := model.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing model snapshot: %w", err)
	}
	return m, nil
}

// SaveRenderState overwrites the render-state snapshot.
func (s *FileStore) SaveRenderState(ctx context.Context, cache *layout.Cache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.renderFile, cache)
}

// LoadRenderState reads the render-state snapshot. Returns (nil, nil) when
// absent.
func (s *FileStore) LoadRenderState(ctx context.Context) (*layout.Cache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.renderFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading render snapshot: %w", err)
	}
	var cache layout.Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing render snapshot: %w", err)
	}
	cache.Normalize()
	return &cache, nil
}

// Close is a no-op for file storage.
func (s *FileStore) Close() error {
	return nil
}

// writeJSON writes v atomically: to a temp file first, then rename.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
