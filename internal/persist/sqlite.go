package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gyxcit/simdecision/internal/layout"
	"github.com/gyxcit/simdecision/internal/model"
)

// SQLiteStore persists snapshots in a SQLite database at .simdec/simdec.db.
// Every save appends a row, so the table doubles as a snapshot history;
// loads return the most recent row per key.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	key TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_key ON snapshots(key, id DESC);
`

// NewSQLiteStore creates a SQLiteStore rooted at projectRoot.
func NewSQLiteStore(projectRoot string) (*SQLiteStore, error) {
	dataDir := filepath.Join(projectRoot, DataDirName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", DataDirName, err)
	}

	dbPath := filepath.Join(dataDir, "simdec.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if _, err := db.ExecContext(context.Background(), snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveModel appends a model snapshot row.
func (s *SQLiteStore) SaveModel(ctx context.Context, m *model.SystemModel) error {
	return s.save(ctx, KeyModel, m)
}

// LoadModel returns the latest model snapshot. Returns (nil, nil) when the
// history is empty.
func (s *SQLiteStore) LoadModel(ctx context.Context) (*model.SystemModel, error) {
	payload, err := s.loadLatest(ctx, KeyModel)
	if err != nil || payload == nil {
		return nil, err
	}
	m, err := model.DecodeJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("parsing model snapshot: %w", err)
	}
	return m, nil
}

// SaveRenderState appends a render-state snapshot row.
func (s *SQLiteStore) SaveRenderState(ctx context.Context, cache *layout.Cache) error {
	return s.save(ctx, KeyRender, cache)
}

// LoadRenderState returns the latest render-state snapshot. Returns
// (nil, nil) when the history is empty.
func (s *SQLiteStore) LoadRenderState(ctx context.Context) (*layout.Cache, error) {
	payload, err := s.loadLatest(ctx, KeyRender)
	if err != nil || payload == nil {
		return nil, err
	}
	var cache layout.Cache
	if err := json.Unmarshal(payload, &cache); err != nil {
		return nil, fmt.Errorf("parsing render snapshot: %w", err)
	}
	cache.Normalize()
	return &cache, nil
}

func (s *SQLiteStore) save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, payload, created_at) VALUES (?, ?, ?)`,
		key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadLatest(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE key = ? ORDER BY id DESC LIMIT 1`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	return []byte(payload), nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
