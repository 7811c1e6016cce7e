// Package persist provides durable storage for whole-model and whole-render-
// state snapshots. Storage is a best-effort cache, not a source of truth
// during a session: snapshots are loaded once at startup and overwritten on
// every successful mutation, with no versioning or migration logic.
package persist

import (
	"context"

	"github.com/gyxcit/simdecision/internal/layout"
	"github.com/gyxcit/simdecision/internal/model"
)

// Fixed snapshot keys.
const (
	KeyModel  = "model"
	KeyRender = "render"
)

// Store persists model and render-state snapshots under fixed keys.
// Load methods return (nil, nil) when no snapshot exists.
type Store interface {
	SaveModel(ctx context.Context, m *model.SystemModel) error
	LoadModel(ctx context.Context) (*model.SystemModel, error)

	SaveRenderState(ctx context.Context, cache *layout.Cache) error
	LoadRenderState(ctx context.Context) (*layout.Cache, error)

	Close() error
}
