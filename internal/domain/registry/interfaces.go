package registry

import (
	"context"
	"time"
)

// Repository provides persistence for private registries.
type Repository interface {
	Create(ctx context.Context, r *Registry) error
	Get(ctx context.Context, id string) (*Registry, error)
	SetData(ctx context.Context, id string, data []map[string]any, modified time.Time) error
	SetCollaborators(ctx context.Context, id string, collaborators []string, modified time.Time) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, userID string) ([]Registry, error)
	ListSharedWith(ctx context.Context, email string) ([]Registry, error)
}

// PublicHouseRepository reads the shared public house registry. The
// read is unfiltered; every caller sees the same records.
type PublicHouseRepository interface {
	All(ctx context.Context) ([]map[string]any, error)
}
