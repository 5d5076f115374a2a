package plan

import (
	"context"
	"time"

	"github.com/twinvillage/planner/internal/domain/access"
	"github.com/twinvillage/planner/internal/domain/house"
)

// Repository provides persistence for plans.
type Repository interface {
	Create(ctx context.Context, p *Plan) error
	Get(ctx context.Context, id string) (*Plan, error)
	Update(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, userID string) ([]Plan, error)
	ListSharedWith(ctx context.Context, email string) ([]Plan, error)
	SetCollaborators(ctx context.Context, id string, collaborators []string, modified time.Time) error
	SetVisibility(ctx context.Context, id string, public bool, modified time.Time) error
}

// HouseSource supplies the merged house list (public registry plus the
// requester's private registries) used for coverage reports.
type HouseSource interface {
	MergedHouses(ctx context.Context, id access.Identity) ([]house.House, error)
}
