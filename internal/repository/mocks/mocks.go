// Package mocks provides hand-written testify mocks for the domain
// repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/twinvillage/planner/internal/domain/access"
	"github.com/twinvillage/planner/internal/domain/house"
	"github.com/twinvillage/planner/internal/domain/plan"
	"github.com/twinvillage/planner/internal/domain/registry"
)

// PlanRepository is a mock for plan.Repository.
type PlanRepository struct {
	mock.Mock
}

func (m *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PlanRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*plan.Plan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PlanRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PlanRepository) ListByOwner(ctx context.Context, userID string) ([]plan.Plan, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]plan.Plan); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlanRepository) ListSharedWith(ctx context.Context, email string) ([]plan.Plan, error) {
	args := m.Called(ctx, email)
	if list, ok := args.Get(0).([]plan.Plan); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlanRepository) SetCollaborators(ctx context.Context, id string, collaborators []string, modified time.Time) error {
	args := m.Called(ctx, id, collaborators, modified)
	return args.Error(0)
}

func (m *PlanRepository) SetVisibility(ctx context.Context, id string, public bool, modified time.Time) error {
	args := m.Called(ctx, id, public, modified)
	return args.Error(0)
}

// RegistryRepository is a mock for registry.Repository.
type RegistryRepository struct {
	mock.Mock
}

func (m *RegistryRepository) Create(ctx context.Context, r *registry.Registry) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RegistryRepository) Get(ctx context.Context, id string) (*registry.Registry, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*registry.Registry); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RegistryRepository) SetData(ctx context.Context, id string, data []map[string]any, modified time.Time) error {
	args := m.Called(ctx, id, data, modified)
	return args.Error(0)
}

func (m *RegistryRepository) SetCollaborators(ctx context.Context, id string, collaborators []string, modified time.Time) error {
	args := m.Called(ctx, id, collaborators, modified)
	return args.Error(0)
}

func (m *RegistryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RegistryRepository) ListByOwner(ctx context.Context, userID string) ([]registry.Registry, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]registry.Registry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RegistryRepository) ListSharedWith(ctx context.Context, email string) ([]registry.Registry, error) {
	args := m.Called(ctx, email)
	if list, ok := args.Get(0).([]registry.Registry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// PublicHouseRepository is a mock for registry.PublicHouseRepository.
type PublicHouseRepository struct {
	mock.Mock
}

func (m *PublicHouseRepository) All(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]map[string]any); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// HouseSource is a mock for plan.HouseSource.
type HouseSource struct {
	mock.Mock
}

func (m *HouseSource) MergedHouses(ctx context.Context, id access.Identity) ([]house.House, error) {
	args := m.Called(ctx, id)
	if list, ok := args.Get(0).([]house.House); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
