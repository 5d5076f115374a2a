package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/twinvillage/planner/internal/domain/plan"
	"github.com/twinvillage/planner/internal/domain/resource"
	"github.com/twinvillage/planner/internal/repository"
)

func testPlan(id string) *plan.Plan {
	now := time.Now().UTC().Truncate(time.Second)
	return &plan.Plan{
		ID:     id,
		Name:   "Belgaum North",
		Center: resource.Position{Lat: 15.8497, Lng: 74.4977},
		Resources: []resource.Resource{
			{
				Type:     resource.TypeSchool,
				Name:     "School 1",
				Position: &resource.Position{Lat: 15.85, Lng: 74.5},
				Radius:   800,
			},
			{Type: resource.TypeHouse, Residents: 4, Students: 2},
		},
		Status:        plan.StatusDraft,
		UserID:        "u1",
		UserEmail:     "owner@example.com",
		Collaborators: []string{},
		CreatedAt:     now,
		LastModified:  now,
	}
}

func TestPlanRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	p := testPlan("p1")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, p.Name, got.Name)
	require.Equal(t, p.Center, got.Center)
	require.Len(t, got.Resources, 2)
	require.Equal(t, resource.TypeSchool, got.Resources[0].Type)
	require.Equal(t, 800.0, got.Resources[0].Radius)
	require.Equal(t, 4, got.Resources[1].Residents)
	require.Empty(t, got.Collaborators)
	require.False(t, got.IsPublic)
}

func TestPlanRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPlanRepository(db)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanRepository_CreateDuplicate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testPlan("p1")))
	require.ErrorIs(t, repo.Create(ctx, testPlan("p1")), repository.ErrDuplicate)
}

func TestPlanRepository_UpdateOverwritesResources(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	p := testPlan("p1")
	require.NoError(t, repo.Create(ctx, p))

	p.Resources = []resource.Resource{{Type: resource.TypeWater, Radius: 500}}
	p.LastModified = p.LastModified.Add(time.Minute)
	p.LastModifiedBy = "u1"
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got.Resources, 1)
	require.Equal(t, resource.TypeWater, got.Resources[0].Type)
	require.Equal(t, "u1", got.LastModifiedBy)
}

func TestPlanRepository_UpdateMissing(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPlanRepository(db)

	err := repo.Update(context.Background(), testPlan("missing"))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testPlan("p1")))
	require.NoError(t, repo.Delete(ctx, "p1"))

	_, err := repo.Get(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, "p1"), repository.ErrNotFound)
}

func TestPlanRepository_ListByOwner(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	p1 := testPlan("p1")
	p2 := testPlan("p2")
	p2.LastModified = p2.LastModified.Add(time.Hour)
	other := testPlan("p3")
	other.UserID = "u2"
	other.UserEmail = "other@example.com"

	require.NoError(t, repo.Create(ctx, p1))
	require.NoError(t, repo.Create(ctx, p2))
	require.NoError(t, repo.Create(ctx, other))

	plans, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	// Most recently modified first.
	require.Equal(t, "p2", plans[0].ID)
	require.Equal(t, "p1", plans[1].ID)
}

func TestPlanRepository_ListSharedWith(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	p := testPlan("p1")
	p.Collaborators = []string{"friend@example.com"}
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Create(ctx, testPlan("p2")))

	shared, err := repo.ListSharedWith(ctx, "friend@example.com")
	require.NoError(t, err)
	require.Len(t, shared, 1)
	require.Equal(t, "p1", shared[0].ID)

	none, err := repo.ListSharedWith(ctx, "stranger@example.com")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestPlanRepository_SetCollaboratorsAndVisibility(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPlanRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testPlan("p1")))

	modified := time.Now().UTC().Truncate(time.Second).Add(time.Minute)
	require.NoError(t, repo.SetCollaborators(ctx, "p1", []string{"a@example.com", "b@example.com"}, modified))
	require.NoError(t, repo.SetVisibility(ctx, "p1", true, modified))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, []string{"a@example.com", "b@example.com"}, got.Collaborators)
	require.True(t, got.IsPublic)
}
