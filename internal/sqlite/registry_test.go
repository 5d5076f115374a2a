package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/twinvillage/planner/internal/domain/registry"
	"github.com/twinvillage/planner/internal/repository"
)

func testRegistry(id string) *registry.Registry {
	now := time.Now().UTC().Truncate(time.Second)
	return &registry.Registry{
		ID:            id,
		Name:          "Belgaum census",
		UserID:        "u1",
		UserEmail:     "owner@example.com",
		Collaborators: []string{},
		Data: []map[string]any{
			{"houseId": "H1", "lat": 15.84, "long": 74.49, "residents": float64(4)},
			{"houseId": "H2", "latitude": 15.85, "longitude": 74.50, "students": float64(2)},
		},
		CreatedAt:    now,
		LastModified: now,
	}
}

func TestRegistryRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRegistryRepository(db)
	ctx := context.Background()

	reg := testRegistry("r1")
	require.NoError(t, repo.Create(ctx, reg))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, "Belgaum census", got.Name)
	require.Len(t, got.Data, 2)
	// Raw field names survive storage.
	require.Equal(t, 15.84, got.Data[0]["lat"])
	require.Equal(t, 15.85, got.Data[1]["latitude"])
}

func TestRegistryRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRegistryRepository(db)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegistryRepository_SetData(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRegistryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testRegistry("r1")))

	modified := time.Now().UTC().Truncate(time.Second).Add(time.Minute)
	newData := []map[string]any{{"houseId": "H9", "lat": 1.0, "long": 2.0}}
	require.NoError(t, repo.SetData(ctx, "r1", newData, modified))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	require.Equal(t, "H9", got.Data[0]["houseId"])

	require.ErrorIs(t, repo.SetData(ctx, "missing", newData, modified), repository.ErrNotFound)
}

func TestRegistryRepository_ListByOwnerAndSharedWith(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRegistryRepository(db)
	ctx := context.Background()

	owned := testRegistry("r1")
	shared := testRegistry("r2")
	shared.UserID = "u2"
	shared.UserEmail = "other@example.com"
	shared.Collaborators = []string{"owner@example.com"}

	require.NoError(t, repo.Create(ctx, owned))
	require.NoError(t, repo.Create(ctx, shared))

	got, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "r1", got[0].ID)

	got, err = repo.ListSharedWith(ctx, "owner@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "r2", got[0].ID)
}

func TestRegistryRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRegistryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testRegistry("r1")))
	require.NoError(t, repo.Delete(ctx, "r1"))
	require.ErrorIs(t, repo.Delete(ctx, "r1"), repository.ErrNotFound)
}
