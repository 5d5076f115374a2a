package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/twinvillage/planner/internal/sqlite"
)

func newAdminTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, applyMigrations(db))
	return db
}

func writeHouseFile(t *testing.T, docs []map[string]any) string {
	t.Helper()
	data, err := json.Marshal(docs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "houses.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunImportHouses(t *testing.T) {
	db := newAdminTestDB(t)
	ctx := context.Background()

	path := writeHouseFile(t, []map[string]any{
		{"houseId": "H1", "latitude": 15.84, "longitude": 74.49, "residents": 4},
		{"houseId": "H2", "lat": 15.85, "long": 74.50},
		{"residents": 9}, // no houseId, skipped
	})

	require.NoError(t, runImportHouses(ctx, db, []string{path}, slog.Default()))

	all, err := sqlite.NewHouseRepository(db).All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestRunImportHouses_BadInput(t *testing.T) {
	db := newAdminTestDB(t)
	ctx := context.Background()

	require.Error(t, runImportHouses(ctx, db, nil, slog.Default()))
	require.Error(t, runImportHouses(ctx, db, []string{"/nonexistent.json"}, slog.Default()))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	require.Error(t, runImportHouses(ctx, db, []string{path}, slog.Default()))
}

func TestRunCreateUser(t *testing.T) {
	db := newAdminTestDB(t)
	ctx := context.Background()

	require.NoError(t, runCreateUser(ctx, db,
		[]string{"-id", "u1", "-email", "owner@example.com", "-token", "secret"}, slog.Default()))

	id, err := sqlite.NewUserRepository(db).ResolveToken(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, "u1", id.ID)
	require.Equal(t, "owner@example.com", id.Email)

	// Duplicate email is rejected by the store.
	err = runCreateUser(ctx, db,
		[]string{"-email", "owner@example.com"}, slog.Default())
	require.Error(t, err)
}

func TestRunCreateUser_RequiresEmail(t *testing.T) {
	db := newAdminTestDB(t)
	require.Error(t, runCreateUser(context.Background(), db, nil, slog.Default()))
}
