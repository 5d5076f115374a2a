package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/twinvillage/planner/internal/domain/plan"
	"github.com/twinvillage/planner/internal/domain/registry"
	"github.com/twinvillage/planner/internal/domain/resource"
	"github.com/twinvillage/planner/internal/sqlite"
)

type testEnv struct {
	router *chi.Mux
	users  *sqlite.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	users := sqlite.NewUserRepository(db)
	registries := registry.NewService(sqlite.NewRegistryRepository(db), sqlite.NewHouseRepository(db), nil)
	plans := plan.NewService(sqlite.NewPlanRepository(db), registries, nil)

	return &testEnv{
		router: NewServer(plans, registries, users, nil, nil),
		users:  users,
	}
}

func (e *testEnv) addUser(t *testing.T, id, email, token string) {
	t.Helper()
	require.NoError(t, e.users.CreateUser(context.Background(),
		identity(id, email), token))
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPlanLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "owner@example.com", "tok-owner")

	create := env.do(t, http.MethodPost, "/plans", "tok-owner", plan.SaveRequest{
		Name:   "Riverside",
		Center: resource.Position{Lat: 15.84, Lng: 74.49},
		Resources: []resource.Resource{
			{Type: resource.TypeSchool, Name: "School 1", Position: &resource.Position{Lat: 15.84, Lng: 74.49}, Radius: 800},
		},
	})
	require.Equal(t, http.StatusCreated, create.Code)
	created := decodeInto[plan.Plan](t, create)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "draft", created.Status)

	get := env.do(t, http.MethodGet, "/plans/"+created.ID, "tok-owner", nil)
	require.Equal(t, http.StatusOK, get.Code)
	fetched := decodeInto[plan.Plan](t, get)
	require.Equal(t, "Riverside", fetched.Name)
	require.Len(t, fetched.Resources, 1)

	update := env.do(t, http.MethodPut, "/plans/"+created.ID, "tok-owner", plan.SaveRequest{
		Name:   "Riverside North",
		Status: "completed",
	})
	require.Equal(t, http.StatusOK, update.Code)
	updated := decodeInto[plan.Plan](t, update)
	require.Equal(t, "Riverside North", updated.Name)
	require.Equal(t, "completed", updated.Status)

	list := env.do(t, http.MethodGet, "/plans", "tok-owner", nil)
	require.Equal(t, http.StatusOK, list.Code)
	entries := decodeInto[[]plan.ListEntry](t, list)
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsOwner)

	stats := env.do(t, http.MethodGet, "/plans/stats", "tok-owner", nil)
	require.Equal(t, http.StatusOK, stats.Code)
	st := decodeInto[plan.Stats](t, stats)
	require.Equal(t, 1, st.Total)
	require.Equal(t, 1, st.Completed)

	del := env.do(t, http.MethodDelete, "/plans/"+created.ID, "tok-owner", nil)
	require.Equal(t, http.StatusNoContent, del.Code)

	gone := env.do(t, http.MethodGet, "/plans/"+created.ID, "tok-owner", nil)
	require.Equal(t, http.StatusNotFound, gone.Code)
}

func TestPlanAccessControl(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "owner@example.com", "tok-owner")
	env.addUser(t, "u2", "friend@example.com", "tok-friend")
	env.addUser(t, "u3", "stranger@example.com", "tok-stranger")

	create := env.do(t, http.MethodPost, "/plans", "tok-owner", plan.SaveRequest{Name: "Private"})
	require.Equal(t, http.StatusCreated, create.Code)
	p := decodeInto[plan.Plan](t, create)

	// Private: anonymous and unrelated users are shut out.
	require.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/plans/"+p.ID, "", nil).Code)
	require.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/plans/"+p.ID, "tok-stranger", nil).Code)

	// Share with the friend; they gain read access.
	share := env.do(t, http.MethodPost, "/plans/"+p.ID+"/collaborators", "tok-owner",
		map[string]string{"email": "friend@example.com"})
	require.Equal(t, http.StatusOK, share.Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/plans/"+p.ID, "tok-friend", nil).Code)

	// Collaborators cannot manage sharing or delete.
	require.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/plans/"+p.ID+"/collaborators", "tok-friend",
		map[string]string{"email": "stranger@example.com"}).Code)
	require.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, "/plans/"+p.ID, "tok-friend", nil).Code)

	// Public: everyone can view, anonymous included.
	vis := env.do(t, http.MethodPut, "/plans/"+p.ID+"/visibility", "tok-owner",
		map[string]bool{"isPublic": true})
	require.Equal(t, http.StatusOK, vis.Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/plans/"+p.ID, "", nil).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/plans/"+p.ID, "tok-stranger", nil).Code)

	// Unshare removes the friend's special access; plan is still public.
	unshare := env.do(t, http.MethodDelete, "/plans/"+p.ID+"/collaborators", "tok-owner",
		map[string]string{"email": "friend@example.com"})
	require.Equal(t, http.StatusOK, unshare.Code)
	updated := decodeInto[plan.Plan](t, unshare)
	require.Empty(t, updated.Collaborators)
}

func TestPlanCollaboratorValidation(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "owner@example.com", "tok-owner")

	create := env.do(t, http.MethodPost, "/plans", "tok-owner", plan.SaveRequest{Name: "P"})
	p := decodeInto[plan.Plan](t, create)

	cases := []struct {
		name  string
		email string
	}{
		{"malformed", "not-an-email"},
		{"self", "owner@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/plans/"+p.ID+"/collaborators", "tok-owner",
				map[string]string{"email": tc.email})
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	// Adding twice is rejected.
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/plans/"+p.ID+"/collaborators", "tok-owner",
		map[string]string{"email": "friend@example.com"}).Code)
	require.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/plans/"+p.ID+"/collaborators", "tok-owner",
		map[string]string{"email": "friend@example.com"}).Code)
}

func TestCreatePlanRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/plans", "", plan.SaveRequest{Name: "P"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegistryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "owner@example.com", "tok-owner")

	create := env.do(t, http.MethodPost, "/registries", "tok-owner", map[string]any{
		"name": "Ward 3 survey",
		"data": []map[string]any{
			{"houseId": "H1", "lat": 15.84, "long": 74.49, "residents": 4},
		},
	})
	require.Equal(t, http.StatusCreated, create.Code)
	reg := decodeInto[registry.Registry](t, create)
	require.NotEmpty(t, reg.ID)

	add := env.do(t, http.MethodPost, fmt.Sprintf("/registries/%s/records", reg.ID), "tok-owner",
		map[string]any{"houseId": "H2", "lat": 15.85, "long": 74.50, "residents": 6})
	require.Equal(t, http.StatusOK, add.Code)
	afterAdd := decodeInto[registry.Registry](t, add)
	require.Len(t, afterAdd.Data, 2)

	upd := env.do(t, http.MethodPut, fmt.Sprintf("/registries/%s/records/H2", reg.ID), "tok-owner",
		map[string]any{"residents": 8})
	require.Equal(t, http.StatusOK, upd.Code)

	rm := env.do(t, http.MethodDelete, fmt.Sprintf("/registries/%s/records/H1", reg.ID), "tok-owner", nil)
	require.Equal(t, http.StatusOK, rm.Code)
	afterRemove := decodeInto[registry.Registry](t, rm)
	require.Len(t, afterRemove.Data, 1)

	missing := env.do(t, http.MethodDelete, fmt.Sprintf("/registries/%s/records/H999", reg.ID), "tok-owner", nil)
	require.Equal(t, http.StatusNotFound, missing.Code)

	del := env.do(t, http.MethodDelete, "/registries/"+reg.ID, "tok-owner", nil)
	require.Equal(t, http.StatusNoContent, del.Code)
}

func TestRegistryHiddenFromNonMembers(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "owner@example.com", "tok-owner")
	env.addUser(t, "u2", "stranger@example.com", "tok-stranger")

	create := env.do(t, http.MethodPost, "/registries", "tok-owner", map[string]any{"name": "Survey"})
	reg := decodeInto[registry.Registry](t, create)

	// Existence is not revealed to non-members.
	rec := env.do(t, http.MethodGet, "/registries/"+reg.ID, "tok-stranger", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Sharing grants read access but not record mutations.
	share := env.do(t, http.MethodPost, "/registries/"+reg.ID+"/collaborators", "tok-owner",
		map[string]string{"email": "stranger@example.com"})
	require.Equal(t, http.StatusOK, share.Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/registries/"+reg.ID, "tok-stranger", nil).Code)
	require.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/registries/"+reg.ID+"/records", "tok-stranger",
		map[string]any{"houseId": "HX"}).Code)
}

func TestMergedHousesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "owner@example.com", "tok-owner")

	create := env.do(t, http.MethodPost, "/registries", "tok-owner", map[string]any{
		"name": "Survey",
		"data": []map[string]any{
			{"houseId": "H1", "lat": 15.84, "long": 74.49, "residents": 4, "students": 1},
		},
	})
	require.Equal(t, http.StatusCreated, create.Code)

	rec := env.do(t, http.MethodGet, "/houses", "tok-owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	houses := decodeInto[[]map[string]any](t, rec)
	require.Len(t, houses, 1)
}

func TestInvalidJSONBody(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "owner@example.com", "tok-owner")

	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer tok-owner")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
