package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/twinvillage/planner/internal/domain/plan"
	"github.com/twinvillage/planner/internal/domain/registry"
	"github.com/twinvillage/planner/internal/domain/session"
)

// Server wires HTTP handlers for the planning API.
type Server struct {
	plans      *plan.Service
	registries *registry.Service
	logger     *slog.Logger
}

// NewServer creates the router with identity, CORS, and activity
// middleware. The browser UI is the primary consumer, hence the
// permissive CORS policy.
func NewServer(plans *plan.Service, registries *registry.Service, resolver IdentityResolver, tracker *session.Tracker, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{plans: plans, registries: registries, logger: logger}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(IdentityMiddleware(resolver))
	r.Use(ActivityMiddleware(tracker))

	r.Get("/health", srv.handleHealth)

	r.Route("/plans", func(r chi.Router) {
		r.Get("/", srv.handleListPlans)
		r.Post("/", srv.handleCreatePlan)
		r.Get("/stats", srv.handlePlanStats)
		r.Route("/{planID}", func(r chi.Router) {
			r.Get("/", srv.handleGetPlan)
			r.Put("/", srv.handleUpdatePlan)
			r.Delete("/", srv.handleDeletePlan)
			r.Get("/role", srv.handlePlanRole)
			r.Get("/report", srv.handlePlanReport)
			r.Post("/collaborators", srv.handleAddCollaborator)
			r.Delete("/collaborators", srv.handleRemoveCollaborator)
			r.Put("/visibility", srv.handleSetVisibility)
		})
	})

	r.Route("/registries", func(r chi.Router) {
		r.Get("/", srv.handleListRegistries)
		r.Post("/", srv.handleCreateRegistry)
		r.Route("/{registryID}", func(r chi.Router) {
			r.Get("/", srv.handleGetRegistry)
			r.Delete("/", srv.handleDeleteRegistry)
			r.Post("/records", srv.handleAddRecord)
			r.Put("/records/{recordID}", srv.handleUpdateRecord)
			r.Delete("/records/{recordID}", srv.handleRemoveRecord)
			r.Post("/collaborators", srv.handleShareRegistry)
			r.Delete("/collaborators", srv.handleUnshareRegistry)
		})
	})

	r.Get("/houses", srv.handleMergedHouses)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	entries, err := s.plans.List(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req plan.SaveRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.ID = ""

	p, err := s.plans.Save(r.Context(), IdentityFromContext(r.Context()), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePlanStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.plans.Stats(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.plans.Get(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "planID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req plan.SaveRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "planID")

	p, err := s.plans.Save(r.Context(), IdentityFromContext(r.Context()), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	err := s.plans.Delete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "planID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlanRole(w http.ResponseWriter, r *http.Request) {
	role, err := s.plans.Role(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "planID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, role)
}

func (s *Server) handlePlanReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.plans.Report(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "planID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

type emailRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, err := s.plans.AddCollaborator(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "planID"), req.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, err := s.plans.RemoveCollaborator(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "planID"), req.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSetVisibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsPublic bool `json:"isPublic"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	p, err := s.plans.SetVisibility(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "planID"), req.IsPublic)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListRegistries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.registries.List(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateRegistry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string           `json:"name"`
		Data []map[string]any `json:"data"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	reg, err := s.registries.Create(r.Context(), IdentityFromContext(r.Context()), req.Name, req.Data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, reg)
}

func (s *Server) handleGetRegistry(w http.ResponseWriter, r *http.Request) {
	reg, err := s.registries.Get(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "registryID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleDeleteRegistry(w http.ResponseWriter, r *http.Request) {
	err := s.registries.Delete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "registryID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var record map[string]any
	if !s.decode(w, r, &record) {
		return
	}

	reg, err := s.registries.AddRecord(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "registryID"), record)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if !s.decode(w, r, &fields) {
		return
	}

	reg, err := s.registries.UpdateRecord(r.Context(), IdentityFromContext(r.Context()),
		chi.URLParam(r, "registryID"), chi.URLParam(r, "recordID"), fields)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleRemoveRecord(w http.ResponseWriter, r *http.Request) {
	reg, err := s.registries.RemoveRecord(r.Context(), IdentityFromContext(r.Context()),
		chi.URLParam(r, "registryID"), chi.URLParam(r, "recordID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleShareRegistry(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decode(w, r, &req) {
		return
	}

	reg, err := s.registries.Share(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "registryID"), req.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleUnshareRegistry(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decode(w, r, &req) {
		return
	}

	reg, err := s.registries.Unshare(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "registryID"), req.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleMergedHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := s.registries.MergedHouses(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, houses)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, plan.ErrUnauthenticated), errors.Is(err, registry.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, plan.ErrDenied), errors.Is(err, plan.ErrNotOwner), errors.Is(err, registry.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, plan.ErrNotFound), errors.Is(err, registry.ErrNotFound), errors.Is(err, registry.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, plan.ErrInvalidInput), errors.Is(err, plan.ErrInvalidEmail),
		errors.Is(err, plan.ErrAlreadyCollaborator), errors.Is(err, plan.ErrSelfShare),
		errors.Is(err, plan.ErrNotCollaborator), errors.Is(err, registry.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}
