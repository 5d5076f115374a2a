package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twinvillage/planner/internal/domain/access"
	"github.com/twinvillage/planner/internal/domain/resource"
	"github.com/twinvillage/planner/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service handles plan operations.
type Service struct {
	repo   Repository
	houses HouseSource
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new plan service.
func NewService(repo Repository, houses HouseSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, houses: houses, logger: logger, now: time.Now}
}

// SaveRequest defines plan save inputs. An empty ID creates a new
// plan; otherwise the existing plan is overwritten wholesale.
type SaveRequest struct {
	ID        string              `json:"id,omitempty"`
	Name      string              `json:"planName"`
	Center    resource.Position   `json:"center"`
	Resources []resource.Resource `json:"resources"`
	Status    string              `json:"status,omitempty"`
}

// Save creates or updates a plan. Updates replace the resource list
// wholesale and refresh LastModified; concurrent saves are
// last-write-wins with no conflict detection.
func (s *Service) Save(ctx context.Context, id access.Identity, req SaveRequest) (*Plan, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	for _, res := range req.Resources {
		if !res.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown resource type %q", ErrInvalidInput, res.Type)
		}
	}

	now := s.now()

	if req.ID == "" {
		p := &Plan{
			ID:            uuid.NewString(),
			Name:          req.Name,
			Center:        req.Center,
			Resources:     req.Resources,
			Status:        req.Status,
			UserID:        id.ID,
			UserEmail:     id.Email,
			Collaborators: []string{},
			CreatedAt:     now,
			LastModified:  now,
		}
		if p.Status == "" {
			p.Status = StatusDraft
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("creating plan: %w", err)
		}
		s.logger.Info("plan created", "plan", p.ID, "owner", p.UserID)
		return p, nil
	}

	existing, err := s.getChecked(ctx, id, req.ID)
	if err != nil {
		return nil, err
	}
	if !access.Resolve(existing.AccessRecord(), id).CanEdit {
		return nil, ErrDenied
	}

	existing.Name = req.Name
	existing.Center = req.Center
	existing.Resources = req.Resources
	if req.Status != "" {
		existing.Status = req.Status
	}
	existing.LastModified = now
	existing.LastModifiedBy = id.ID

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("updating plan: %w", err)
	}
	s.logger.Info("plan updated", "plan", existing.ID, "by", id.ID)
	return existing, nil
}

// Get fetches a plan, enforcing view access. Private plans are denied
// to anonymous and unrelated requesters.
func (s *Service) Get(ctx context.Context, id access.Identity, planID string) (*Plan, error) {
	return s.getChecked(ctx, id, planID)
}

// Role resolves the requester's relationship to a plan.
func (s *Service) Role(ctx context.Context, id access.Identity, planID string) (access.Role, error) {
	p, err := s.getChecked(ctx, id, planID)
	if err != nil {
		return access.Role{}, err
	}
	return access.Resolve(p.AccessRecord(), id), nil
}

// List returns the requester's own plans followed by plans shared with
// them, de-duplicated by plan ID.
func (s *Service) List(ctx context.Context, id access.Identity) ([]ListEntry, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}

	owned, err := s.repo.ListByOwner(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("listing owned plans: %w", err)
	}
	shared, err := s.repo.ListSharedWith(ctx, id.Email)
	if err != nil {
		return nil, fmt.Errorf("listing shared plans: %w", err)
	}

	seen := make(map[string]struct{}, len(owned))
	entries := make([]ListEntry, 0, len(owned)+len(shared))
	for _, p := range owned {
		seen[p.ID] = struct{}{}
		entries = append(entries, ListEntry{Plan: p, IsOwner: true})
	}
	for _, p := range shared {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		entries = append(entries, ListEntry{Plan: p, IsOwner: false})
	}
	return entries, nil
}

// Stats counts the requester's accessible plans.
func (s *Service) Stats(ctx context.Context, id access.Identity) (Stats, error) {
	entries, err := s.List(ctx, id)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(entries)}
	for _, e := range entries {
		if e.Status == StatusCompleted {
			st.Completed++
		}
	}
	return st, nil
}

// Delete removes a plan. Owner only.
func (s *Service) Delete(ctx context.Context, id access.Identity, planID string) error {
	p, err := s.getChecked(ctx, id, planID)
	if err != nil {
		return err
	}
	if !access.Resolve(p.AccessRecord(), id).IsOwner {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, planID); err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	s.logger.Info("plan deleted", "plan", planID, "owner", id.ID)
	return nil
}

// AddCollaborator grants edit access to an email address. Owner only.
// The owner's own email and duplicates are rejected, so the stored
// collaborator list never contains the owner.
func (s *Service) AddCollaborator(ctx context.Context, id access.Identity, planID, email string) (*Plan, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	p, err := s.getChecked(ctx, id, planID)
	if err != nil {
		return nil, err
	}
	if !access.Resolve(p.AccessRecord(), id).IsOwner {
		return nil, ErrNotOwner
	}
	if p.UserEmail == email {
		return nil, ErrSelfShare
	}
	for _, c := range p.Collaborators {
		if c == email {
			return nil, ErrAlreadyCollaborator
		}
	}

	p.Collaborators = append(p.Collaborators, email)
	p.LastModified = s.now()
	if err := s.repo.SetCollaborators(ctx, planID, p.Collaborators, p.LastModified); err != nil {
		return nil, fmt.Errorf("adding collaborator: %w", err)
	}
	s.logger.Info("collaborator added", "plan", planID, "email", email)
	return p, nil
}

// RemoveCollaborator revokes a collaborator's access. Owner only.
func (s *Service) RemoveCollaborator(ctx context.Context, id access.Identity, planID, email string) (*Plan, error) {
	p, err := s.getChecked(ctx, id, planID)
	if err != nil {
		return nil, err
	}
	if !access.Resolve(p.AccessRecord(), id).IsOwner {
		return nil, ErrNotOwner
	}

	kept := p.Collaborators[:0:0]
	found := false
	for _, c := range p.Collaborators {
		if c == email {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return nil, ErrNotCollaborator
	}
	if kept == nil {
		kept = []string{}
	}

	p.Collaborators = kept
	p.LastModified = s.now()
	if err := s.repo.SetCollaborators(ctx, planID, p.Collaborators, p.LastModified); err != nil {
		return nil, fmt.Errorf("removing collaborator: %w", err)
	}
	s.logger.Info("collaborator removed", "plan", planID, "email", email)
	return p, nil
}

// SetVisibility toggles the world-viewable flag. Owner only.
func (s *Service) SetVisibility(ctx context.Context, id access.Identity, planID string, public bool) (*Plan, error) {
	p, err := s.getChecked(ctx, id, planID)
	if err != nil {
		return nil, err
	}
	if !access.Resolve(p.AccessRecord(), id).IsOwner {
		return nil, ErrNotOwner
	}

	p.IsPublic = public
	p.LastModified = s.now()
	if err := s.repo.SetVisibility(ctx, planID, public, p.LastModified); err != nil {
		return nil, fmt.Errorf("setting visibility: %w", err)
	}
	s.logger.Info("plan visibility changed", "plan", planID, "public", public)
	return p, nil
}

func (s *Service) getChecked(ctx context.Context, id access.Identity, planID string) (*Plan, error) {
	p, err := s.repo.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting plan: %w", err)
	}
	if !access.CanAccess(p.AccessRecord(), id) {
		return nil, ErrDenied
	}
	return p, nil
}
