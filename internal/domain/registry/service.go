package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twinvillage/planner/internal/domain/access"
	"github.com/twinvillage/planner/internal/domain/house"
	"github.com/twinvillage/planner/internal/repository"
)

// Service handles private registry operations and supplies merged
// house data for coverage computation.
type Service struct {
	repo   Repository
	public PublicHouseRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new registry service.
func NewService(repo Repository, public PublicHouseRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, public: public, logger: logger, now: time.Now}
}

// Create creates a registry from an uploaded JSON array of raw
// records. Records are stored as-is; legacy field names survive.
func (s *Service) Create(ctx context.Context, id access.Identity, name string, data []map[string]any) (*Registry, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	if data == nil {
		data = []map[string]any{}
	}

	now := s.now()
	r := &Registry{
		ID:            uuid.NewString(),
		Name:          name,
		UserID:        id.ID,
		UserEmail:     id.Email,
		Collaborators: []string{},
		Data:          data,
		CreatedAt:     now,
		LastModified:  now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating registry: %w", err)
	}
	s.logger.Info("registry created", "registry", r.ID, "owner", r.UserID, "records", len(data))
	return r, nil
}

// Get fetches a registry the requester owns or has been granted read
// access to.
func (s *Service) Get(ctx context.Context, id access.Identity, registryID string) (*Registry, error) {
	return s.getChecked(ctx, id, registryID)
}

// List returns registries owned by the requester followed by those
// shared with them.
func (s *Service) List(ctx context.Context, id access.Identity) ([]ListEntry, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}

	owned, err := s.repo.ListByOwner(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("listing owned registries: %w", err)
	}
	shared, err := s.repo.ListSharedWith(ctx, id.Email)
	if err != nil {
		return nil, fmt.Errorf("listing shared registries: %w", err)
	}

	entries := make([]ListEntry, 0, len(owned)+len(shared))
	for _, r := range owned {
		entries = append(entries, ListEntry{Registry: r, IsOwner: true})
	}
	for _, r := range shared {
		entries = append(entries, ListEntry{Registry: r, IsOwner: false})
	}
	return entries, nil
}

// Delete removes a registry. Owner only.
func (s *Service) Delete(ctx context.Context, id access.Identity, registryID string) error {
	r, err := s.getChecked(ctx, id, registryID)
	if err != nil {
		return err
	}
	if !access.Resolve(r.AccessRecord(), id).IsOwner {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, registryID); err != nil {
		return fmt.Errorf("deleting registry: %w", err)
	}
	s.logger.Info("registry deleted", "registry", registryID, "owner", id.ID)
	return nil
}

// AddRecord appends a raw record to a registry, generating a
// timestamp-based house ID when the record has none. The whole data
// array is rewritten. Owner only.
func (s *Service) AddRecord(ctx context.Context, id access.Identity, registryID string, record map[string]any) (*Registry, error) {
	r, err := s.getOwned(ctx, id, registryID)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, ErrInvalidInput
	}
	if recordID(record) == "" {
		record["houseId"] = fmt.Sprintf("H%d", s.now().UnixMilli())
	}

	r.Data = append(r.Data, record)
	return s.writeData(ctx, r)
}

// UpdateRecord replaces the fields of the record matching the given ID
// and rewrites the whole data array. Owner only.
func (s *Service) UpdateRecord(ctx context.Context, id access.Identity, registryID, recID string, fields map[string]any) (*Registry, error) {
	r, err := s.getOwned(ctx, id, registryID)
	if err != nil {
		return nil, err
	}

	found := false
	for i, rec := range r.Data {
		if recordID(rec) != recID {
			continue
		}
		found = true
		for k, v := range fields {
			r.Data[i][k] = v
		}
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return s.writeData(ctx, r)
}

// RemoveRecord drops the record matching the given ID and rewrites the
// whole data array. Owner only.
func (s *Service) RemoveRecord(ctx context.Context, id access.Identity, registryID, recID string) (*Registry, error) {
	r, err := s.getOwned(ctx, id, registryID)
	if err != nil {
		return nil, err
	}

	kept := make([]map[string]any, 0, len(r.Data))
	for _, rec := range r.Data {
		if recordID(rec) == recID {
			continue
		}
		kept = append(kept, rec)
	}
	if len(kept) == len(r.Data) {
		return nil, ErrRecordNotFound
	}

	r.Data = kept
	return s.writeData(ctx, r)
}

// Share grants read access to an email address. Owner only. The
// owner's own email and duplicates are rejected.
func (s *Service) Share(ctx context.Context, id access.Identity, registryID, email string) (*Registry, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidInput
	}

	r, err := s.getOwned(ctx, id, registryID)
	if err != nil {
		return nil, err
	}
	if r.UserEmail == email {
		return nil, ErrInvalidInput
	}
	for _, c := range r.Collaborators {
		if c == email {
			return r, nil
		}
	}

	r.Collaborators = append(r.Collaborators, email)
	r.LastModified = s.now()
	if err := s.repo.SetCollaborators(ctx, registryID, r.Collaborators, r.LastModified); err != nil {
		return nil, fmt.Errorf("sharing registry: %w", err)
	}
	s.logger.Info("registry shared", "registry", registryID, "email", email)
	return r, nil
}

// Unshare revokes read access from an email address. Owner only.
func (s *Service) Unshare(ctx context.Context, id access.Identity, registryID, email string) (*Registry, error) {
	r, err := s.getOwned(ctx, id, registryID)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(r.Collaborators))
	for _, c := range r.Collaborators {
		if c == email {
			continue
		}
		kept = append(kept, c)
	}

	r.Collaborators = kept
	r.LastModified = s.now()
	if err := s.repo.SetCollaborators(ctx, registryID, r.Collaborators, r.LastModified); err != nil {
		return nil, fmt.Errorf("unsharing registry: %w", err)
	}
	s.logger.Info("registry unshared", "registry", registryID, "email", email)
	return r, nil
}

// AllHouses normalizes every record from registries accessible to the
// requester. Records without resolvable coordinates are dropped.
func (s *Service) AllHouses(ctx context.Context, id access.Identity) ([]house.House, error) {
	entries, err := s.List(ctx, id)
	if err != nil {
		return nil, err
	}

	var houses []house.House
	for _, e := range entries {
		houses = append(houses, house.FromRawAll(e.Data)...)
	}
	return houses, nil
}

// MergedHouses merges the shared public registry (primary) with the
// requester's private registries (secondary), de-duplicating by house
// ID. Anonymous requesters get the public registry only.
func (s *Service) MergedHouses(ctx context.Context, id access.Identity) ([]house.House, error) {
	raw, err := s.public.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading public houses: %w", err)
	}
	public := house.FromRawAll(raw)

	if id.Anonymous() {
		return public, nil
	}

	private, err := s.AllHouses(ctx, id)
	if err != nil {
		return nil, err
	}
	return house.Merge(public, private), nil
}

func (s *Service) writeData(ctx context.Context, r *Registry) (*Registry, error) {
	r.LastModified = s.now()
	if err := s.repo.SetData(ctx, r.ID, r.Data, r.LastModified); err != nil {
		return nil, fmt.Errorf("writing registry data: %w", err)
	}
	return r, nil
}

func (s *Service) getChecked(ctx context.Context, id access.Identity, registryID string) (*Registry, error) {
	r, err := s.repo.Get(ctx, registryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting registry: %w", err)
	}
	if !access.CanAccess(r.AccessRecord(), id) {
		// Hide existence from requesters without access.
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *Service) getOwned(ctx context.Context, id access.Identity, registryID string) (*Registry, error) {
	r, err := s.getChecked(ctx, id, registryID)
	if err != nil {
		return nil, err
	}
	if !access.Resolve(r.AccessRecord(), id).IsOwner {
		return nil, ErrNotOwner
	}
	return r, nil
}

// recordID resolves a record's identity, preferring houseId with a
// legacy id fallback.
func recordID(rec map[string]any) string {
	if v, ok := rec["houseId"].(string); ok && v != "" {
		return v
	}
	if v, ok := rec["id"].(string); ok && v != "" {
		return v
	}
	return ""
}
