package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twinvillage/planner/internal/domain/registry"
	"github.com/twinvillage/planner/internal/repository"
)

// RegistryRepository implements registry.Repository for SQLite
type RegistryRepository struct {
	db *DB
}

// NewRegistryRepository creates a new RegistryRepository
func NewRegistryRepository(db *DB) *RegistryRepository {
	return &RegistryRepository{db: db}
}

const registryColumns = `id, name, user_id, user_email, collaborators, data,
	created_at, last_modified`

// Create inserts a new registry
func (r *RegistryRepository) Create(ctx context.Context, reg *registry.Registry) error {
	collaborators, data, err := marshalRegistryDocs(reg)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO registries (` + registryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		reg.ID,
		reg.Name,
		reg.UserID,
		reg.UserEmail,
		collaborators,
		data,
		reg.CreatedAt,
		reg.LastModified,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create registry: %w", err)
	}

	return nil
}

// Get retrieves a registry by ID
func (r *RegistryRepository) Get(ctx context.Context, id string) (*registry.Registry, error) {
	query := `SELECT ` + registryColumns + ` FROM registries WHERE id = ?`

	reg, err := scanRegistry(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registry: %w", err)
	}
	return reg, nil
}

// SetData rewrites the whole record array
func (r *RegistryRepository) SetData(ctx context.Context, id string, data []map[string]any, modified time.Time) error {
	if data == nil {
		data = []map[string]any{}
	}
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal registry data: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE registries SET data = ?, last_modified = ? WHERE id = ?`,
		string(doc), modified, id)
	if err != nil {
		return fmt.Errorf("failed to set registry data: %w", err)
	}
	return requireRowAffected(result)
}

// SetCollaborators replaces the collaborator list
func (r *RegistryRepository) SetCollaborators(ctx context.Context, id string, collaborators []string, modified time.Time) error {
	if collaborators == nil {
		collaborators = []string{}
	}
	doc, err := json.Marshal(collaborators)
	if err != nil {
		return fmt.Errorf("failed to marshal collaborators: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE registries SET collaborators = ?, last_modified = ? WHERE id = ?`,
		string(doc), modified, id)
	if err != nil {
		return fmt.Errorf("failed to set registry collaborators: %w", err)
	}
	return requireRowAffected(result)
}

// Delete removes a registry
func (r *RegistryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM registries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete registry: %w", err)
	}
	return requireRowAffected(result)
}

// ListByOwner returns all registries owned by a user
func (r *RegistryRepository) ListByOwner(ctx context.Context, userID string) ([]registry.Registry, error) {
	query := `SELECT ` + registryColumns + ` FROM registries WHERE user_id = ? ORDER BY created_at ASC`
	return r.queryRegistries(ctx, query, userID)
}

// ListSharedWith returns all registries whose collaborator list
// contains the given email
func (r *RegistryRepository) ListSharedWith(ctx context.Context, email string) ([]registry.Registry, error) {
	query := `
		SELECT ` + registryColumns + `
		FROM registries
		WHERE EXISTS (
			SELECT 1 FROM json_each(registries.collaborators) WHERE json_each.value = ?
		)
		ORDER BY created_at ASC
	`
	return r.queryRegistries(ctx, query, email)
}

func (r *RegistryRepository) queryRegistries(ctx context.Context, query string, args ...any) ([]registry.Registry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registries: %w", err)
	}
	defer rows.Close()

	var regs []registry.Registry
	for rows.Next() {
		reg, err := scanRegistry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registry: %w", err)
		}
		regs = append(regs, *reg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registry rows: %w", err)
	}

	return regs, nil
}

func scanRegistry(row rowScanner) (*registry.Registry, error) {
	var reg registry.Registry
	var collaborators, data string

	err := row.Scan(
		&reg.ID,
		&reg.Name,
		&reg.UserID,
		&reg.UserEmail,
		&collaborators,
		&data,
		&reg.CreatedAt,
		&reg.LastModified,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(collaborators), &reg.Collaborators); err != nil {
		return nil, fmt.Errorf("failed to decode collaborators: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &reg.Data); err != nil {
		return nil, fmt.Errorf("failed to decode registry data: %w", err)
	}
	if reg.Collaborators == nil {
		reg.Collaborators = []string{}
	}
	if reg.Data == nil {
		reg.Data = []map[string]any{}
	}

	return &reg, nil
}

func marshalRegistryDocs(reg *registry.Registry) (collaborators, data string, err error) {
	collab := reg.Collaborators
	if collab == nil {
		collab = []string{}
	}
	collabDoc, err := json.Marshal(collab)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal collaborators: %w", err)
	}

	d := reg.Data
	if d == nil {
		d = []map[string]any{}
	}
	dataDoc, err := json.Marshal(d)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal registry data: %w", err)
	}

	return string(collabDoc), string(dataDoc), nil
}
