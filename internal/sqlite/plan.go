package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twinvillage/planner/internal/domain/plan"
	"github.com/twinvillage/planner/internal/domain/resource"
	"github.com/twinvillage/planner/internal/repository"
)

// PlanRepository implements plan.Repository for SQLite
type PlanRepository struct {
	db *DB
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db *DB) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, name, center_lat, center_lng, status, resources,
	user_id, user_email, collaborators, is_public,
	created_at, last_modified, last_modified_by`

// Create inserts a new plan
func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	resources, collaborators, err := marshalPlanDocs(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Center.Lat,
		p.Center.Lng,
		p.Status,
		resources,
		p.UserID,
		p.UserEmail,
		collaborators,
		p.IsPublic,
		p.CreatedAt,
		p.LastModified,
		nullableString(p.LastModifiedBy),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return nil
}

// Get retrieves a plan by ID
func (r *PlanRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`

	p, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return p, nil
}

// Update overwrites a plan wholesale (last-write-wins)
func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	resources, collaborators, err := marshalPlanDocs(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE plans
		SET name = ?, center_lat = ?, center_lng = ?, status = ?,
		    resources = ?, collaborators = ?, is_public = ?,
		    last_modified = ?, last_modified_by = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Center.Lat,
		p.Center.Lng,
		p.Status,
		resources,
		collaborators,
		p.IsPublic,
		p.LastModified,
		nullableString(p.LastModifiedBy),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	return requireRowAffected(result)
}

// Delete removes a plan
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return requireRowAffected(result)
}

// ListByOwner returns all plans owned by a user, most recently
// modified first
func (r *PlanRepository) ListByOwner(ctx context.Context, userID string) ([]plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE user_id = ? ORDER BY last_modified DESC`
	return r.queryPlans(ctx, query, userID)
}

// ListSharedWith returns all plans whose collaborator list contains
// the given email
func (r *PlanRepository) ListSharedWith(ctx context.Context, email string) ([]plan.Plan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM plans
		WHERE EXISTS (
			SELECT 1 FROM json_each(plans.collaborators) WHERE json_each.value = ?
		)
		ORDER BY last_modified DESC
	`
	return r.queryPlans(ctx, query, email)
}

// SetCollaborators replaces the collaborator list
func (r *PlanRepository) SetCollaborators(ctx context.Context, id string, collaborators []string, modified time.Time) error {
	doc, err := json.Marshal(collaborators)
	if err != nil {
		return fmt.Errorf("failed to marshal collaborators: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE plans SET collaborators = ?, last_modified = ? WHERE id = ?`,
		string(doc), modified, id)
	if err != nil {
		return fmt.Errorf("failed to set collaborators: %w", err)
	}
	return requireRowAffected(result)
}

// SetVisibility flips the world-viewable flag
func (r *PlanRepository) SetVisibility(ctx context.Context, id string, public bool, modified time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE plans SET is_public = ?, last_modified = ? WHERE id = ?`,
		public, modified, id)
	if err != nil {
		return fmt.Errorf("failed to set visibility: %w", err)
	}
	return requireRowAffected(result)
}

func (r *PlanRepository) queryPlans(ctx context.Context, query string, args ...any) ([]plan.Plan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, *p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan rows: %w", err)
	}

	return plans, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*plan.Plan, error) {
	var p plan.Plan
	var resources, collaborators string
	var lastModifiedBy sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Center.Lat,
		&p.Center.Lng,
		&p.Status,
		&resources,
		&p.UserID,
		&p.UserEmail,
		&collaborators,
		&p.IsPublic,
		&p.CreatedAt,
		&p.LastModified,
		&lastModifiedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(resources), &p.Resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	if err := json.Unmarshal([]byte(collaborators), &p.Collaborators); err != nil {
		return nil, fmt.Errorf("failed to decode collaborators: %w", err)
	}
	if p.Resources == nil {
		p.Resources = []resource.Resource{}
	}
	if p.Collaborators == nil {
		p.Collaborators = []string{}
	}
	p.LastModifiedBy = lastModifiedBy.String

	return &p, nil
}

func marshalPlanDocs(p *plan.Plan) (resources, collaborators string, err error) {
	res := p.Resources
	if res == nil {
		res = []resource.Resource{}
	}
	resDoc, err := json.Marshal(res)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal resources: %w", err)
	}

	collab := p.Collaborators
	if collab == nil {
		collab = []string{}
	}
	collabDoc, err := json.Marshal(collab)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal collaborators: %w", err)
	}

	return string(resDoc), string(collabDoc), nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
