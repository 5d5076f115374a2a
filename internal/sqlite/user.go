package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/twinvillage/planner/internal/domain/access"
	"github.com/twinvillage/planner/internal/repository"
)

// UserRepository resolves bearer tokens to identities. Tokens are
// stored as SHA-256 hashes.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// ResolveToken returns the identity owning the given bearer token.
func (r *UserRepository) ResolveToken(ctx context.Context, token string) (access.Identity, error) {
	var id access.Identity
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email FROM users WHERE token_hash = ?`,
		HashToken(token)).Scan(&id.ID, &id.Email)
	if err == sql.ErrNoRows {
		return access.Identity{}, repository.ErrNotFound
	}
	if err != nil {
		return access.Identity{}, fmt.Errorf("failed to resolve token: %w", err)
	}
	return id, nil
}

// CreateUser registers an identity with its token hash.
func (r *UserRepository) CreateUser(ctx context.Context, id access.Identity, token string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, token_hash) VALUES (?, ?, ?)`,
		id.ID, id.Email, HashToken(token))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
