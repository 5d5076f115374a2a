package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
)

// HouseRepository implements registry.PublicHouseRepository for
// SQLite. Rows are raw JSON documents so legacy field aliases
// (lat/long vs latitude/longitude) survive import and export.
type HouseRepository struct {
	db *DB
}

// NewHouseRepository creates a new HouseRepository
func NewHouseRepository(db *DB) *HouseRepository {
	return &HouseRepository{db: db}
}

// All returns every raw document in the public registry
func (r *HouseRepository) All(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM houses ORDER BY house_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	defer rows.Close()

	var docs []map[string]any
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan house: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode house document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating house rows: %w", err)
	}

	return docs, nil
}

// Import upserts raw documents keyed by their houseId, stamping the
// lat/long aliases the legacy consumers expect. Documents without a
// houseId are rejected.
func (r *HouseRepository) Import(ctx context.Context, docs []map[string]any) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	imported := 0
	for _, doc := range docs {
		houseID, _ := doc["houseId"].(string)
		if houseID == "" {
			continue
		}

		// Stamp legacy aliases for compatibility with older readers.
		if _, ok := doc["lat"]; !ok {
			if v, ok := doc["latitude"]; ok {
				doc["lat"] = v
			}
		}
		if _, ok := doc["long"]; !ok {
			if v, ok := doc["longitude"]; ok {
				doc["long"] = v
			}
		}

		raw, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal house document: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO houses (house_id, doc) VALUES (?, ?)
			 ON CONFLICT(house_id) DO UPDATE SET doc = excluded.doc`,
			houseID, string(raw))
		if err != nil {
			return 0, fmt.Errorf("failed to import house %s: %w", houseID, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return imported, nil
}
