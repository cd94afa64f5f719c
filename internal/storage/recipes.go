package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/cocktail-advisor/internal/types"
)

// GetRecipe returns the cached recipe for key, or nil when absent.
func (s *SQLite) GetRecipe(ctx context.Context, key string) (*types.Recipe, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM recipes WHERE cache_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	var r types.Recipe
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("failed to decode recipe %s: %w", key, err)
	}
	return &r, nil
}

// PutRecipe stores a recipe and evicts the oldest entries beyond MaxRecipes.
func (s *SQLite) PutRecipe(ctx context.Context, key string, r *types.Recipe) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO recipes (cache_key, query, payload, created_at) VALUES (?, ?, ?, ?)`,
		key, r.Query, string(payload), created.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store recipe: %w", err)
	}

	if s.maxRecipes > 0 {
		if _, err := s.PruneRecipes(ctx, s.maxRecipes); err != nil {
			return err
		}
	}
	return nil
}

// PruneRecipes keeps the newest max recipes and returns how many were deleted.
func (s *SQLite) PruneRecipes(ctx context.Context, max int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE cache_key IN (
		   SELECT cache_key FROM recipes ORDER BY created_at DESC LIMIT -1 OFFSET ?
		 )`, max)
	if err != nil {
		return 0, fmt.Errorf("failed to prune recipes: %w", err)
	}
	return res.RowsAffected()
}

// CountRecipes returns the number of cached recipes.
func (s *SQLite) CountRecipes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}
