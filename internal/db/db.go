// Package db provides PostgreSQL storage for the recipe cache.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/cocktail-advisor/internal/types"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS recipes (
	cache_key  TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS recipes_created_at_idx ON recipes (created_at);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool       *pgxpool.Pool
	maxRecipes int
}

// Connect establishes a connection pool to the database. maxRecipes bounds
// the recipes table; 0 means unbounded.
func Connect(ctx context.Context, databaseURL string, maxRecipes int) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, maxRecipes: maxRecipes}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db != nil && db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the recipes table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// GetRecipe retrieves a cached recipe by key. A miss returns (nil, nil).
func (db *DB) GetRecipe(ctx context.Context, key string) (*types.Recipe, error) {
	var payload []byte
	err := db.pool.QueryRow(ctx,
		`SELECT payload FROM recipes WHERE cache_key = $1`,
		key,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	var r types.Recipe
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("failed to decode recipe %s: %w", key, err)
	}
	return &r, nil
}

// PutRecipe upserts a recipe and prunes the oldest rows past the limit.
func (db *DB) PutRecipe(ctx context.Context, key string, r *types.Recipe) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO recipes (cache_key, name, payload, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (cache_key) DO UPDATE SET name = $2, payload = $3, created_at = $4`,
		key, r.Name, payload, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", key, err)
	}

	if db.maxRecipes > 0 {
		_, err = tx.Exec(ctx,
			`DELETE FROM recipes WHERE cache_key IN (
				SELECT cache_key FROM recipes
				ORDER BY created_at DESC, cache_key DESC
				OFFSET $1
			)`,
			db.maxRecipes,
		)
		if err != nil {
			return fmt.Errorf("failed to prune recipes: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}
	return nil
}

// CountRecipes returns the number of cached recipes.
func (db *DB) CountRecipes(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}

// DeleteRecipe removes a cached recipe. Deleting a missing key is not an error.
func (db *DB) DeleteRecipe(ctx context.Context, key string) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM recipes WHERE cache_key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
