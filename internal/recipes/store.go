// Package recipes generates cocktail recipes from free-text requests and
// caches them by query.
package recipes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/jonathan/cocktail-advisor/internal/storage"
	"github.com/jonathan/cocktail-advisor/internal/textnorm"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// Store persists recipes by cache key. GetRecipe returns (nil, nil) on a miss.
type Store interface {
	GetRecipe(ctx context.Context, key string) (*types.Recipe, error)
	PutRecipe(ctx context.Context, key string, r *types.Recipe) error
	CountRecipes(ctx context.Context) (int, error)
}

// CacheKey is the hex SHA-256 of the normalized query.
func CacheKey(query string) string {
	sum := sha256.Sum256([]byte(textnorm.Query(query)))
	return hex.EncodeToString(sum[:])
}

// FileStore keeps recipes in one JSON object on disk, rewritten atomically on
// every put. It assumes a single writer process.
type FileStore struct {
	path       string
	maxEntries int

	mu      sync.Mutex
	loaded  bool
	recipes map[string]*types.Recipe
}

// NewFileStore returns a store backed by path. maxEntries <= 0 keeps every recipe.
func NewFileStore(path string, maxEntries int) *FileStore {
	return &FileStore{path: path, maxEntries: maxEntries}
}

// load reads the file once. A corrupt file is reported and replaced by an
// empty cache on the next write.
func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	s.recipes = make(map[string]*types.Recipe)
	s.loaded = true
	var stored map[string]*types.Recipe
	if _, err := storage.ReadJSON(s.path, &stored); err != nil {
		return err
	}
	for k, r := range stored {
		if r != nil {
			s.recipes[k] = r
		}
	}
	return nil
}

func (s *FileStore) GetRecipe(_ context.Context, key string) (*types.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	r, ok := s.recipes[key]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *FileStore) PutRecipe(_ context.Context, key string, r *types.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A corrupt file is overwritten rather than blocking new entries.
	_ = s.load()

	cp := *r
	s.recipes[key] = &cp
	s.evict()
	return storage.WriteJSONAtomic(s.path, s.recipes)
}

// evict drops the oldest recipes beyond maxEntries.
func (s *FileStore) evict() {
	if s.maxEntries <= 0 || len(s.recipes) <= s.maxEntries {
		return
	}
	keys := make([]string, 0, len(s.recipes))
	for k := range s.recipes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := s.recipes[keys[i]].CreatedAt, s.recipes[keys[j]].CreatedAt
		if ti.Equal(tj) {
			return keys[i] < keys[j]
		}
		return ti.Before(tj)
	})
	for _, k := range keys[:len(keys)-s.maxEntries] {
		delete(s.recipes, k)
	}
}

func (s *FileStore) CountRecipes(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return 0, err
	}
	return len(s.recipes), nil
}
