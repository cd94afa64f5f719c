package profiler

import (
	"sync"

	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/storage"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// Cache holds inferred profiles for ingredients missing from the knowledge
// base. It is persisted as a flat JSON object keyed by normalized name and
// assumes a single writer process.
type Cache struct {
	path string

	mu       sync.RWMutex
	profiles map[string]types.FlavorProfile
}

// OpenCache loads the cache at path. A missing or unreadable file yields an
// empty cache. An empty path keeps the cache in memory only.
func OpenCache(path string) *Cache {
	c := &Cache{path: path, profiles: make(map[string]types.FlavorProfile)}
	if path == "" {
		return c
	}

	var stored map[string]types.FlavorProfile
	found, err := storage.ReadJSON(path, &stored)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Profile cache unreadable, starting empty")
		return c
	}
	if found {
		for k, p := range stored {
			p.Clamp()
			c.profiles[k] = p
		}
		logging.Debug().Str("path", path).Int("profiles", len(c.profiles)).Msg("Profile cache loaded")
	}
	return c
}

// Get returns the cached profile for a normalized name.
func (c *Cache) Get(key string) (types.FlavorProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.profiles[key]
	if !ok {
		return types.FlavorProfile{}, false
	}
	return p.WithSource(p.Source), true
}

// Put stores p under key and rewrites the cache file.
func (c *Cache) Put(key string, p types.FlavorProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[key] = p.WithSource(p.Source)
	if c.path == "" {
		return nil
	}
	return storage.WriteJSONAtomic(c.path, c.profiles)
}

// Len returns the number of cached profiles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.profiles)
}

// CountBySource tallies cached profiles by the tier that produced them.
func (c *Cache) CountBySource() map[types.Source]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[types.Source]int)
	for _, p := range c.profiles {
		out[p.Source]++
	}
	return out
}
