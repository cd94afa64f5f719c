// Package knowledge loads the curated ingredient knowledge base: canonical
// French ingredient names mapped to their flavor profiles.
package knowledge

import (
	_ "embed"
	"encoding/json"
	"os"
	"sort"

	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/schemas"
	"github.com/jonathan/cocktail-advisor/internal/textnorm"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// EmbeddedPath is the pseudo path reported for the built-in knowledge base.
const EmbeddedPath = "<embedded>"

//go:embed data/known_ingredients.json
var defaultKB []byte

// sections lists the file sections and the category each one implies.
var sections = []struct {
	name     string
	category types.Category
}{
	{"spirits", types.CategorySpirit},
	{"mixers", types.CategoryMixer},
	{"modifiers", types.CategoryModifier},
}

// Metadata describes the provenance of a knowledge base file.
type Metadata struct {
	Version          string `json:"version,omitempty"`
	Source           string `json:"source,omitempty"`
	TotalIngredients int    `json:"total_ingredients,omitempty"`
}

type fileEntry struct {
	NameFR     string   `json:"name_fr"`
	NameEN     []string `json:"name_en"`
	Sweetness  float64  `json:"sweetness"`
	Acidity    float64  `json:"acidity"`
	Bitterness float64  `json:"bitterness"`
	Strength   float64  `json:"strength"`
	Freshness  float64  `json:"freshness"`
	Type       string   `json:"type"`
}

type file struct {
	Spirits   map[string]fileEntry `json:"spirits"`
	Mixers    map[string]fileEntry `json:"mixers"`
	Modifiers map[string]fileEntry `json:"modifiers"`
	Metadata  Metadata             `json:"metadata"`
}

func (f *file) section(name string) map[string]fileEntry {
	switch name {
	case "spirits":
		return f.Spirits
	case "mixers":
		return f.Mixers
	default:
		return f.Modifiers
	}
}

// Base is an immutable, read-only ingredient knowledge base.
type Base struct {
	path     string
	entries  map[string]types.FlavorProfile
	aliases  map[string]string
	keys     []string
	metadata Metadata
}

// Load reads a knowledge base from path. An empty path loads the embedded default.
func Load(path string) (*Base, error) {
	if path == "" {
		return Parse(EmbeddedPath, defaultKB)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	return Parse(path, content)
}

// Default returns the embedded knowledge base.
func Default() (*Base, error) {
	return Load("")
}

// Parse validates and decodes a knowledge base document. Values outside the
// flavor range are clamped and logged.
func Parse(path string, content []byte) (*Base, error) {
	if err := schemas.Validate(schemas.KnownIngredients, content); err != nil {
		return nil, &LoadError{Path: path, Message: "schema validation failed", Cause: err}
	}

	var f file
	if err := json.Unmarshal(content, &f); err != nil {
		return nil, &LoadError{Path: path, Message: "failed to unmarshal JSON", Cause: err}
	}

	b := &Base{
		path:     path,
		entries:  make(map[string]types.FlavorProfile),
		aliases:  make(map[string]string),
		metadata: f.Metadata,
	}
	for _, sec := range sections {
		for name, e := range f.section(sec.name) {
			key := textnorm.Name(name)
			if key == "" {
				continue
			}
			if _, dup := b.entries[key]; dup {
				logging.Warn().Str("ingredient", key).Str("section", sec.name).Msg("Duplicate knowledge base entry ignored")
				continue
			}
			p := types.FlavorProfile{
				Sweetness:  e.Sweetness,
				Acidity:    e.Acidity,
				Bitterness: e.Bitterness,
				Strength:   e.Strength,
				Freshness:  e.Freshness,
				Category:   sec.category,
				Source:     types.SourceKnown,
				NameFR:     e.NameFR,
				NameEN:     e.NameEN,
				Type:       e.Type,
			}
			if p.Clamp() {
				logging.Warn().Str("ingredient", key).Msg("Knowledge base values clamped to flavor range")
			}
			b.entries[key] = p
		}
	}
	if len(b.entries) == 0 {
		return nil, &LoadError{Path: path, Message: "no ingredients defined"}
	}

	b.keys = make([]string, 0, len(b.entries))
	for k := range b.entries {
		b.keys = append(b.keys, k)
	}
	sort.Strings(b.keys)

	// Aliases are indexed in key order so a shared alias always maps to the
	// same entry.
	for _, k := range b.keys {
		for _, alias := range b.entries[k].NameEN {
			a := textnorm.Name(alias)
			if a == "" {
				continue
			}
			if _, taken := b.aliases[a]; !taken {
				b.aliases[a] = k
			}
		}
	}

	logging.Debug().Str("path", path).Int("ingredients", len(b.entries)).Int("aliases", len(b.aliases)).
		Msg("Knowledge base loaded")
	return b, nil
}

// Get returns the profile stored under an already normalized key.
func (b *Base) Get(key string) (types.FlavorProfile, bool) {
	p, ok := b.entries[key]
	if !ok {
		return types.FlavorProfile{}, false
	}
	return p.WithSource(types.SourceKnown), true
}

// Lookup normalizes name and matches it against keys, then English aliases.
// The returned key is the canonical entry name.
func (b *Base) Lookup(name string) (string, types.FlavorProfile, bool) {
	key := textnorm.Name(name)
	if p, ok := b.Get(key); ok {
		return key, p, true
	}
	if canonical, ok := b.aliases[key]; ok {
		p, _ := b.Get(canonical)
		return canonical, p, true
	}
	return "", types.FlavorProfile{}, false
}

// Contains reports whether name resolves to an entry.
func (b *Base) Contains(name string) bool {
	_, _, ok := b.Lookup(name)
	return ok
}

// Keys returns the canonical keys in sorted order. The slice must not be modified.
func (b *Base) Keys() []string {
	return b.keys
}

// Len returns the number of ingredients.
func (b *Base) Len() int {
	return len(b.entries)
}

// AliasCount returns the number of indexed English aliases.
func (b *Base) AliasCount() int {
	return len(b.aliases)
}

// CountByCategory returns how many entries each category holds.
func (b *Base) CountByCategory() map[types.Category]int {
	out := make(map[types.Category]int, len(sections))
	for _, p := range b.entries {
		out[p.Category]++
	}
	return out
}

func (b *Base) Metadata() Metadata {
	return b.metadata
}

func (b *Base) Path() string {
	return b.path
}
