package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/btoon-format/btoon/value"
)

// SchemaHintKey is the Map key Registry.Validate consults first to find
// the schema a value claims conformance to.
const SchemaHintKey = "$schema"

type registryMigrationKey struct {
	Name string
	From Version
	To   Version
}

// Registry is a read-mostly store of named, versioned schemas plus
// cross-schema migrations. It is the only long-lived shared object in the
// package: concurrent reads are safe, writes require exclusive access.
type Registry struct {
	mu         sync.RWMutex
	schemas    map[string]map[Version]Schema
	migrations map[registryMigrationKey]MigrationFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas:    make(map[string]map[Version]Schema),
		migrations: make(map[registryMigrationKey]MigrationFunc),
	}
}

// Register adds s under (s.Name, s.Version), overwriting any existing
// schema at that exact version.
func (r *Registry) Register(s Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.schemas[s.Name] == nil {
		r.schemas[s.Name] = make(map[Version]Schema)
	}
	r.schemas[s.Name][s.Version] = s
}

// Remove deletes the schema at (name, version).
func (r *Registry) Remove(name string, version Version) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schemas[name], version)
}

// Clear removes every registered schema and migration.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas = make(map[string]map[Version]Schema)
	r.migrations = make(map[registryMigrationKey]MigrationFunc)
}

// Get returns the schema registered at (name, version).
func (r *Registry) Get(name string, version Version) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name][version]
	return s, ok
}

// Latest returns the highest-versioned schema registered under name.
func (r *Registry) Latest(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := r.schemas[name]
	if len(versions) == 0 {
		return Schema{}, false
	}
	keys := make([]Version, 0, len(versions))
	for v := range versions {
		keys = append(keys, v)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return versions[keys[len(keys)-1]], true
}

// RegisterMigration installs fn as the migration for name from version
// "from" to version "to".
func (r *Registry) RegisterMigration(name string, from, to Version, fn MigrationFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.migrations[registryMigrationKey{Name: name, From: from, To: to}] = fn
}

// Migrate looks up the exact (name, from, to) migration edge and applies
// it to v.
func (r *Registry) Migrate(v value.Value, name string, from, to Version) (value.Value, error) {
	r.mu.RLock()
	fn, ok := r.migrations[registryMigrationKey{Name: name, From: from, To: to}]
	r.mu.RUnlock()
	if !ok {
		return value.Value{}, fmt.Errorf("schema %s: no migration path from %s to %s", name, from, to)
	}
	return fn(v)
}

// Validate first tries the $schema hint field on v (a string naming either
// "name" — resolved to the latest registered version — or
// "name@MAJOR.MINOR.PATCH"); failing that, it iterates every registered
// schema and reports true if any validates v.
func (r *Registry) Validate(v value.Value) Result {
	if v.Kind() == value.KindMap {
		if hint, ok := v.MapGet(SchemaHintKey); ok && hint.Kind() == value.KindString {
			if s, ok := r.resolveHint(hint.String_()); ok {
				return Validate(v, s)
			}
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, versions := range r.schemas {
		for _, s := range versions {
			if res := Validate(v, s); res.Valid {
				return res
			}
		}
	}
	return Result{Valid: false, Errors: []string{"no registered schema validates this value"}}
}

func (r *Registry) resolveHint(hint string) (Schema, bool) {
	if name, versionStr, ok := strings.Cut(hint, "@"); ok {
		v, err := ParseVersion(versionStr)
		if err != nil {
			return Schema{}, false
		}
		return r.Get(name, v)
	}
	return r.Latest(hint)
}
