// Package schema implements BTOON's schema layer:
// a Field/Schema data model with a fluent builder, a validator, an
// inferrer that derives a Schema from sample Values, and a registry that
// tracks named/versioned schemas plus version-to-version migrations.
//
// The fluent builder generalizes internal/options.Option[T]'s "a chain of
// functions applied in order, a failing one aborts construction with a
// typed error" shape from functional options over a concrete struct to a
// builder over Schema.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btoon-format/btoon/value"
)

// Version is a three-component semantic version, ordered lexicographically
// by (Major, Minor, Patch)
type Version struct {
	Major int
	Minor int
	Patch int
}

// String renders v as "MAJOR.MINOR.PATCH".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return sign(v.Major - other.Major)
	case v.Minor != other.Minor:
		return sign(v.Minor - other.Minor)
	default:
		return sign(v.Patch - other.Patch)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Equal reports whether v and other are the same version.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// ParseVersion parses a "MAJOR.MINOR.PATCH" string, as used by the
// registry's "name@version" schema hint syntax.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("schema: invalid version %q: want MAJOR.MINOR.PATCH", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("schema: invalid version %q: %w", s, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// EvolutionStrategy controls how a schema tolerates fields absent from its
// declaration, both during validation and when
// checking compatibility between schema versions.
type EvolutionStrategy string

const (
	Strict             EvolutionStrategy = "strict"
	Additive           EvolutionStrategy = "additive"
	BackwardCompatible EvolutionStrategy = "backward_compatible"
	Flexible           EvolutionStrategy = "flexible"
)

// Constraints restricts the legal values of a Field, evaluated in a fixed
// order: min, max, minLength, maxLength, pattern, enum.
type Constraints struct {
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
	Pattern   string
	Enum      []value.Value
}

// Field describes one named, typed member of a Schema. Type is one of:
// nil, bool, int, uint, float, number, string, binary, array, map,
// timestamp, any.
type Field struct {
	Name        string
	Type        string
	Required    bool
	Default     *value.Value
	Description string
	Constraints *Constraints
}

// MigrationFunc transforms a Value encoded against one schema version into
// the shape expected by another.
type MigrationFunc func(value.Value) (value.Value, error)

type migrationKey struct {
	From Version
	To   Version
}

// Schema is BTOON's document shape description: a name, version,
// evolution strategy, ordered field list, free-form metadata, and a table
// of registered version-to-version migrations.
//
// A Schema is built once via Builder and its fields are not changed
// thereafter — callers needing a modified schema build a new one.
// RegisterMigration only adds entries to its migration table.
type Schema struct {
	Name        string
	Version     Version
	Description string
	Evolution   EvolutionStrategy
	Fields      []Field
	Metadata    map[string]value.Value

	migrations map[migrationKey]MigrationFunc
}

// FieldByName returns the field named name and whether it was found.
func (s Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RegisterMigration installs fn as the migration from "from" to "to" on
// this schema. Schema's value-copy semantics would otherwise discard the
// mutation, so RegisterMigration requires a pointer receiver.
func (s *Schema) RegisterMigration(from, to Version, fn MigrationFunc) {
	if s.migrations == nil {
		s.migrations = make(map[migrationKey]MigrationFunc)
	}
	s.migrations[migrationKey{From: from, To: to}] = fn
}

// Migrate applies the registered migration from this schema's current
// Version to target: v is returned unchanged if already at target;
// otherwise the exact-match migration is invoked; otherwise an error
// describing "no path" is returned.
func (s Schema) Migrate(v value.Value, target Version) (value.Value, error) {
	if s.Version.Equal(target) {
		return v, nil
	}
	fn, ok := s.migrations[migrationKey{From: s.Version, To: target}]
	if !ok {
		return value.Value{}, fmt.Errorf("schema %s: no migration path from %s to %s", s.Name, s.Version, target)
	}
	return fn(v)
}

// Builder constructs a Schema fluently. Every With* method returns the
// Builder so calls chain; Build() produces the immutable Schema.
type Builder struct {
	schema Schema
}

// NewSchema starts a Builder for a schema named name, with version 1.0.0
// and the Additive evolution strategy as defaults.
func NewSchema(name string) *Builder {
	return &Builder{
		schema: Schema{
			Name:      name,
			Version:   Version{Major: 1, Minor: 0, Patch: 0},
			Evolution: Additive,
		},
	}
}

func (b *Builder) WithVersion(v Version) *Builder {
	b.schema.Version = v
	return b
}

func (b *Builder) WithDescription(desc string) *Builder {
	b.schema.Description = desc
	return b
}

func (b *Builder) WithEvolution(strategy EvolutionStrategy) *Builder {
	b.schema.Evolution = strategy
	return b
}

func (b *Builder) WithMetadata(key string, v value.Value) *Builder {
	if b.schema.Metadata == nil {
		b.schema.Metadata = make(map[string]value.Value)
	}
	b.schema.Metadata[key] = v
	return b
}

// AddField appends f to the schema's field list, in declaration order.
func (b *Builder) AddField(f Field) *Builder {
	b.schema.Fields = append(b.schema.Fields, f)
	return b
}

// Build returns the constructed Schema.
func (b *Builder) Build() Schema {
	return b.schema
}
