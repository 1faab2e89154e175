package schema

import (
	"sort"

	"github.com/btoon-format/btoon/value"
)

// InferOptions controls Infer's field-classification rules.
type InferOptions struct {
	// Name becomes the inferred Schema's name. Defaults to "InferredSchema".
	Name string
	// RequiredThreshold is the presence fraction at or above which an
	// inconsistently-present key becomes required-with-default rather than
	// optional. Defaults to 0.95.
	RequiredThreshold float64
	// MergeNumericTypes collapses any mix of SignedInt/UnsignedInt/Float
	// observed for one key into the "number" type name.
	MergeNumericTypes bool
	// StrictTypes is accepted but not consulted: a key observed with mixed
	// non-numeric types (or mixed numeric types with MergeNumericTypes off)
	// resolves to "any" whether it is set or not.
	StrictTypes bool
	// InferConstraints enables the numeric min/max, string length, and
	// enum-promotion inference.
	InferConstraints bool
	// MaxEnumValues is the distinct-value ceiling under which a field is
	// promoted to an enum constraint. Defaults to 10.
	MaxEnumValues int
}

// DefaultInferOptions returns the default inference behavior.
func DefaultInferOptions() InferOptions {
	return InferOptions{
		Name:              "InferredSchema",
		RequiredThreshold: 0.95,
		MergeNumericTypes: true,
		StrictTypes:       false,
		InferConstraints:  true,
		MaxEnumValues:     10,
	}
}

type fieldStats struct {
	presence int
	kinds    map[value.Kind]struct{}
	values   []value.Value
	min, max float64
	haveNum  bool
	minLen   int
	maxLen   int
	haveLen  bool
	distinct []value.Value
	overflow bool
}

// Infer derives a Schema from samples, treating each as one observation of
// a document shape. A single Value is equivalent to
// Infer([]value.Value{v}, opts).
func Infer(samples []value.Value, opts InferOptions) Schema {
	if opts.Name == "" {
		opts.Name = "InferredSchema"
	}
	if opts.RequiredThreshold == 0 {
		opts.RequiredThreshold = 0.95
	}
	if opts.MaxEnumValues == 0 {
		opts.MaxEnumValues = 10
	}

	order := []string{}
	stats := map[string]*fieldStats{}

	for _, sample := range samples {
		if sample.Kind() != value.KindMap {
			continue
		}
		for _, e := range sample.Map_() {
			st, ok := stats[e.Key]
			if !ok {
				st = &fieldStats{kinds: map[value.Kind]struct{}{}}
				stats[e.Key] = st
				order = append(order, e.Key)
			}
			st.presence++
			st.kinds[e.Value.Kind()] = struct{}{}
			observeConstraints(st, e.Value, opts.MaxEnumValues)
		}
	}

	n := len(samples)
	builder := NewSchema(opts.Name)
	for _, name := range order {
		st := stats[name]
		frac := float64(st.presence) / float64(n)

		field := Field{
			Name: name,
			Type: resolveType(st.kinds, opts.MergeNumericTypes),
		}
		switch {
		case frac >= 1.0:
			field.Required = true
		case frac >= opts.RequiredThreshold:
			field.Required = true
			def := mode(st.values)
			field.Default = &def
		default:
			field.Required = false
		}

		if opts.InferConstraints {
			field.Constraints = inferConstraints(st, opts.MaxEnumValues)
		}

		builder.AddField(field)
	}

	return builder.Build()
}

func observeConstraints(st *fieldStats, v value.Value, maxEnum int) {
	st.values = append(st.values, v)

	if v.IsNumber() {
		n := numericValue(v)
		if !st.haveNum {
			st.min, st.max, st.haveNum = n, n, true
		} else {
			if n < st.min {
				st.min = n
			}
			if n > st.max {
				st.max = n
			}
		}
	}
	if l, ok := lengthOf(v); ok {
		if !st.haveLen {
			st.minLen, st.maxLen, st.haveLen = l, l, true
		} else {
			if l < st.minLen {
				st.minLen = l
			}
			if l > st.maxLen {
				st.maxLen = l
			}
		}
	}
	if !st.overflow {
		found := false
		for _, d := range st.distinct {
			if value.Equal(d, v) {
				found = true
				break
			}
		}
		if !found {
			if len(st.distinct) >= maxEnum {
				st.overflow = true
			} else {
				st.distinct = append(st.distinct, v)
			}
		}
	}
}

func inferConstraints(st *fieldStats, maxEnum int) *Constraints {
	c := &Constraints{}
	any := false
	if st.haveNum {
		minV, maxV := st.min, st.max
		c.Min, c.Max = &minV, &maxV
		any = true
	}
	if st.haveLen {
		minL, maxL := st.minLen, st.maxLen
		c.MinLength, c.MaxLength = &minL, &maxL
		any = true
	}
	if !st.overflow && len(st.distinct) > 0 && len(st.distinct) <= maxEnum {
		c.Enum = append([]value.Value(nil), st.distinct...)
		any = true
	}
	if !any {
		return nil
	}
	return c
}

func resolveType(kinds map[value.Kind]struct{}, mergeNumeric bool) string {
	if len(kinds) == 1 {
		for k := range kinds {
			return kindTypeName(k)
		}
	}
	if mergeNumeric && allNumeric(kinds) {
		return "number"
	}
	return "any"
}

func allNumeric(kinds map[value.Kind]struct{}) bool {
	for k := range kinds {
		if k != value.KindSignedInt && k != value.KindUnsignedInt && k != value.KindFloat {
			return false
		}
	}
	return true
}

func kindTypeName(k value.Kind) string {
	switch k {
	case value.KindNil:
		return "nil"
	case value.KindBool:
		return "bool"
	case value.KindSignedInt:
		return "int"
	case value.KindUnsignedInt:
		return "uint"
	case value.KindFloat:
		return "float"
	case value.KindString:
		return "string"
	case value.KindBinary:
		return "binary"
	case value.KindArray:
		return "array"
	case value.KindMap:
		return "map"
	case value.KindTimestamp:
		return "timestamp"
	default:
		return "any"
	}
}

// mode returns the most frequently observed value, breaking ties by first
// occurrence. Used as the inferred default for a required-with-default
// field.
func mode(values []value.Value) value.Value {
	type bucket struct {
		v     value.Value
		count int
	}
	var buckets []bucket
	for _, v := range values {
		found := false
		for i := range buckets {
			if value.Equal(buckets[i].v, v) {
				buckets[i].count++
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, bucket{v: v, count: 1})
		}
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].count > buckets[j].count })
	if len(buckets) == 0 {
		return value.Nil()
	}
	return buckets[0].v
}

// Merge unions the field sets of schemas into one new Schema named name:
// a field required in every input schema remains required; otherwise it
// becomes optional. Types combine under the same numeric-merge /
// any-fallback rule Infer uses.
func Merge(schemas []Schema, name string) Schema {
	order := []string{}
	kindsByField := map[string]map[value.Kind]struct{}{}
	requiredCount := map[string]int{}

	for _, s := range schemas {
		for _, f := range s.Fields {
			if _, ok := kindsByField[f.Name]; !ok {
				kindsByField[f.Name] = map[value.Kind]struct{}{}
				order = append(order, f.Name)
			}
			kindsByField[f.Name][typeNameToPseudoKind(f.Type)] = struct{}{}
			if f.Type == "number" {
				// A second numeric kind keeps resolveType from narrowing
				// the whole numeric family to "float".
				kindsByField[f.Name][value.KindSignedInt] = struct{}{}
			}
			if f.Required {
				requiredCount[f.Name]++
			}
		}
	}

	builder := NewSchema(name)
	for _, fname := range order {
		builder.AddField(Field{
			Name:     fname,
			Type:     resolveType(kindsByField[fname], true),
			Required: requiredCount[fname] == len(schemas),
		})
	}
	return builder.Build()
}

// typeNameToPseudoKind maps a Field.Type name back to a representative
// value.Kind so Merge can reuse resolveType's kind-set logic. "number" maps
// to KindFloat (Merge adds KindSignedInt beside it so the pair still
// resolves to "number"); "any" and unrecognized names map to
// KindExtension, which resolveType names "any".
func typeNameToPseudoKind(typeName string) value.Kind {
	switch typeName {
	case "nil":
		return value.KindNil
	case "bool":
		return value.KindBool
	case "int":
		return value.KindSignedInt
	case "uint":
		return value.KindUnsignedInt
	case "float", "number":
		return value.KindFloat
	case "string":
		return value.KindString
	case "binary":
		return value.KindBinary
	case "array":
		return value.KindArray
	case "map":
		return value.KindMap
	case "timestamp":
		return value.KindTimestamp
	default:
		return value.KindExtension
	}
}
