package schema

import (
	"fmt"

	"github.com/btoon-format/btoon/value"
)

// ToValue serializes s into a Value key layout: name,
// version, description, evolution_strategy, fields (an array of field
// Maps), metadata. A schema's migrations are not serialized — they are
// runtime-registered functions, not data.
func (s Schema) ToValue() value.Value {
	entries := []value.MapEntry{
		{Key: "name", Value: value.String(s.Name)},
		{Key: "version", Value: value.String(s.Version.String())},
		{Key: "description", Value: value.String(s.Description)},
		{Key: "evolution_strategy", Value: value.String(string(s.Evolution))},
		{Key: "fields", Value: fieldsToValue(s.Fields)},
	}
	if len(s.Metadata) > 0 {
		meta := make([]value.MapEntry, 0, len(s.Metadata))
		for k, v := range s.Metadata {
			meta = append(meta, value.MapEntry{Key: k, Value: v})
		}
		entries = append(entries, value.MapEntry{Key: "metadata", Value: value.Map(meta)})
	}
	return value.Map(entries)
}

func fieldsToValue(fields []Field) value.Value {
	out := make([]value.Value, len(fields))
	for i, f := range fields {
		entries := []value.MapEntry{
			{Key: "name", Value: value.String(f.Name)},
			{Key: "type", Value: value.String(f.Type)},
			{Key: "required", Value: value.Bool(f.Required)},
			{Key: "description", Value: value.String(f.Description)},
		}
		if f.Default != nil {
			entries = append(entries, value.MapEntry{Key: "default", Value: *f.Default})
		}
		if f.Constraints != nil {
			entries = append(entries, value.MapEntry{Key: "constraints", Value: constraintsToValue(f.Constraints)})
		}
		out[i] = value.Map(entries)
	}
	return value.Array(out)
}

func constraintsToValue(c *Constraints) value.Value {
	var entries []value.MapEntry
	if c.Min != nil {
		entries = append(entries, value.MapEntry{Key: "min", Value: value.Float(*c.Min)})
	}
	if c.Max != nil {
		entries = append(entries, value.MapEntry{Key: "max", Value: value.Float(*c.Max)})
	}
	if c.MinLength != nil {
		entries = append(entries, value.MapEntry{Key: "min_length", Value: value.Int(int64(*c.MinLength))})
	}
	if c.MaxLength != nil {
		entries = append(entries, value.MapEntry{Key: "max_length", Value: value.Int(int64(*c.MaxLength))})
	}
	if c.Pattern != "" {
		entries = append(entries, value.MapEntry{Key: "pattern", Value: value.String(c.Pattern)})
	}
	if len(c.Enum) > 0 {
		entries = append(entries, value.MapEntry{Key: "enum", Value: value.Array(append([]value.Value(nil), c.Enum...))})
	}
	return value.Map(entries)
}

// FromValue parses v (as produced by ToValue) back into a Schema.
func FromValue(v value.Value) (Schema, error) {
	if v.Kind() != value.KindMap {
		return Schema{}, fmt.Errorf("schema: expected a map, got %s", v.TypeName())
	}

	name, ok := v.MapGet("name")
	if !ok || name.Kind() != value.KindString {
		return Schema{}, fmt.Errorf("schema: missing or invalid \"name\"")
	}
	builder := NewSchema(name.String_())

	if versionV, ok := v.MapGet("version"); ok && versionV.Kind() == value.KindString {
		ver, err := ParseVersion(versionV.String_())
		if err != nil {
			return Schema{}, err
		}
		builder.WithVersion(ver)
	}
	if descV, ok := v.MapGet("description"); ok && descV.Kind() == value.KindString {
		builder.WithDescription(descV.String_())
	}
	if evoV, ok := v.MapGet("evolution_strategy"); ok && evoV.Kind() == value.KindString {
		builder.WithEvolution(EvolutionStrategy(evoV.String_()))
	}
	if metaV, ok := v.MapGet("metadata"); ok && metaV.Kind() == value.KindMap {
		for _, e := range metaV.Map_() {
			builder.WithMetadata(e.Key, e.Value)
		}
	}

	fieldsV, ok := v.MapGet("fields")
	if ok && fieldsV.Kind() == value.KindArray {
		for _, fv := range fieldsV.Array_() {
			f, err := fieldFromValue(fv)
			if err != nil {
				return Schema{}, err
			}
			builder.AddField(f)
		}
	}

	return builder.Build(), nil
}

func fieldFromValue(v value.Value) (Field, error) {
	if v.Kind() != value.KindMap {
		return Field{}, fmt.Errorf("schema: field entry must be a map, got %s", v.TypeName())
	}

	f := Field{}
	if nameV, ok := v.MapGet("name"); ok && nameV.Kind() == value.KindString {
		f.Name = nameV.String_()
	} else {
		return Field{}, fmt.Errorf("schema: field missing \"name\"")
	}
	if typeV, ok := v.MapGet("type"); ok && typeV.Kind() == value.KindString {
		f.Type = typeV.String_()
	}
	if reqV, ok := v.MapGet("required"); ok && reqV.Kind() == value.KindBool {
		f.Required = reqV.Bool()
	}
	if descV, ok := v.MapGet("description"); ok && descV.Kind() == value.KindString {
		f.Description = descV.String_()
	}
	if defV, ok := v.MapGet("default"); ok {
		d := defV
		f.Default = &d
	}
	if consV, ok := v.MapGet("constraints"); ok && consV.Kind() == value.KindMap {
		f.Constraints = constraintsFromValue(consV)
	}

	return f, nil
}

func constraintsFromValue(v value.Value) *Constraints {
	c := &Constraints{}
	if minV, ok := v.MapGet("min"); ok && minV.IsNumber() {
		f := numericValue(minV)
		c.Min = &f
	}
	if maxV, ok := v.MapGet("max"); ok && maxV.IsNumber() {
		f := numericValue(maxV)
		c.Max = &f
	}
	if minLV, ok := v.MapGet("min_length"); ok && minLV.IsNumber() {
		n := int(numericValue(minLV))
		c.MinLength = &n
	}
	if maxLV, ok := v.MapGet("max_length"); ok && maxLV.IsNumber() {
		n := int(numericValue(maxLV))
		c.MaxLength = &n
	}
	if patV, ok := v.MapGet("pattern"); ok && patV.Kind() == value.KindString {
		c.Pattern = patV.String_()
	}
	if enumV, ok := v.MapGet("enum"); ok && enumV.Kind() == value.KindArray {
		c.Enum = append([]value.Value(nil), enumV.Array_()...)
	}
	return c
}
