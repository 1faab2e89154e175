package schema

import (
	"fmt"
	"regexp"

	"github.com/btoon-format/btoon/value"
)

// ValidationStats summarizes a Validate call's optional statistics block.
type ValidationStats struct {
	FieldsChecked int
	FieldsPresent int
	ExtraKeys     int
}

// Result is the outcome of Validate.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Stats    ValidationStats
}

// Validate checks v against schema: v must be a Map; each declared field
// is located, defaulted, or flagged missing; present values are type- and
// constraint-checked; and, under the Strict evolution strategy, any key in
// v not declared in schema is itself an error.
func Validate(v value.Value, s Schema) Result {
	res := Result{Valid: true}

	if v.Kind() != value.KindMap {
		res.Valid = false
		res.Errors = append(res.Errors, "value must be a map")
		return res
	}

	entries := v.Map_()
	declared := make(map[string]struct{}, len(s.Fields))

	for _, field := range s.Fields {
		declared[field.Name] = struct{}{}
		res.Stats.FieldsChecked++

		fv, present := v.MapGet(field.Name)
		if !present {
			switch {
			case field.Required && field.Default != nil:
				fv = *field.Default
				present = true
			case field.Required:
				res.Valid = false
				res.Errors = append(res.Errors, fmt.Sprintf("missing required field %s", field.Name))
				continue
			default:
				continue
			}
		}
		res.Stats.FieldsPresent++

		if !typeMatches(field.Type, fv) {
			res.Valid = false
			res.Errors = append(res.Errors, fmt.Sprintf("field %s: expected type %s, got %s", field.Name, field.Type, fv.TypeName()))
			continue
		}

		if field.Constraints != nil {
			for _, msg := range checkConstraints(field.Name, fv, field.Constraints) {
				res.Valid = false
				res.Errors = append(res.Errors, msg)
			}
		}
	}

	if s.Evolution == Strict {
		for _, e := range entries {
			if _, ok := declared[e.Key]; !ok {
				res.Valid = false
				res.Errors = append(res.Errors, fmt.Sprintf("unexpected field %s (strict schema)", e.Key))
				res.Stats.ExtraKeys++
			}
		}
	}

	return res
}

// typeMatches checks a field's declared type name against a value's type:
// "any" matches unconditionally, "number" matches SignedInt/UnsignedInt/
// Float, every other name must equal the value's own type name.
func typeMatches(typeName string, v value.Value) bool {
	switch typeName {
	case "any":
		return true
	case "number":
		return v.IsNumber()
	default:
		return typeName == v.TypeName()
	}
}

// checkConstraints evaluates c against fv in a fixed order: min, max,
// minLength, maxLength, pattern, enum.
func checkConstraints(field string, fv value.Value, c *Constraints) []string {
	var errs []string

	if c.Min != nil && fv.IsNumber() {
		if numericValue(fv) < *c.Min {
			errs = append(errs, fmt.Sprintf("field %s: value below minimum %g", field, *c.Min))
		}
	}
	if c.Max != nil && fv.IsNumber() {
		if numericValue(fv) > *c.Max {
			errs = append(errs, fmt.Sprintf("field %s: value above maximum %g", field, *c.Max))
		}
	}
	if c.MinLength != nil {
		if n, ok := lengthOf(fv); ok && n < *c.MinLength {
			errs = append(errs, fmt.Sprintf("field %s: length %d below minimum %d", field, n, *c.MinLength))
		}
	}
	if c.MaxLength != nil {
		if n, ok := lengthOf(fv); ok && n > *c.MaxLength {
			errs = append(errs, fmt.Sprintf("field %s: length %d above maximum %d", field, n, *c.MaxLength))
		}
	}
	if c.Pattern != "" && fv.Kind() == value.KindString {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			errs = append(errs, fmt.Sprintf("field %s: invalid pattern constraint %q: %v", field, c.Pattern, err))
		} else if !re.MatchString(fv.String_()) {
			errs = append(errs, fmt.Sprintf("field %s: value does not match pattern %q", field, c.Pattern))
		}
	}
	if len(c.Enum) > 0 {
		matched := false
		for _, allowed := range c.Enum {
			if value.Equal(fv, allowed) {
				matched = true
				break
			}
		}
		if !matched {
			errs = append(errs, fmt.Sprintf("field %s: value not in allowed enum set", field))
		}
	}

	return errs
}

func numericValue(v value.Value) float64 {
	switch v.Kind() {
	case value.KindSignedInt:
		return float64(v.Int())
	case value.KindUnsignedInt:
		return float64(v.Uint())
	case value.KindFloat:
		return v.Float()
	default:
		return 0
	}
}

func lengthOf(v value.Value) (int, bool) {
	switch v.Kind() {
	case value.KindString:
		return len(v.String_()), true
	case value.KindBinary:
		return len(v.Binary_()), true
	default:
		return 0, false
	}
}

// IsCompatibleWith reports whether a schema built against `a` can accept
// data shaped for `b`, per a's evolution strategy.
func IsCompatibleWith(a, b Schema) bool {
	switch a.Evolution {
	case Strict:
		return sameSchema(a, b)
	case Additive:
		for _, fa := range a.Fields {
			if !fa.Required {
				continue
			}
			fb, ok := b.FieldByName(fa.Name)
			if !ok || fb.Type != fa.Type {
				return false
			}
		}
		return true
	case BackwardCompatible:
		for _, fa := range a.Fields {
			if !fa.Required || fa.Default != nil {
				continue
			}
			if _, ok := b.FieldByName(fa.Name); !ok {
				return false
			}
		}
		return true
	case Flexible:
		return true
	default:
		return false
	}
}

func sameSchema(a, b Schema) bool {
	if a.Name != b.Name || !a.Version.Equal(b.Version) || len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i].Name != b.Fields[i].Name || a.Fields[i].Type != b.Fields[i].Type || a.Fields[i].Required != b.Fields[i].Required {
			return false
		}
	}
	return true
}
