package common

import (
	"github.com/pkg/errors"
)

// FieldKind discriminates the variants of a field declaration. Generation
// switches exhaustively on the kind, so adding a new kind is a compile-time
// visible change.
type FieldKind int

const (
	FieldFloat FieldKind = iota
	FieldInt
	FieldBool
	FieldEnum
	FieldString
)

func (k FieldKind) String() string {
	switch k {
	case FieldFloat:
		return "float"
	case FieldInt:
		return "int"
	case FieldBool:
		return "bool"
	case FieldEnum:
		return "enum"
	case FieldString:
		return "string"
	}
	return "unknown"
}

// Numeric reports whether values of this kind are bounded by Min/Max.
func (k FieldKind) Numeric() bool {
	return k == FieldFloat || k == FieldInt
}

// DefaultFloatPrecision is the number of decimal places used when a float
// field does not declare its own precision.
const DefaultFloatPrecision = 1

// FieldSpec declares one generatable field of a value profile.
type FieldSpec struct {
	Name string
	Kind FieldKind

	// Inclusive numeric bounds, used by FieldFloat and FieldInt.
	Min float64
	Max float64

	// Decimal places for FieldFloat values. Zero decimals is a valid
	// declaration and is marked with PrecisionDeclared; with neither a
	// positive Precision nor the flag set, EffectivePrecision substitutes
	// DefaultFloatPrecision.
	Precision         int
	PrecisionDeclared bool

	// Increment replaces the random draw with a persisted, monotonically
	// increasing per-device counter.
	Increment bool

	// Static short-circuits generation and always yields Default,
	// regardless of the Increment flag or drift settings.
	Static bool

	Default interface{}

	// Values is the ordered set of admissible FieldEnum values.
	Values []string
}

// EffectivePrecision returns the declared precision or the default.
func (f *FieldSpec) EffectivePrecision() int {
	if f.Precision > 0 {
		return f.Precision
	}
	if f.PrecisionDeclared {
		return 0
	}
	return DefaultFloatPrecision
}

// ValueProfile describes every field a device model can emit. Field order is
// the declared order and is the iteration order used during generation.
type ValueProfile struct {
	Fields []FieldSpec

	byName map[string]int
}

// NewValueProfile builds a profile preserving the declared field order.
func NewValueProfile(fields ...FieldSpec) *ValueProfile {
	p := &ValueProfile{
		Fields: fields,
		byName: make(map[string]int, len(fields)),
	}
	for i := range fields {
		p.byName[fields[i].Name] = i
	}
	return p
}

// Field looks up a declaration by name.
func (p *ValueProfile) Field(name string) (*FieldSpec, bool) {
	i, ok := p.byName[name]
	if !ok {
		return nil, false
	}
	return &p.Fields[i], true
}

// Validate rejects malformed declarations before any generation happens.
// Profiles arrive pre-validated from the catalog loader, but a cheap check
// here keeps a bad declaration from silently producing out-of-bound values.
func (p *ValueProfile) Validate() error {
	if len(p.Fields) == 0 {
		return errors.New("profile declares no fields")
	}
	seen := make(map[string]struct{}, len(p.Fields))
	for i := range p.Fields {
		f := &p.Fields[i]
		if f.Name == "" {
			return errors.Errorf("field %d has no name", i)
		}
		if _, dup := seen[f.Name]; dup {
			return errors.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		switch f.Kind {
		case FieldFloat, FieldInt:
			if f.Min > f.Max {
				return errors.Errorf("field %q: min %v > max %v", f.Name, f.Min, f.Max)
			}
			if f.Precision < 0 {
				return errors.Errorf("field %q: negative precision %d", f.Name, f.Precision)
			}
		case FieldEnum:
			if len(f.Values) == 0 {
				return errors.Errorf("enum field %q declares no values", f.Name)
			}
		case FieldBool, FieldString:
			// no constraints
		default:
			return errors.Errorf("field %q has unknown kind %d", f.Name, int(f.Kind))
		}
	}
	return nil
}
