// Package value implements the tagged-union attribute value described in
// spec §9: "Attribute values are polymorphic over {boolean, integer, float,
// string, not_active, empty, null, symbolic-tag, composite}."
//
// The three numeric/textual primitives and booleans are backed by
// github.com/zclconf/go-cty's cty.Value, matching burstgridgo's typed
// config/input model (config.InputDefinition.Type is a cty.Type). The
// remaining variants (not_active, empty, null, and a symbolic tag used for
// status/exec-method enums) have no cty.Value payload at all, since cty has
// no equivalent of "explicitly inactive". Composite values have no variant
// here: FromCty rejects lists, maps and objects.
package value

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Kind discriminates the variant a Value currently holds.
type Kind int

const (
	// KindEmpty is the zero value: no value has been supplied yet.
	KindEmpty Kind = iota
	KindNotActive
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	// KindSymbol holds a short enum-like tag, used for status and exec_method.
	KindSymbol
	// KindOpaque holds a non-serializable runtime handle (timer refs, driver
	// handles) that private attributes carry but that is never compared for
	// dataflow purposes and never persisted.
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNotActive:
		return "not_active"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Value is an immutable, typed attribute cell. The zero Value is Empty.
type Value struct {
	kind   Kind
	cty    cty.Value
	sym    string
	opaque any
}

// Empty returns the "no value yet" variant.
func Empty() Value { return Value{kind: KindEmpty} }

// NotActive returns the "explicitly unset" variant.
func NotActive() Value { return Value{kind: KindNotActive} }

// Null returns the null variant.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, cty: cty.BoolVal(b)} }

// Int wraps a whole number.
func Int(i int64) Value { return Value{kind: KindInt, cty: cty.NumberIntVal(i)} }

// Float wraps a floating-point number.
func Float(f float64) Value { return Value{kind: KindFloat, cty: cty.NumberFloatVal(f)} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, cty: cty.StringVal(s)} }

// Symbol wraps a short enum-like tag (status kinds, exec_method kinds).
func Symbol(s string) Value { return Value{kind: KindSymbol, sym: s} }

// Opaque wraps an arbitrary runtime handle that has no serialized form.
func Opaque(x any) Value { return Value{kind: KindOpaque, opaque: x} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the "no value yet" variant.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// IsNotActive reports whether v is the explicitly-inactive variant.
func (v Value) IsNotActive() bool { return v.kind == KindNotActive }

// Bool returns the boolean payload and whether v actually held one.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.cty.True(), true
}

// Int returns the integer payload and whether v actually held one.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	i, _ := v.cty.AsBigFloat().Int64()
	return i, true
}

// Float returns the float payload and whether v actually held one.
func (v Value) Float() (float64, bool) {
	if v.kind != KindFloat && v.kind != KindInt {
		return 0, false
	}
	f, _ := v.cty.AsBigFloat().Float64()
	return f, true
}

// String returns the string payload and whether v actually held one.
func (v Value) String() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.cty.AsString(), true
}

// Symbol returns the symbolic tag payload and whether v actually held one.
func (v Value) Symbol() (string, bool) {
	if v.kind != KindSymbol {
		return "", false
	}
	return v.sym, true
}

// Opaque returns the wrapped handle and whether v actually held one.
func (v Value) Opaque() (any, bool) {
	if v.kind != KindOpaque {
		return nil, false
	}
	return v.opaque, true
}

// Equal reports whether two values are the same variant carrying the same
// payload. It is the comparison the dataflow propagator (internal/dataflow)
// uses to decide whether an output changed between two execute cycles.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindEmpty, KindNotActive, KindNull:
		return true
	case KindSymbol:
		return v.sym == o.sym
	case KindOpaque:
		return false
	default:
		return v.cty.RawEquals(o.cty)
	}
}

// FromCty converts a decoded HCL literal into a Value. Numbers are split
// into Int or Float depending on whether they carry a fractional part,
// mirroring internal/hcl/translate_type.go's primitive-type dispatch.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() {
		return Null(), nil
	}
	if !v.IsKnown() {
		return NotActive(), nil
	}
	switch v.Type() {
	case cty.Bool:
		return Bool(v.True()), nil
	case cty.String:
		return String(v.AsString()), nil
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return Int(i), nil
		}
		f, _ := bf.Float64()
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("value: unsupported cty type %s", v.Type().FriendlyName())
	}
}

// ToCty converts v back into a cty.Value for HCL serialization. Symbolic
// tags serialize as plain strings; Empty/NotActive serialize as null,
// since the persisted definition format has no "not yet set" concept of
// its own (spec §3.1: outputs are persisted only for connections).
func (v Value) ToCty() (cty.Value, error) {
	switch v.kind {
	case KindBool, KindInt, KindFloat, KindString:
		return v.cty, nil
	case KindSymbol:
		return cty.StringVal(v.sym), nil
	case KindNull, KindNotActive, KindEmpty:
		return cty.NullVal(cty.DynamicPseudoType), nil
	default:
		return cty.NilVal, fmt.Errorf("value: cannot serialize %s", v.kind)
	}
}

// GoString renders v for logs and test failures.
func (v Value) GoString() string {
	switch v.kind {
	case KindEmpty:
		return "empty"
	case KindNotActive:
		return "not_active"
	case KindNull:
		return "null"
	case KindSymbol:
		return v.sym
	case KindOpaque:
		return fmt.Sprintf("opaque(%T)", v.opaque)
	case KindBool, KindInt, KindFloat, KindString:
		return fmt.Sprintf("%v", v.cty)
	default:
		return "<invalid value>"
	}
}
