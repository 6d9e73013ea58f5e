// Package validate implements the value validator of spec §4.B: type-checked
// retrieval of config/input attribute values with a uniform failure surface.
//
// The shape mirrors burstgridgo's two-pass validation discipline in
// registry.ValidateRegistry (internal/registry/validate.go) — first check the
// attribute is present and of the expected container kind, then check its
// payload matches the expected cty type — generalized from "definition vs
// registered handler" to "attribute container vs accessor call". Type
// dispatch over cty kinds follows internal/hcl/translate_type.go's
// typeExprToCtyType switch.
package validate

import (
	"fmt"

	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/value"
)

// ErrorKind enumerates the uniform failure surface of §4.B.
type ErrorKind int

const (
	NotFound ErrorKind = iota
	BadType
	Range
	BadLink
	NotConfig
	NotInput
	CrossingLink
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case BadType:
		return "bad_type"
	case Range:
		return "range"
	case BadLink:
		return "bad_link"
	case NotConfig:
		return "not_config"
	case NotInput:
		return "not_input"
	case CrossingLink:
		return "crossing_link"
	default:
		return "unknown"
	}
}

// Error reports which attribute failed validation and why.
type Error struct {
	Attribute string
	Kind      ErrorKind
}

func (e *Error) Error() string {
	return fmt.Sprintf("validate: attribute %q: %s", e.Attribute, e.Kind)
}

func fail(name string, kind ErrorKind) *Error { return &Error{Attribute: name, Kind: kind} }

// checkLink rejects an input attribute that is linked but has not yet
// received a value from its upstream output (§7 bad_link).
func checkLink(a attr.Attribute) *Error {
	if !a.Link.Empty() && a.Value.IsEmpty() {
		return fail(a.Name, BadLink)
	}
	return nil
}

// execInName and execOutName are the common attribute names control flow
// reserves (spec §4.H): execute_out only ever triggers execute_in, and
// execute_in is only ever triggered by execute_out — dataflow and control
// flow never cross.
const (
	execInName  = "execute_in"
	execOutName = "execute_out"
)

// CheckLinkKinds rejects an input container whose Invariant 3 is violated:
// a value input linked to an execute_out output, or execute_in linked to a
// value output. It is the wiring validator spec.md §3/§9 calls for — run
// once against a fully-merged input container before a block is created, so
// a crossed link fails at load time instead of sitting forever in bad_link.
func CheckLinkKinds(in *attr.Container) *Error {
	for _, a := range in.All() {
		if a.Link.Empty() {
			continue
		}
		isExecIn := a.Name == execInName
		linksToExecOut := a.Link.SourceOutput == execOutName
		if isExecIn != linksToExecOut {
			return fail(a.Name, CrossingLink)
		}
	}
	return nil
}

// Bool retrieves a boolean config or input attribute. not_active is accepted
// and reported via the notActive return with a zero value, matching §4.B's
// {ok, not_active} outcome.
func Bool(c *attr.Container, name string) (v bool, notActive bool, err *Error) {
	a, ferr := lookupConfigOrInput(c, name)
	if ferr != nil {
		return false, false, ferr
	}
	if a.Value.IsNotActive() {
		return false, true, nil
	}
	if c.Kind() == attr.Input {
		if ferr := checkLink(a); ferr != nil {
			return false, false, ferr
		}
	}
	b, ok := a.Value.Bool()
	if !ok {
		return false, false, fail(name, BadType)
	}
	return b, false, nil
}

// Int retrieves an integer config or input attribute, optionally bounded by
// [min, max] (inclusive; pass hasRange=false to skip the range check).
func Int(c *attr.Container, name string, hasRange bool, min, max int64) (v int64, notActive bool, err *Error) {
	a, ferr := lookupConfigOrInput(c, name)
	if ferr != nil {
		return 0, false, ferr
	}
	if a.Value.IsNotActive() {
		return 0, true, nil
	}
	if c.Kind() == attr.Input {
		if ferr := checkLink(a); ferr != nil {
			return 0, false, ferr
		}
	}
	i, ok := a.Value.Int()
	if !ok {
		return 0, false, fail(name, BadType)
	}
	if hasRange && (i < min || i > max) {
		return 0, false, fail(name, Range)
	}
	return i, false, nil
}

// Float retrieves a float (or integer, promoted) config or input attribute.
func Float(c *attr.Container, name string) (v float64, notActive bool, err *Error) {
	a, ferr := lookupConfigOrInput(c, name)
	if ferr != nil {
		return 0, false, ferr
	}
	if a.Value.IsNotActive() {
		return 0, true, nil
	}
	if c.Kind() == attr.Input {
		if ferr := checkLink(a); ferr != nil {
			return 0, false, ferr
		}
	}
	f, ok := a.Value.Float()
	if !ok {
		return 0, false, fail(name, BadType)
	}
	return f, false, nil
}

// String retrieves a string config or input attribute.
func String(c *attr.Container, name string) (v string, notActive bool, err *Error) {
	a, ferr := lookupConfigOrInput(c, name)
	if ferr != nil {
		return "", false, ferr
	}
	if a.Value.IsNotActive() {
		return "", true, nil
	}
	if c.Kind() == attr.Input {
		if ferr := checkLink(a); ferr != nil {
			return "", false, ferr
		}
	}
	s, ok := a.Value.String()
	if !ok {
		return "", false, fail(name, BadType)
	}
	return s, false, nil
}

// Symbol retrieves a symbolic-tag config or input attribute (enum-like
// settings such as the counter's trigger policy).
func Symbol(c *attr.Container, name string) (v string, notActive bool, err *Error) {
	a, ferr := lookupConfigOrInput(c, name)
	if ferr != nil {
		return "", false, ferr
	}
	if a.Value.IsNotActive() {
		return "", true, nil
	}
	if c.Kind() == attr.Input {
		if ferr := checkLink(a); ferr != nil {
			return "", false, ferr
		}
	}
	s, ok := a.Value.Symbol()
	if !ok {
		return "", false, fail(name, BadType)
	}
	return s, false, nil
}

// Any retrieves a value with no domain check at all, used by callers that
// accept every variant (e.g. the kernel reading execute_interval before it
// knows whether it's an int).
func Any(c *attr.Container, name string) (value.Value, *Error) {
	a, ferr := lookupConfigOrInput(c, name)
	if ferr != nil {
		return value.Value{}, ferr
	}
	if c.Kind() == attr.Input && !a.Value.IsNotActive() {
		if ferr := checkLink(a); ferr != nil {
			return value.Value{}, ferr
		}
	}
	return a.Value, nil
}

// lookupConfigOrInput accepts either a config or an input container, since
// nearly every §4.B accessor is used against both.
func lookupConfigOrInput(c *attr.Container, name string) (attr.Attribute, *Error) {
	if c.Kind() != attr.Config && c.Kind() != attr.Input {
		return attr.Attribute{}, fail(name, NotConfig)
	}
	a, ok := c.Get(name)
	if !ok {
		return attr.Attribute{}, fail(name, NotFound)
	}
	return a, nil
}

// ErrorToStatus maps a validation failure onto the status taxonomy of §7:
// a failed config accessor yields config_error, a failed input accessor
// (or bad_link) yields input_error.
func ErrorToStatus(c *attr.Container, err *Error) string {
	if err.Kind == BadLink {
		return "input_error"
	}
	if c.Kind() == attr.Config {
		return "config_error"
	}
	return "input_error"
}
