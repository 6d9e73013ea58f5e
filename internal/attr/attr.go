// Package attr implements the attribute model described in spec §4.A: typed,
// ordered, named containers for a block's config, input, output, and private
// attributes, plus the merge/get/set/add operations every other component
// builds on.
//
// Ordering must survive merges and sets (spec §3 invariant 5, §9 "preserve
// insertion order via an ordered map or a vector of (name, value, meta) with
// uniqueness enforced on insert"), because the dataflow propagator compares
// old and new output sequences positionally. A plain Go map cannot give that
// guarantee, so a Container is a slice with a name index on the side — the
// same trade-off burstgridgo's ordered HCL block lists make, generalized
// from "unordered map of named definitions" (config.RunnerDefinition.Inputs)
// to an explicitly ordered one.
package attr

import (
	"fmt"

	"github.com/mdsebald/LinkBlocks/internal/value"
)

// Kind identifies which of the four attribute containers a value belongs to.
type Kind int

const (
	Config Kind = iota
	Input
	Output
	Private
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Input:
		return "input"
	case Output:
		return "output"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Link is an input attribute's back-reference to the output that feeds it.
// A zero Link is "unlinked" per spec §3.
type Link struct {
	SourceBlock  string
	SourceOutput string
}

// Empty reports whether the link is unset.
func (l Link) Empty() bool { return l.SourceBlock == "" && l.SourceOutput == "" }

// Attribute is one named cell. Link is meaningful only within an Input
// container; Connections is meaningful only within an Output container.
type Attribute struct {
	Name        string
	Value       value.Value
	Link        Link
	Connections map[string]struct{}
}

// Connected reports whether target is currently in this attribute's
// connections set. Safe to call on an attribute with a nil set.
func (a Attribute) Connected(target string) bool {
	if a.Connections == nil {
		return false
	}
	_, ok := a.Connections[target]
	return ok
}

// Container is an ordered sequence of uniquely-named attributes of one Kind.
type Container struct {
	kind  Kind
	attrs []Attribute
	index map[string]int
}

// New returns an empty container of the given kind.
func New(kind Kind) *Container {
	return &Container{kind: kind, index: make(map[string]int)}
}

// Kind reports which of the four containers this is.
func (c *Container) Kind() Kind { return c.kind }

// Len reports the number of attributes.
func (c *Container) Len() int { return len(c.attrs) }

// Names returns attribute names in container order.
func (c *Container) Names() []string {
	names := make([]string, len(c.attrs))
	for i, a := range c.attrs {
		names[i] = a.Name
	}
	return names
}

// All returns a copy of the attribute slice, in order.
func (c *Container) All() []Attribute {
	out := make([]Attribute, len(c.attrs))
	copy(out, c.attrs)
	return out
}

// Get looks up an attribute by name.
func (c *Container) Get(name string) (Attribute, bool) {
	i, ok := c.index[name]
	if !ok {
		return Attribute{}, false
	}
	return c.attrs[i], true
}

// Add appends a new attribute. It fails if the name already exists.
func (c *Container) Add(a Attribute) error {
	if _, exists := c.index[a.Name]; exists {
		return fmt.Errorf("attr: %s attribute %q already present", c.kind, a.Name)
	}
	c.index[a.Name] = len(c.attrs)
	c.attrs = append(c.attrs, a)
	return nil
}

// Set replaces the value of an existing attribute in place, preserving its
// position, link, and connections. It returns an error if name is not found.
func (c *Container) Set(name string, v value.Value) error {
	i, ok := c.index[name]
	if !ok {
		return fmt.Errorf("attr: %s attribute %q not found", c.kind, name)
	}
	c.attrs[i].Value = v
	return nil
}

// SetLink replaces an input attribute's link, leaving its value untouched.
func (c *Container) SetLink(name string, l Link) error {
	if c.kind != Input {
		return fmt.Errorf("attr: SetLink only valid on input containers, got %s", c.kind)
	}
	i, ok := c.index[name]
	if !ok {
		return fmt.Errorf("attr: input attribute %q not found", name)
	}
	c.attrs[i].Link = l
	return nil
}

// AddConnection records target as a consumer of an output attribute.
func (c *Container) AddConnection(name, target string) error {
	if c.kind != Output {
		return fmt.Errorf("attr: AddConnection only valid on output containers, got %s", c.kind)
	}
	i, ok := c.index[name]
	if !ok {
		return fmt.Errorf("attr: output attribute %q not found", name)
	}
	if c.attrs[i].Connections == nil {
		c.attrs[i].Connections = make(map[string]struct{})
	}
	c.attrs[i].Connections[target] = struct{}{}
	return nil
}

// RemoveConnection drops target from an output attribute's connection set.
func (c *Container) RemoveConnection(name, target string) error {
	if c.kind != Output {
		return fmt.Errorf("attr: RemoveConnection only valid on output containers, got %s", c.kind)
	}
	i, ok := c.index[name]
	if !ok {
		return fmt.Errorf("attr: output attribute %q not found", name)
	}
	delete(c.attrs[i].Connections, target)
	return nil
}

// Clone returns a deep-enough copy for before/after comparison: attribute
// values and links are copied by value, and connection sets get their own
// backing maps so later mutation of the original doesn't bleed through.
func (c *Container) Clone() *Container {
	out := &Container{kind: c.kind, index: make(map[string]int, len(c.index))}
	out.attrs = make([]Attribute, len(c.attrs))
	for i, a := range c.attrs {
		cp := a
		if a.Connections != nil {
			cp.Connections = make(map[string]struct{}, len(a.Connections))
			for k := range a.Connections {
				cp.Connections[k] = struct{}{}
			}
		}
		out.attrs[i] = cp
	}
	for k, v := range c.index {
		out.index[k] = v
	}
	return out
}

// Merge produces the union of defaults and overrides, keyed by name:
// overrides win where names collide, and overrides introduce novel
// attributes appended after the defaults, in their own given order. Both
// containers must be of the same Kind.
func Merge(defaults, overrides *Container) (*Container, error) {
	if defaults.kind != overrides.kind {
		return nil, fmt.Errorf("attr: cannot merge %s defaults with %s overrides", defaults.kind, overrides.kind)
	}
	out := New(defaults.kind)
	for _, d := range defaults.attrs {
		if o, ok := overrides.Get(d.Name); ok {
			if err := out.Add(o); err != nil {
				return nil, err
			}
			continue
		}
		if err := out.Add(d); err != nil {
			return nil, err
		}
	}
	for _, o := range overrides.attrs {
		if _, ok := defaults.Get(o.Name); ok {
			continue
		}
		if err := out.Add(o); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SameOrder reports whether a and b have identical attribute names in
// identical positions — the invariant the dataflow propagator relies on
// when it compares old and new output sequences positionally (spec §4.E
// step 5), and the property the "attribute ordering stability" test checks.
func SameOrder(a, b *Container) bool {
	an, bn := a.Names(), b.Names()
	if len(an) != len(bn) {
		return false
	}
	for i := range an {
		if an[i] != bn[i] {
			return false
		}
	}
	return true
}
