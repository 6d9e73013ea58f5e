// Package config implements the format-agnostic persisted-configuration
// model of SPEC_FULL.md Component J: an ordered sequence of block
// definitions, loaded and written by a pluggable Loader/Writer, with no
// commitment to any particular textual syntax (spec §6 "exact textual
// syntax is delegated to the chosen serializer; compatibility is at the
// record level, not the byte level").
//
// Grounded on burstgridgo's config.Model/config.Step/config.Resource split
// (internal/config/model.go) between a format-agnostic model and its
// concrete HCL decoding (internal/hcl).
package config

import (
	"sort"

	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/validate"
	"github.com/mdsebald/LinkBlocks/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// LinkRef is the persisted form of an input's link (spec §3, §9 "links are
// back-references").
type LinkRef struct {
	SourceBlock  string
	SourceOutput string
}

// AttrOverride is a persisted (name, value) override against a block type's
// defaults.
type AttrOverride struct {
	Name  string
	Value cty.Value
}

// InputOverride additionally carries the input's link, if any.
type InputOverride struct {
	Name  string
	Value cty.Value
	Link  *LinkRef
}

// OutputOverride persists only an output's connections, never its runtime
// value (spec §3.1: "outputs are persisted only for connections, not
// values").
type OutputOverride struct {
	Name        string
	Connections []string
}

// Definition is the persisted, private-state-free form of a block (spec
// §3.1): a type selector, the instance's name/description, and override
// sequences layered over the type's defaults at create.
type Definition struct {
	Type        string
	Name        string
	Description string
	Configs     []AttrOverride
	Inputs      []InputOverride
	Outputs     []OutputOverride
}

// Model is an ordered sequence of definitions, the unit a Loader reads and
// a Writer persists (spec §6 "an ordered sequence of block definitions").
type Model struct {
	Definitions []Definition
}

// Loader reads a Model from one or more paths.
type Loader interface {
	Load(paths ...string) (*Model, error)
}

// Writer persists a Model back to a single path, completing the round-trip
// property required by spec §8.
type Writer interface {
	Write(path string, m *Model) error
}

// ToContainers expands a Definition's overrides into attr.Containers
// suitable for block.Create's overrideCfg/overrideIn/overrideOut
// parameters. Unlinked inputs and outputs with no Connections are included
// with their given value/empty connection set; unknown cty conversions
// are reported as an error rather than silently dropped.
func (d Definition) ToContainers() (cfg, in, out *attr.Container, err error) {
	cfg = attr.New(attr.Config)
	for _, o := range d.Configs {
		v, verr := value.FromCty(o.Value)
		if verr != nil {
			return nil, nil, nil, verr
		}
		if err := cfg.Add(attr.Attribute{Name: o.Name, Value: v}); err != nil {
			return nil, nil, nil, err
		}
	}

	in = attr.New(attr.Input)
	for _, o := range d.Inputs {
		v, verr := value.FromCty(o.Value)
		if verr != nil {
			return nil, nil, nil, verr
		}
		a := attr.Attribute{Name: o.Name, Value: v}
		if o.Link != nil {
			a.Link = attr.Link{SourceBlock: o.Link.SourceBlock, SourceOutput: o.Link.SourceOutput}
		}
		if err := in.Add(a); err != nil {
			return nil, nil, nil, err
		}
	}
	if verr := validate.CheckLinkKinds(in); verr != nil {
		return nil, nil, nil, verr
	}

	out = attr.New(attr.Output)
	for _, o := range d.Outputs {
		a := attr.Attribute{Name: o.Name, Value: value.Empty()}
		if len(o.Connections) > 0 {
			a.Connections = make(map[string]struct{}, len(o.Connections))
			for _, c := range o.Connections {
				a.Connections[c] = struct{}{}
			}
		}
		if err := out.Add(a); err != nil {
			return nil, nil, nil, err
		}
	}
	return cfg, in, out, nil
}

// FromState reduces a fully-merged block.State's containers back into a
// persistable Definition, pruning private attributes entirely and output
// values down to their connection sets (spec §9 "on serialize it MUST be
// stripped").
func FromState(typeName, name, description string, cfg, in, out *attr.Container) (Definition, error) {
	d := Definition{Type: typeName, Name: name, Description: description}

	for _, a := range cfg.All() {
		cv, err := a.Value.ToCty()
		if err != nil {
			return Definition{}, err
		}
		d.Configs = append(d.Configs, AttrOverride{Name: a.Name, Value: cv})
	}
	for _, a := range in.All() {
		cv, err := a.Value.ToCty()
		if err != nil {
			return Definition{}, err
		}
		io := InputOverride{Name: a.Name, Value: cv}
		if !a.Link.Empty() {
			io.Link = &LinkRef{SourceBlock: a.Link.SourceBlock, SourceOutput: a.Link.SourceOutput}
		}
		d.Inputs = append(d.Inputs, io)
	}
	for _, a := range out.All() {
		oo := OutputOverride{Name: a.Name}
		for c := range a.Connections {
			oo.Connections = append(oo.Connections, c)
		}
		sort.Strings(oo.Connections)
		d.Outputs = append(d.Outputs, oo)
	}
	return d, nil
}
