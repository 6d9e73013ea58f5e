// Package block implements the block state model of spec §4.D: the compact
// tuple binding a block instance to its type and four attribute containers,
// the common attributes every block must carry (§3 invariant 2), and the
// pure conversions between the persisted definition shape and full runtime
// state.
//
// Grounded on burstgridgo's split between an instance ("config.Step",
// "config.Resource" — what gets persisted) and a type manifest
// ("config.RunnerDefinition", "config.AssetDefinition" — the defaults a type
// declares), internal/config/model.go.
package block

import (
	"fmt"

	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/blocktype"
	"github.com/mdsebald/LinkBlocks/internal/value"
)

// CommonConfigs returns the config attributes every block must carry
// (§3 invariant 2). Block type authors merge their own defaults over this
// set inside their DefaultConfigs implementation.
func CommonConfigs(name, blockType, version string, executeIntervalMs int64) *attr.Container {
	c := attr.New(attr.Config)
	_ = c.Add(attr.Attribute{Name: "block_name", Value: value.String(name)})
	_ = c.Add(attr.Attribute{Name: "block_type", Value: value.String(blockType)})
	_ = c.Add(attr.Attribute{Name: "version", Value: value.String(version)})
	_ = c.Add(attr.Attribute{Name: "execute_interval", Value: value.Int(executeIntervalMs)})
	return c
}

// CommonInputs returns the input attributes every block must carry.
func CommonInputs() *attr.Container {
	c := attr.New(attr.Input)
	_ = c.Add(attr.Attribute{Name: "enable", Value: value.Bool(true)})
	_ = c.Add(attr.Attribute{Name: "execute_in", Value: value.NotActive()})
	return c
}

// CommonOutputs returns the output attributes every block must carry.
func CommonOutputs() *attr.Container {
	c := attr.New(attr.Output)
	_ = c.Add(attr.Attribute{Name: "execute_out", Value: value.NotActive()})
	_ = c.Add(attr.Attribute{Name: "status", Value: value.Symbol("created")})
	_ = c.Add(attr.Attribute{Name: "value", Value: value.Empty()})
	return c
}

// CommonPrivate returns the private attributes every block must carry,
// freshly initialized (exec_count = 0, no timer armed, no exec yet).
func CommonPrivate() *attr.Container {
	c := attr.New(attr.Private)
	_ = c.Add(attr.Attribute{Name: "exec_count", Value: value.Int(0)})
	_ = c.Add(attr.Attribute{Name: "last_exec", Value: value.Empty()})
	_ = c.Add(attr.Attribute{Name: "timer_ref", Value: value.Empty()})
	_ = c.Add(attr.Attribute{Name: "exec_method", Value: value.Empty()})
	return c
}

// State is the full runtime tuple: a block's name, its type selector, and
// its four attribute containers.
type State struct {
	Name    string
	Type    string
	Config  *attr.Container
	Input   *attr.Container
	Output  *attr.Container
	Private *attr.Container
}

// Definition is the persistence-shape reduction of State: no private
// attributes, matching spec §3's "definition = (config, inputs, outputs)".
type Definition struct {
	Name   string
	Type   string
	Config *attr.Container
	Input  *attr.Container
	Output *attr.Container
}

// ToDefinition prunes a State's private attributes, producing the shape
// written to persisted storage (spec §4.D, §9 "on serialize it MUST be
// stripped").
func (s *State) ToDefinition() *Definition {
	return &Definition{
		Name:   s.Name,
		Type:   s.Type,
		Config: s.Config.Clone(),
		Input:  s.Input.Clone(),
		Output: s.Output.Clone(),
	}
}

// FromDefinition reconstitutes a full State from a persisted Definition plus
// a freshly-initialized private container. It performs no defaulting: the
// definition is assumed to already carry every common and type-specific
// attribute (the caller is responsible for having merged defaults at
// Create time).
func FromDefinition(d *Definition, private *attr.Container) *State {
	return &State{
		Name:    d.Name,
		Type:    d.Type,
		Config:  d.Config.Clone(),
		Input:   d.Input.Clone(),
		Output:  d.Output.Clone(),
		Private: private,
	}
}

// Create builds a new State for a block of the given type: it merges the
// type's declared defaults (which themselves already merge over the common
// attributes, per CommonConfigs/CommonInputs/CommonOutputs) with the
// caller-supplied overrides, reconciles a version mismatch against the
// persisted config via the type's Upgrade hook, invokes the type's Create
// hook, and attaches a fresh private container (spec §4.C Create/Upgrade,
// §4.D conversions).
func Create(t blocktype.Type, typeName, name, description string, overrideCfg, overrideIn, overrideOut *attr.Container) (*State, error) {
	defaultCfg := t.DefaultConfigs(name, description)
	defaultIn := t.DefaultInputs()
	defaultOut := t.DefaultOutputs()

	mergedCfg, err := attr.Merge(defaultCfg, overrideCfg)
	if err != nil {
		return nil, fmt.Errorf("block: create %q: merge config: %w", name, err)
	}
	mergedIn, err := attr.Merge(defaultIn, overrideIn)
	if err != nil {
		return nil, fmt.Errorf("block: create %q: merge input: %w", name, err)
	}
	mergedOut, err := attr.Merge(defaultOut, overrideOut)
	if err != nil {
		return nil, fmt.Errorf("block: create %q: merge output: %w", name, err)
	}

	if needsUpgrade(defaultCfg, mergedCfg) {
		upgraded, err := t.Upgrade(&blocktype.Instance{Config: mergedCfg, Input: mergedIn, Output: mergedOut})
		if err != nil {
			return nil, fmt.Errorf("block: create %q: upgrade: %w", name, err)
		}
		mergedCfg, mergedIn, mergedOut = upgraded.Config, upgraded.Input, upgraded.Output
	}

	inst, err := t.Create(name, description, mergedCfg, mergedIn, mergedOut)
	if err != nil {
		return nil, fmt.Errorf("block: create %q: %w", name, err)
	}

	private, err := attr.Merge(CommonPrivate(), t.DefaultPrivate())
	if err != nil {
		return nil, fmt.Errorf("block: create %q: merge private: %w", name, err)
	}

	return &State{
		Name:    name,
		Type:    typeName,
		Config:  inst.Config,
		Input:   inst.Input,
		Output:  inst.Output,
		Private: private,
	}, nil
}

// needsUpgrade reports whether merged's persisted "version" config differs
// from the type's current default "version" — a definition written by an
// older code version being loaded against a newer one (spec §4.C Upgrade).
// A merged container with no version override at all (freshly created, no
// persisted value) always matches the default and needs no upgrade.
func needsUpgrade(defaultCfg, merged *attr.Container) bool {
	dv, ok := defaultCfg.Get("version")
	if !ok {
		return false
	}
	mv, ok := merged.Get("version")
	if !ok {
		return false
	}
	return !mv.Value.Equal(dv.Value)
}

// Instance returns the type-specific view of a State's attribute containers,
// the shape blocktype.Type methods operate on.
func (s *State) Instance() *blocktype.Instance {
	return &blocktype.Instance{
		Config:  s.Config,
		Input:   s.Input,
		Output:  s.Output,
		Private: s.Private,
	}
}

// ApplyInstance writes a blocktype.Instance's containers back into s,
// after a type method (Initialize/Execute/Delete) has returned a new one.
func (s *State) ApplyInstance(inst *blocktype.Instance) {
	s.Config = inst.Config
	s.Input = inst.Input
	s.Output = inst.Output
	s.Private = inst.Private
}
