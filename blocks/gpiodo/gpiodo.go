// Package gpiodo implements the "gpio_do" (digital output) block type from
// SPEC_FULL.md Component P: a boolean output pin driven by its input,
// exercising spec §8 scenario 3's invert/default behavior and the
// value.Opaque escape hatch for non-serializable driver handles.
//
// Grounded on burstgridgo's modules/print Module{}/Register(*Registry)
// pattern for the Type/registration shape, and generalized the idea of an
// acquired-at-Initialize, released-at-Delete external resource handle from
// how modules/http_request's client setup is scoped to a runner's
// lifecycle (internal/module/http_request).
package gpiodo

import (
	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/block"
	"github.com/mdsebald/LinkBlocks/internal/blocktype"
	"github.com/mdsebald/LinkBlocks/internal/validate"
	"github.com/mdsebald/LinkBlocks/internal/value"
)

const (
	typeName = "gpio_do"
	version  = "1.0.0"
)

// Driver abstracts the physical or simulated GPIO peripheral a pin handle
// talks to. Production code wires SysfsDriver; tests wire FakeDriver.
type Driver interface {
	// Open acquires a handle to pin, returning an opaque reference passed
	// back into Write and Close.
	Open(pin int64) (any, error)
	Write(handle any, level bool) error
	Close(handle any) error
}

// Type implements blocktype.Type for the gpio_do block. The zero value is
// unusable; construct with New.
type Type struct {
	driver Driver
}

// New returns a gpio_do block type backed by driver.
func New(driver Driver) Type {
	return Type{driver: driver}
}

// Register adds a gpio_do type backed by driver to reg under "gpio_do".
func Register(reg *blocktype.Registry, driver Driver) error {
	return reg.Register(typeName, New(driver))
}

func (Type) DefaultConfigs(name, description string) *attr.Container {
	own := attr.New(attr.Config)
	_ = own.Add(attr.Attribute{Name: "gpio_pin", Value: value.Int(0)})
	_ = own.Add(attr.Attribute{Name: "default_value", Value: value.Bool(false)})
	_ = own.Add(attr.Attribute{Name: "invert_output", Value: value.Bool(false)})
	merged, _ := attr.Merge(block.CommonConfigs(name, typeName, version, 0), own)
	return merged
}

func (Type) DefaultInputs() *attr.Container {
	own := attr.New(attr.Input)
	_ = own.Add(attr.Attribute{Name: "input", Value: value.Bool(false)})
	merged, _ := attr.Merge(block.CommonInputs(), own)
	return merged
}

func (Type) DefaultOutputs() *attr.Container {
	merged, _ := attr.Merge(block.CommonOutputs(), attr.New(attr.Output))
	return merged
}

func (Type) DefaultPrivate() *attr.Container {
	p := attr.New(attr.Private)
	_ = p.Add(attr.Attribute{Name: "handle", Value: value.Empty()})
	return p
}

func (Type) Create(name, description string, cfg, in, out *attr.Container) (*blocktype.Instance, error) {
	return &blocktype.Instance{Config: cfg, Input: in, Output: out}, nil
}

func (Type) Upgrade(inst *blocktype.Instance) (*blocktype.Instance, error) {
	_ = inst.Config.Set("version", value.String(version))
	return inst, nil
}

func (t Type) Initialize(inst *blocktype.Instance) (*blocktype.Instance, error) {
	pin, notActive, err := validate.Int(inst.Config, "gpio_pin", false, 0, 0)
	if err != nil || notActive {
		_ = inst.Output.Set("status", value.Symbol("config_error"))
		return inst, nil
	}
	h, openErr := t.driver.Open(pin)
	if openErr != nil {
		_ = inst.Output.Set("status", value.Symbol("proc_err"))
		return inst, nil
	}
	_ = inst.Private.Set("handle", value.Opaque(h))

	defaultV, _, _ := validate.Bool(inst.Config, "default_value")
	invert, _, _ := validate.Bool(inst.Config, "invert_output")
	if werr := t.driver.Write(h, applyInvert(defaultV, invert)); werr != nil {
		_ = inst.Output.Set("status", value.Symbol("proc_err"))
		return inst, nil
	}
	_ = inst.Output.Set("value", value.Bool(defaultV))
	return inst, nil
}

func (t Type) Execute(inst *blocktype.Instance, method blocktype.ExecMethod) (*blocktype.Instance, error) {
	fail := func(status string) (*blocktype.Instance, error) {
		_ = inst.Output.Set("value", value.NotActive())
		_ = inst.Output.Set("status", value.Symbol(status))
		return inst, nil
	}

	invert, invertNA, verr := validate.Bool(inst.Config, "invert_output")
	if verr != nil || invertNA {
		return fail("config_error")
	}

	inputVal, inputNA, ierr := validate.Bool(inst.Input, "input")
	if ierr != nil {
		if ierr.Kind == validate.BadLink {
			return fail("bad_link")
		}
		return fail("input_error")
	}
	if inputNA {
		return fail("input_error")
	}

	h, ok := currentHandle(inst.Private)
	if !ok {
		return fail("proc_err")
	}

	level := applyInvert(inputVal, invert)
	if werr := t.driver.Write(h, level); werr != nil {
		return fail("proc_err")
	}

	_ = inst.Output.Set("value", value.Bool(inputVal))
	_ = inst.Output.Set("status", value.Symbol("normal"))
	return inst, nil
}

func (t Type) Delete(inst *blocktype.Instance) (*blocktype.Instance, error) {
	if h, ok := currentHandle(inst.Private); ok {
		_ = t.driver.Close(h)
		_ = inst.Private.Set("handle", value.Empty())
	}
	return inst, nil
}

func applyInvert(level, invert bool) bool {
	if invert {
		return !level
	}
	return level
}

func currentHandle(private *attr.Container) (any, bool) {
	a, ok := private.Get("handle")
	if !ok {
		return nil, false
	}
	return a.Value.Opaque()
}
