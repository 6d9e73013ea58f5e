// Package counter implements the "counter" block type from SPEC_FULL.md
// Component P: a value counter advanced on a transition of its boolean
// input, with a configurable trigger policy and rollover semantics
// matching spec §8's literal scenarios 1 and 2.
//
// Grounded on burstgridgo's modules/print Module{}/Register(*Registry)
// registration pattern (modules/print/module.go), generalized from a
// reflection-invoked runner to a blocktype.Type implementation.
package counter

import (
	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/block"
	"github.com/mdsebald/LinkBlocks/internal/blocktype"
	"github.com/mdsebald/LinkBlocks/internal/validate"
	"github.com/mdsebald/LinkBlocks/internal/value"
)

const (
	typeName = "counter"
	version  = "1.0.0"
)

// Type implements blocktype.Type for the counter block.
type Type struct{}

// Register adds the counter type to reg under "counter".
func Register(reg *blocktype.Registry) error {
	return reg.Register(typeName, Type{})
}

func (Type) DefaultConfigs(name, description string) *attr.Container {
	own := attr.New(attr.Config)
	_ = own.Add(attr.Attribute{Name: "trigger", Value: value.Symbol("false_true")})
	_ = own.Add(attr.Attribute{Name: "initial_value", Value: value.Int(0)})
	_ = own.Add(attr.Attribute{Name: "final_value", Value: value.Int(9)})
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
	own := attr.New(attr.Output)
	_ = own.Add(attr.Attribute{Name: "carry", Value: value.NotActive()})
	merged, _ := attr.Merge(block.CommonOutputs(), own)
	return merged
}

func (Type) DefaultPrivate() *attr.Container {
	p := attr.New(attr.Private)
	_ = p.Add(attr.Attribute{Name: "last_input", Value: value.Bool(false)})
	return p
}

func (Type) Create(name, description string, cfg, in, out *attr.Container) (*blocktype.Instance, error) {
	return &blocktype.Instance{Config: cfg, Input: in, Output: out}, nil
}

func (Type) Upgrade(inst *blocktype.Instance) (*blocktype.Instance, error) {
	_ = inst.Config.Set("version", value.String(version))
	return inst, nil
}

func (Type) Initialize(inst *blocktype.Instance) (*blocktype.Instance, error) {
	initV, notActive, err := validate.Int(inst.Config, "initial_value", false, 0, 0)
	if err != nil || notActive {
		_ = inst.Output.Set("status", value.Symbol("config_error"))
		return inst, nil
	}
	_ = inst.Output.Set("value", value.Int(initV))
	_ = inst.Output.Set("carry", value.NotActive())

	inputDefault, _, _ := validate.Bool(inst.Input, "input")
	_ = inst.Private.Set("last_input", value.Bool(inputDefault))
	return inst, nil
}

func (Type) Execute(inst *blocktype.Instance, method blocktype.ExecMethod) (*blocktype.Instance, error) {
	fail := func(status string) (*blocktype.Instance, error) {
		for _, a := range inst.Output.All() {
			if a.Name == "status" {
				continue
			}
			_ = inst.Output.Set(a.Name, value.NotActive())
		}
		_ = inst.Output.Set("status", value.Symbol(status))
		return inst, nil
	}

	trigger, triggerNA, terr := validate.Symbol(inst.Config, "trigger")
	finalV, finalNA, ferr := validate.Int(inst.Config, "final_value", false, 0, 0)
	if terr != nil || triggerNA || ferr != nil || finalNA {
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
		_ = inst.Output.Set("carry", value.NotActive())
		_ = inst.Output.Set("status", value.Symbol("normal"))
		return inst, nil
	}

	lastAttr, _ := inst.Private.Get("last_input")
	lastInput, _ := lastAttr.Value.Bool()

	var transition bool
	switch trigger {
	case "any_change":
		transition = inputVal != lastInput
	case "false_true":
		transition = !lastInput && inputVal
	case "true_false":
		transition = lastInput && !inputVal
	default:
		return fail("config_error")
	}

	curAttr, _ := inst.Output.Get("value")
	curVal, _ := curAttr.Value.Int()

	newVal := curVal
	newCarry := value.NotActive()
	if transition {
		tentative := curVal + 1
		switch {
		case tentative > finalV:
			newVal = 0
			newCarry = value.Bool(false)
		case tentative == finalV:
			newVal = tentative
			newCarry = value.Bool(true)
		default:
			newVal = tentative
		}
	}

	_ = inst.Output.Set("value", value.Int(newVal))
	_ = inst.Output.Set("carry", newCarry)
	_ = inst.Output.Set("status", value.Symbol("normal"))
	_ = inst.Private.Set("last_input", value.Bool(inputVal))
	return inst, nil
}

func (Type) Delete(inst *blocktype.Instance) (*blocktype.Instance, error) {
	return inst, nil
}
