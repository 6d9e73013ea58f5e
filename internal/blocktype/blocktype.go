// Package blocktype implements the block type contract of spec §4.C: the
// interface every concrete block type satisfies, and a process-wide registry
// of type_name -> Type consulted when a persisted definition is loaded.
//
// The registration shape is grounded on burstgridgo's
// registry.Registry.RegisterRunner/RegisteredRunner (internal/registry/handlers.go):
// a name string maps to a small struct of functions, looked up by name at
// load time rather than resolved through any DI framework.
package blocktype

import (
	"fmt"
	"sync"

	"github.com/mdsebald/LinkBlocks/internal/attr"
)

// ExecMethod tags why an execute cycle ran (spec glossary).
type ExecMethod string

const (
	ExecTimer       ExecMethod = "timer"
	ExecIn          ExecMethod = "exec_in"
	ExecInputChange ExecMethod = "input_change"
	ExecManual      ExecMethod = "manual"
)

// Instance is the type-specific half of a block's runtime state: its config,
// input, output, and private attribute containers. The kernel (Component E)
// owns everything outside these four containers.
type Instance struct {
	Config  *attr.Container
	Input   *attr.Container
	Output  *attr.Container
	Private *attr.Container
}

// Type is the contract every block type implements (spec §4.C).
type Type interface {
	// DefaultConfigs returns the type's config defaults, already merged over
	// the common configs (block.CommonConfigs) by the implementation.
	DefaultConfigs(name, description string) *attr.Container
	// DefaultInputs returns the type's input defaults.
	DefaultInputs() *attr.Container
	// DefaultOutputs returns the type's output defaults.
	DefaultOutputs() *attr.Container
	// DefaultPrivate returns the type's private-attribute defaults, on top
	// of the four common private attributes (exec_count, last_exec,
	// timer_ref, exec_method) every block carries. Types with no extra
	// runtime state return an empty container.
	DefaultPrivate() *attr.Container

	// Create builds a definition-shaped instance from defaults merged with
	// any caller-supplied overrides.
	Create(name, description string, initCfg, initIn, initOut *attr.Container) (*Instance, error)

	// Upgrade reconciles a persisted instance whose code version differs
	// from the module's current version.
	Upgrade(inst *Instance) (*Instance, error)

	// Initialize performs type-specific setup: reads config, acquires
	// drivers, populates private attributes, sets the initial output.
	Initialize(inst *Instance) (*Instance, error)

	// Execute reads inputs and computes outputs. It must not update
	// exec_count, last_exec, or propagate anything itself.
	Execute(inst *Instance, method ExecMethod) (*Instance, error)

	// Delete releases drivers and returns the pruned (private-state-free)
	// config/input/output containers.
	Delete(inst *Instance) (*Instance, error)
}

// Registry maps type_name -> Type. It is populated once at startup and read
// many times thereafter (every block creation and upgrade), matching
// burstgridgo's own read-heavy registry discipline.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry returns an empty type registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds a block type under typeName. It fails if the name is
// already registered, mirroring burstgridgo's RegisterRunner duplicate-name
// check.
func (r *Registry) Register(typeName string, t Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[typeName]; exists {
		return fmt.Errorf("blocktype: type %q already registered", typeName)
	}
	r.types[typeName] = t
	return nil
}

// Lookup returns the type registered under typeName, if any.
func (r *Registry) Lookup(typeName string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[typeName]
	return t, ok
}

// Names returns every registered type name, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	return names
}
