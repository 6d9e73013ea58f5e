// Package kernel implements the execution kernel of spec §4.E, the critical
// path shared by every block type: the enable gate, delegation to the
// block-type's Execute, status capture, exec tracking, timer re-arm, and the
// dataflow/control-flow effect computation consumed by the registry actor
// that actually delivers messages to other blocks.
//
// Grounded on internal/dag/executor.go's worker loop — run the unit of
// work, observe success or failure, then notify dependents — generalized
// from a one-shot DAG node into a repeating per-block tick, and on
// internal/dag/node_runner.go's pattern of invoking type-specific code
// through a narrow handler contract (here, blocktype.Type) rather than
// inlining it into the loop.
package kernel

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/block"
	"github.com/mdsebald/LinkBlocks/internal/blocktype"
	"github.com/mdsebald/LinkBlocks/internal/controlflow"
	"github.com/mdsebald/LinkBlocks/internal/dataflow"
	"github.com/mdsebald/LinkBlocks/internal/timer"
	"github.com/mdsebald/LinkBlocks/internal/validate"
	"github.com/mdsebald/LinkBlocks/internal/value"
)

// Clock returns the current time; exec tracking uses its monotonic
// microsecond reading. Tests inject a fixed clock for determinism.
type Clock func() time.Time

// Result is the outcome of one execution cycle: the block's new state plus
// the outbound effects the registry actor must deliver to other blocks.
type Result struct {
	State           *block.State
	DataflowUpdates []dataflow.Update
	ControlTargets  []string
}

// Cycle runs one execute cycle of state against exec method method,
// following spec §4.E's seven steps in order. sched is the shared timer
// scheduler; fire is invoked by sched when state's re-armed timer (if any)
// next fires, and must itself enqueue a timer-method trigger back onto this
// block's own mailbox — Cycle never calls fire directly.
func Cycle(t blocktype.Type, state *block.State, method blocktype.ExecMethod, sched *timer.Scheduler, fire func(), clock Clock, logger *slog.Logger) (*Result, error) {
	if clock == nil {
		clock = time.Now
	}
	oldOutput := state.Output.Clone()

	setError := func(tag string) {
		setNotActiveExcept(state.Output, "status")
		setStatus(state.Output, tag)
	}

	enabled, notActive, gateErr := validate.Bool(state.Input, "enable")
	switch {
	case gateErr != nil || notActive:
		logger.Warn("enable gate: not a boolean", "block", state.Name)
		setError("input_error")
	case !enabled:
		setError("disabled")
	default:
		newInst, err := t.Execute(state.Instance(), method)
		if err != nil {
			logger.Error("type execute failed", "block", state.Name, "err", err)
			setError("proc_err")
			break
		}
		state.ApplyInstance(newInst)
		statusAttr, _ := state.Output.Get("status")
		if status, ok := statusAttr.Value.Symbol(); ok && status == "normal" {
			trackExec(state.Private, method, clock)
		}
	}

	rearmTimer(state, sched, fire, logger)

	updates := dataflow.Diff(state.Name, oldOutput, state.Output)
	targets := controlflow.Targets(state.Output)

	return &Result{State: state, DataflowUpdates: updates, ControlTargets: targets}, nil
}

func setNotActiveExcept(out *attr.Container, except string) {
	for _, a := range out.All() {
		if a.Name == except {
			continue
		}
		_ = out.Set(a.Name, value.NotActive())
	}
}

func setStatus(out *attr.Container, status string) {
	_ = out.Set("status", value.Symbol(status))
}

// trackExec implements step 3's tracking update: record exec_method, the
// current monotonic-microsecond timestamp, and increment exec_count modulo
// 1,000,000,000 (spec §8 "counter rollover").
func trackExec(private *attr.Container, method blocktype.ExecMethod, clock Clock) {
	_ = private.Set("exec_method", value.Symbol(string(method)))
	_ = private.Set("last_exec", value.Int(clock().UnixMicro()))

	cur, ok := private.Get("exec_count")
	var n int64
	if ok {
		n, _ = cur.Value.Int()
	}
	n = (n + 1) % 1_000_000_000
	_ = private.Set("exec_count", value.Int(n))
}

// rearmTimer implements step 4: cancel any existing timer, then arm a new
// one iff execute_interval is a positive integer. Errors force all
// non-status outputs to not_active with the matching error tag, overriding
// whatever steps 1-3 produced.
func rearmTimer(state *block.State, sched *timer.Scheduler, fire func(), logger *slog.Logger) {
	raw, verr := validate.Any(state.Config, "execute_interval")
	fail := func(tag string) {
		setNotActiveExcept(state.Output, "status")
		setStatus(state.Output, tag)
	}
	if verr != nil {
		logger.Error("execute_interval missing", "block", state.Name)
		fail("config_error")
		return
	}
	iv, isInt := raw.Int()
	if !isInt {
		fail("config_error")
		return
	}
	if iv < 0 {
		fail("input_error")
		return
	}

	if h, ok := currentTimerHandle(state.Private); ok {
		sched.Cancel(h)
	}
	if iv == 0 {
		_ = state.Private.Set("timer_ref", value.Empty())
		return
	}

	h, err := sched.Arm(state.Name, iv, fire)
	if err != nil {
		logger.Error("timer arm failed", "block", state.Name, "err", err)
		fail("process_error")
		return
	}
	_ = state.Private.Set("timer_ref", value.Opaque(h))
}

func currentTimerHandle(private *attr.Container) (timer.Handle, bool) {
	a, ok := private.Get("timer_ref")
	if !ok {
		return 0, false
	}
	raw, ok := a.Value.Opaque()
	if !ok {
		return 0, false
	}
	h, ok := raw.(timer.Handle)
	return h, ok
}

// Initialize runs a block type's Initialize hook and arms its initial
// timer, matching the create->initialize transition of spec §3's lifecycle.
func Initialize(t blocktype.Type, state *block.State, sched *timer.Scheduler, fire func(), logger *slog.Logger) error {
	newInst, err := t.Initialize(state.Instance())
	if err != nil {
		return fmt.Errorf("kernel: initialize %q: %w", state.Name, err)
	}
	state.ApplyInstance(newInst)
	// A type's Initialize may already have set an error status (e.g.
	// proc_err on a driver failure, §7 "leave the block in proc_err
	// indefinitely until deleted"); only stamp the success status over the
	// create-time default.
	statusAttr, _ := state.Output.Get("status")
	if status, ok := statusAttr.Value.Symbol(); ok && status == "created" {
		_ = state.Output.Set("status", value.Symbol("initialed"))
	}
	rearmTimer(state, sched, fire, logger)
	return nil
}

// Delete cancels any armed timer and runs the block type's Delete hook,
// returning the pruned definition (no private state).
func Delete(t blocktype.Type, state *block.State, sched *timer.Scheduler) (*block.Definition, error) {
	if h, ok := currentTimerHandle(state.Private); ok {
		sched.Cancel(h)
	}
	newInst, err := t.Delete(state.Instance())
	if err != nil {
		return nil, fmt.Errorf("kernel: delete %q: %w", state.Name, err)
	}
	state.ApplyInstance(newInst)
	return state.ToDefinition(), nil
}
