package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mdsebald/LinkBlocks/internal/block"
	"github.com/mdsebald/LinkBlocks/internal/blocktype"
	"github.com/mdsebald/LinkBlocks/internal/controlflow"
	"github.com/mdsebald/LinkBlocks/internal/ctxlog"
	"github.com/mdsebald/LinkBlocks/internal/dataflow"
	"github.com/mdsebald/LinkBlocks/internal/kernel"
	"github.com/mdsebald/LinkBlocks/internal/value"
)

// messageKind discriminates the inter-block messages of spec §6:
// update(from_block, output_name, new_value) and the execute triggers
// (execute_out_execute, timer_execute, and manual).
type messageKind int

const (
	msgUpdate messageKind = iota
	msgExecute
)

type message struct {
	kind       messageKind
	fromBlock  string
	outputName string
	value      value.Value
	method     blocktype.ExecMethod
}

// actor is one block's independently-scheduled goroutine: an owned mailbox,
// processed strictly in arrival order (spec §5 "atomic from the block's
// perspective"). Busy-coalescing of extra execute triggers (spec §4.H) is
// tracked with controlflow.Pending under mu.
type actor struct {
	name   string
	typ    blocktype.Type
	state  *block.State
	reg    *Registry
	logger *slog.Logger

	mailbox chan message
	done    chan struct{}

	mu            sync.Mutex
	busy          bool
	pending       controlflow.Pending
	pendingMethod blocktype.ExecMethod
}

func newActor(name string, t blocktype.Type, state *block.State, reg *Registry, logger *slog.Logger) *actor {
	return &actor{
		name:    name,
		typ:     t,
		state:   state,
		reg:     reg,
		logger:  logger,
		mailbox: make(chan message, 32),
		done:    make(chan struct{}),
	}
}

func (a *actor) stop() {
	close(a.done)
}

// fireTimer is the callback internal/timer invokes when this block's armed
// timer fires; it enqueues a timer-method execute trigger onto the block's
// own mailbox (spec §4.F "sends an execute trigger with exec_method = timer").
func (a *actor) fireTimer() {
	a.TriggerExecute(blocktype.ExecTimer)
}

// TriggerExecute delivers an execute trigger. If the actor is already
// running a cycle, the trigger coalesces into the single pending one
// instead of queuing a second cycle (spec §4.H).
func (a *actor) TriggerExecute(method blocktype.ExecMethod) {
	a.mu.Lock()
	if a.busy {
		a.pending.Mark()
		a.pendingMethod = method
		a.mu.Unlock()
		return
	}
	a.busy = true
	a.mu.Unlock()

	select {
	case a.mailbox <- message{kind: msgExecute, method: method}:
	case <-a.done:
	}
}

// SendUpdate delivers a dataflow update into this block's mailbox.
func (a *actor) SendUpdate(fromBlock, outputName string, v value.Value) {
	select {
	case a.mailbox <- message{kind: msgUpdate, fromBlock: fromBlock, outputName: outputName, value: v}:
	case <-a.done:
	}
}

// run is the actor's goroutine body. The logger travels in via ctx rather
// than only the constructor-supplied field, so a context cancelled with a
// request-scoped logger attached (tests, future per-load overrides) takes
// effect for the rest of this actor's life.
func (a *actor) run(ctx context.Context) {
	a.logger = ctxlog.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.done:
			return
		case msg, ok := <-a.mailbox:
			if !ok {
				return
			}
			a.handle(msg)
		}
	}
}

func (a *actor) handle(msg message) {
	switch msg.kind {
	case msgUpdate:
		if !dataflow.Apply(a.state.Input, msg.fromBlock, msg.outputName, msg.value) {
			a.logger.Warn("dataflow update: no matching linked input",
				"block", a.name, "from", msg.fromBlock, "output", msg.outputName)
			return
		}
		a.runCycle(blocktype.ExecInputChange)
	case msgExecute:
		a.runCycle(msg.method)
	}
}

func (a *actor) runCycle(method blocktype.ExecMethod) {
	start := time.Now()
	result, err := kernel.Cycle(a.typ, a.state, method, a.reg.sched, a.fireTimer, time.Now, a.logger)
	if err != nil {
		a.logger.Error("execute cycle failed", "block", a.name, "err", err)
	} else {
		a.deliver(result)
	}

	if a.reg.sink != nil {
		statusAttr, _ := a.state.Output.Get("status")
		status, _ := statusAttr.Value.Symbol()
		a.reg.sink.ObserveExec(a.name, status, time.Since(start))
		a.reg.sink.SetTimersArmed(a.reg.sched.Armed())
	}
	if a.reg.store != nil {
		cntAttr, _ := a.state.Private.Get("exec_count")
		lastAttr, _ := a.state.Private.Get("last_exec")
		cnt, _ := cntAttr.Value.Int()
		last, _ := lastAttr.Value.Int()
		if err := a.reg.store.Save(a.name, cnt, last); err != nil {
			a.logger.Error("persist exec counters failed", "block", a.name, "err", err)
		}
	}

	a.mu.Lock()
	if a.pending.Take() {
		method := a.pendingMethod
		a.mu.Unlock()
		select {
		case a.mailbox <- message{kind: msgExecute, method: method}:
		case <-a.done:
		}
		return
	}
	a.busy = false
	a.mu.Unlock()
}

// deliver routes a cycle's outbound effects to their target actors: a
// dataflow update per changed, connected output, then control-flow
// triggers for execute_out's connections (spec §4.E steps 5-6).
func (a *actor) deliver(result *kernel.Result) {
	for _, u := range result.DataflowUpdates {
		for _, target := range u.Targets {
			if t, ok := a.reg.lookup(target); ok {
				t.SendUpdate(u.FromBlock, u.OutputName, u.Value)
			} else {
				a.logger.Warn("dataflow update: target not registered", "target", target)
			}
		}
	}
	for _, target := range result.ControlTargets {
		if t, ok := a.reg.lookup(target); ok {
			t.TriggerExecute(blocktype.ExecIn)
		} else {
			a.logger.Warn("control-flow trigger: target not registered", "target", target)
		}
	}
}
