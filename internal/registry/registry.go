// Package registry implements the block registry of spec §4.I: the
// process-wide directory of live blocks and the message surface (mailboxes)
// they expose, plus the per-block actor model described in §5 — one
// independently-scheduled goroutine per block, a serial FIFO mailbox, and
// the registry as the only shared state.
//
// Grounded on burstgridgo's dag.Graph, a sync.RWMutex-guarded
// map[string]*node (internal/dag/types.go) — the same "many lookups, rare
// register/unregister" discipline spec §5 calls for — and on
// internal/dag/executor.go's worker-pool-over-channel pattern, turned from
// a one-shot per-node task into a long-lived per-block mailbox loop.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/block"
	"github.com/mdsebald/LinkBlocks/internal/blocktype"
	"github.com/mdsebald/LinkBlocks/internal/ctxlog"
	"github.com/mdsebald/LinkBlocks/internal/kernel"
	"github.com/mdsebald/LinkBlocks/internal/timer"
	"github.com/mdsebald/LinkBlocks/internal/validate"
	"github.com/mdsebald/LinkBlocks/internal/value"
	"golang.org/x/sync/errgroup"
)

// Store persists exec tracking counters across restarts (spec §9 Open
// Question 1, resolved by internal/persist). A nil Store disables
// persistence, leaving the in-process-only behavior spec.md describes.
type Store interface {
	Load(blockName string) (execCount int64, lastExec int64, ok bool, err error)
	Save(blockName string, execCount int64, lastExec int64) error
	Delete(blockName string) error
}

// MetricsSink receives observations for the Prometheus collectors of
// internal/metrics. A nil sink disables metrics.
type MetricsSink interface {
	ObserveExec(blockName, status string, d time.Duration)
	SetTimersArmed(n int)
}

// Registry is the block_name -> actor directory. It is the only
// process-wide shared state (spec §5).
type Registry struct {
	mu     sync.RWMutex
	actors map[string]*actor

	types  *blocktype.Registry
	sched  *timer.Scheduler
	logger *slog.Logger
	store  Store
	sink   MetricsSink

	cancel context.CancelFunc
	ctx    context.Context
	g      *errgroup.Group
}

// New builds an empty registry. types is consulted to resolve block_type
// selectors at CreateBlock time; sched arms/cancels per-block timers; store
// and sink may be nil.
func New(types *blocktype.Registry, sched *timer.Scheduler, logger *slog.Logger, store Store, sink MetricsSink) *Registry {
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), logger))
	g, gctx := errgroup.WithContext(ctx)
	return &Registry{
		actors: make(map[string]*actor),
		types:  types,
		sched:  sched,
		logger: logger,
		store:  store,
		sink:   sink,
		cancel: cancel,
		ctx:    gctx,
		g:      g,
	}
}

// CreateBlock implements the create->initialize transition of spec §3's
// lifecycle: it merges defaults with the supplied overrides, registers the
// new block's actor under block_name (invariant 1), restores persisted exec
// counters if a Store is configured, and runs type-specific Initialize.
func (r *Registry) CreateBlock(typeName, name, description string, overrideCfg, overrideIn, overrideOut *attr.Container) error {
	t, ok := r.types.Lookup(typeName)
	if !ok {
		return fmt.Errorf("registry: unknown block type %q", typeName)
	}

	state, err := block.Create(t, typeName, name, description, overrideCfg, overrideIn, overrideOut)
	if err != nil {
		return err
	}
	if verr := validate.CheckLinkKinds(state.Input); verr != nil {
		return fmt.Errorf("registry: create %q: %w", name, verr)
	}

	if r.store != nil {
		if cnt, last, ok, err := r.store.Load(name); err != nil {
			r.logger.Error("load persisted exec counters failed", "block", name, "err", err)
		} else if ok {
			_ = state.Private.Set("exec_count", value.Int(cnt))
			_ = state.Private.Set("last_exec", value.Int(last))
		}
	}

	a := newActor(name, t, state, r, r.logger)
	if err := r.register(a); err != nil {
		return err
	}

	if err := kernel.Initialize(t, state, r.sched, a.fireTimer, r.logger); err != nil {
		r.unregister(name)
		return err
	}

	r.g.Go(func() error {
		a.run(r.ctx)
		return nil
	})
	return nil
}

// DeleteBlock implements the delete transition: it cancels the block's
// timer, runs type-specific Delete, and removes it from the registry.
func (r *Registry) DeleteBlock(name string) (*block.Definition, error) {
	a, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("registry: unknown block %q", name)
	}
	def, err := kernel.Delete(a.typ, a.state, r.sched)
	r.unregister(name)
	a.stop()
	if r.store != nil {
		if err := r.store.Delete(name); err != nil {
			r.logger.Error("delete persisted exec counters failed", "block", name, "err", err)
		}
	}
	return def, err
}

// Trigger delivers an execute trigger with the given exec method to a block
// from outside the graph.
func (r *Registry) Trigger(name string, method blocktype.ExecMethod) error {
	a, ok := r.lookup(name)
	if !ok {
		return fmt.Errorf("registry: unknown block %q", name)
	}
	a.TriggerExecute(method)
	return nil
}

// Names returns every registered block name, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actors))
	for n := range r.actors {
		names = append(names, n)
	}
	return names
}

// Shutdown cancels every block actor's context and waits for all to exit.
func (r *Registry) Shutdown() error {
	r.cancel()
	return r.g.Wait()
}

func (r *Registry) register(a *actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actors[a.name]; exists {
		return fmt.Errorf("registry: block %q already registered", a.name)
	}
	r.actors[a.name] = a
	return nil
}

func (r *Registry) unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actors, name)
}

func (r *Registry) lookup(name string) (*actor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actors[name]
	return a, ok
}

// Exists reports whether a block is registered, without exposing the actor
// itself.
func (r *Registry) Exists(name string) bool {
	_, ok := r.lookup(name)
	return ok
}
