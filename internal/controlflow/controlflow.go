// Package controlflow implements the control-flow dispatcher of spec §4.H:
// reading execute_out's connection set and delivering an execute trigger to
// every target, with busy targets coalescing extra triggers into one
// pending trigger.
//
// Grounded on burstgridgo's dependents-unlocking step in
// internal/dag/executor.go ("for _, dependent := range node.Dependents");
// there a completed node unlocks its dependents once, a one-shot DAG
// transition — here the same fan-out happens every tick, against a live
// per-block mailbox instead of a depCount decrement.
package controlflow

import "github.com/mdsebald/LinkBlocks/internal/attr"

// Targets returns the block names execute_out is currently wired to. Per
// spec §4.E step 6 this is read unconditionally every cycle, not diffed —
// unlike dataflow, control flow is not value-change gated.
func Targets(output *attr.Container) []string {
	execOut, ok := output.Get("execute_out")
	if !ok || len(execOut.Connections) == 0 {
		return nil
	}
	targets := make([]string, 0, len(execOut.Connections))
	for t := range execOut.Connections {
		targets = append(targets, t)
	}
	return targets
}

// Pending coalesces execute triggers arriving while a block's actor is busy
// running a cycle: any number of triggers collapse into a single pending
// one, delivered as soon as the current cycle finishes (spec §4.H).
type Pending struct {
	armed bool
}

// Mark records that a trigger arrived. Redundant marks while already armed
// are the coalescing: Mark is idempotent.
func (p *Pending) Mark() { p.armed = true }

// Take reports whether a trigger is pending and clears it.
func (p *Pending) Take() bool {
	if !p.armed {
		return false
	}
	p.armed = false
	return true
}
