// Package dataflow implements the propagator of spec §4.G: detecting output
// value changes and pushing them into the linked inputs of other blocks.
//
// Grounded on the back-reference/forward-set bookkeeping discipline of
// burstgridgo's linkImplicitDeps/linkExplicitDeps (internal/dag/links.go,
// links_implicit.go) — there, a dependency edge is recorded on both the
// consumer and the producer side and kept consistent; here, the same two
// records are an input's Link and an output's Connections, generalized from
// a static one-shot graph edge into a live value push.
package dataflow

import (
	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/value"
)

// Update is one outbound dataflow message: a single output's new value,
// destined for every block in its connection set.
type Update struct {
	FromBlock  string
	OutputName string
	Value      value.Value
	Targets    []string
}

// Diff compares the previous and current output containers of fromBlock,
// pairing each current output with the previous output of the same name (an
// output with no previous counterpart counts as changed), and returns one
// Update per value output
// (execute_out excluded — that is control flow's channel, §4.H) whose value
// changed and that has at least one connection.
func Diff(fromBlock string, oldOutput, newOutput *attr.Container) []Update {
	var updates []Update
	for _, n := range newOutput.All() {
		if n.Name == "execute_out" {
			continue
		}
		if len(n.Connections) == 0 {
			continue
		}
		o, found := oldOutput.Get(n.Name)
		if found && o.Value.Equal(n.Value) {
			continue
		}
		targets := make([]string, 0, len(n.Connections))
		for t := range n.Connections {
			targets = append(targets, t)
		}
		updates = append(updates, Update{
			FromBlock:  fromBlock,
			OutputName: n.Name,
			Value:      n.Value,
			Targets:    targets,
		})
	}
	return updates
}

// Apply writes an incoming update into the one input attribute of input
// whose link matches (fromBlock, outputName). It reports whether a matching
// input was found; per spec §4.G, an update with no matching link is logged
// and dropped by the caller rather than treated as an error.
func Apply(input *attr.Container, fromBlock, outputName string, v value.Value) bool {
	for _, in := range input.All() {
		if in.Link.SourceBlock == fromBlock && in.Link.SourceOutput == outputName {
			_ = input.Set(in.Name, v)
			return true
		}
	}
	return false
}
