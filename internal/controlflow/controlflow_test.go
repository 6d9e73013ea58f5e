package controlflow_test

import (
	"testing"

	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/controlflow"
	"github.com/mdsebald/LinkBlocks/internal/value"
	"github.com/stretchr/testify/require"
)

func TestTargets_NoConnections(t *testing.T) {
	t.Parallel()
	out := attr.New(attr.Output)
	require.NoError(t, out.Add(attr.Attribute{Name: "execute_out", Value: value.NotActive()}))
	require.Empty(t, controlflow.Targets(out))
}

func TestTargets_UnconditionalEveryCycle(t *testing.T) {
	t.Parallel()
	out := attr.New(attr.Output)
	require.NoError(t, out.Add(attr.Attribute{
		Name: "execute_out", Value: value.NotActive(),
		Connections: map[string]struct{}{"B": {}, "C": {}},
	}))

	first := controlflow.Targets(out)
	second := controlflow.Targets(out)
	require.ElementsMatch(t, []string{"B", "C"}, first)
	require.ElementsMatch(t, []string{"B", "C"}, second, "targets are read every cycle, not diffed")
}

func TestPending_CoalescesMultipleMarks(t *testing.T) {
	t.Parallel()
	var p controlflow.Pending

	require.False(t, p.Take(), "nothing pending yet")

	p.Mark()
	p.Mark()
	p.Mark()

	require.True(t, p.Take(), "any number of marks coalesce into one pending trigger")
	require.False(t, p.Take(), "Take clears the pending flag")
}
