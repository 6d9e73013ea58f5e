package config_test

import (
	"testing"

	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/config"
	"github.com/mdsebald/LinkBlocks/internal/value"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestToContainers_ExpandsOverridesIntoTypedValues(t *testing.T) {
	t.Parallel()
	d := config.Definition{
		Type: "counter", Name: "c1",
		Configs: []config.AttrOverride{{Name: "final_value", Value: cty.NumberIntVal(9)}},
		Inputs: []config.InputOverride{
			{Name: "input", Value: cty.NullVal(cty.DynamicPseudoType), Link: &config.LinkRef{SourceBlock: "up", SourceOutput: "value"}},
		},
		Outputs: []config.OutputOverride{{Name: "value", Connections: []string{"down"}}},
	}

	cfg, in, out, err := d.ToContainers()
	require.NoError(t, err)

	a, ok := cfg.Get("final_value")
	require.True(t, ok)
	n, _ := a.Value.Int()
	require.Equal(t, int64(9), n)

	ia, ok := in.Get("input")
	require.True(t, ok)
	require.Equal(t, "up", ia.Link.SourceBlock)
	require.Equal(t, "value", ia.Link.SourceOutput)

	oa, ok := out.Get("value")
	require.True(t, ok)
	require.True(t, oa.Connected("down"))
}

func TestToContainers_UnsupportedCtyTypeErrors(t *testing.T) {
	t.Parallel()
	d := config.Definition{
		Type: "counter", Name: "c1",
		Configs: []config.AttrOverride{{Name: "bad", Value: cty.ListValEmpty(cty.String)}},
	}
	_, _, _, err := d.ToContainers()
	require.Error(t, err)
}

func TestToContainers_CrossedLinkBetweenDataflowAndControlFlowErrors(t *testing.T) {
	t.Parallel()
	d := config.Definition{
		Type: "counter", Name: "c1",
		Inputs: []config.InputOverride{
			{Name: "enable", Value: cty.True, Link: &config.LinkRef{SourceBlock: "up", SourceOutput: "execute_out"}},
		},
	}
	_, _, _, err := d.ToContainers()
	require.Error(t, err)
}

func TestFromState_PrunesOutputValuesToConnectionsOnly(t *testing.T) {
	t.Parallel()
	cfg := attr.New(attr.Config)
	require.NoError(t, cfg.Add(attr.Attribute{Name: "final_value", Value: value.Int(9)}))

	in := attr.New(attr.Input)
	require.NoError(t, in.Add(attr.Attribute{
		Name: "input", Value: value.Bool(true),
		Link: attr.Link{SourceBlock: "up", SourceOutput: "value"},
	}))

	out := attr.New(attr.Output)
	require.NoError(t, out.Add(attr.Attribute{
		Name: "value", Value: value.Int(3),
		Connections: map[string]struct{}{"down": {}},
	}))

	def, err := config.FromState("counter", "c1", "", cfg, in, out)
	require.NoError(t, err)

	require.Equal(t, "counter", def.Type)
	require.Equal(t, "c1", def.Name)
	require.Len(t, def.Outputs, 1)
	require.Equal(t, "value", def.Outputs[0].Name)
	require.Equal(t, []string{"down"}, def.Outputs[0].Connections)

	require.Len(t, def.Inputs, 1)
	require.NotNil(t, def.Inputs[0].Link)
	require.Equal(t, "up", def.Inputs[0].Link.SourceBlock)
}

func TestFromState_OpaqueValueErrors(t *testing.T) {
	t.Parallel()
	cfg := attr.New(attr.Config)
	require.NoError(t, cfg.Add(attr.Attribute{Name: "handle", Value: value.Opaque(42)}))

	_, err := config.FromState("gpio_do", "g1", "", cfg, attr.New(attr.Input), attr.New(attr.Output))
	require.Error(t, err)
}
