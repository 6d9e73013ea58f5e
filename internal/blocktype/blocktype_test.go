package blocktype_test

import (
	"testing"

	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/blocktype"
	"github.com/stretchr/testify/require"
)

type stubType struct{}

func (stubType) DefaultConfigs(name, description string) *attr.Container { return attr.New(attr.Config) }
func (stubType) DefaultInputs() *attr.Container                          { return attr.New(attr.Input) }
func (stubType) DefaultOutputs() *attr.Container                         { return attr.New(attr.Output) }
func (stubType) DefaultPrivate() *attr.Container                         { return attr.New(attr.Private) }
func (stubType) Create(name, description string, cfg, in, out *attr.Container) (*blocktype.Instance, error) {
	return &blocktype.Instance{Config: cfg, Input: in, Output: out}, nil
}
func (stubType) Upgrade(inst *blocktype.Instance) (*blocktype.Instance, error)    { return inst, nil }
func (stubType) Initialize(inst *blocktype.Instance) (*blocktype.Instance, error) { return inst, nil }
func (stubType) Execute(inst *blocktype.Instance, m blocktype.ExecMethod) (*blocktype.Instance, error) {
	return inst, nil
}
func (stubType) Delete(inst *blocktype.Instance) (*blocktype.Instance, error) { return inst, nil }

func TestRegister_DuplicateNameRejected(t *testing.T) {
	t.Parallel()
	r := blocktype.NewRegistry()
	require.NoError(t, r.Register("counter", stubType{}))
	err := r.Register("counter", stubType{})
	require.Error(t, err)
}

func TestLookup_UnknownTypeNotFound(t *testing.T) {
	t.Parallel()
	r := blocktype.NewRegistry()
	_, ok := r.Lookup("nope")
	require.False(t, ok)
}

func TestLookup_ReturnsRegisteredType(t *testing.T) {
	t.Parallel()
	r := blocktype.NewRegistry()
	want := stubType{}
	require.NoError(t, r.Register("counter", want))

	got, ok := r.Lookup("counter")
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestNames_ListsEveryRegisteredType(t *testing.T) {
	t.Parallel()
	r := blocktype.NewRegistry()
	require.NoError(t, r.Register("counter", stubType{}))
	require.NoError(t, r.Register("gpio_do", stubType{}))

	require.ElementsMatch(t, []string{"counter", "gpio_do"}, r.Names())
}
