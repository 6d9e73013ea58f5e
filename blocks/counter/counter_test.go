package counter_test

import (
	"testing"

	"github.com/mdsebald/LinkBlocks/blocks/counter"
	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/block"
	"github.com/mdsebald/LinkBlocks/internal/blocktype"
	"github.com/mdsebald/LinkBlocks/internal/value"
	"github.com/stretchr/testify/require"
)

func newCounter(t *testing.T, overrideCfg *attr.Container) *block.State {
	if overrideCfg == nil {
		overrideCfg = attr.New(attr.Config)
	}
	s, err := block.Create(counter.Type{}, "counter", "c1", "", overrideCfg, attr.New(attr.Input), attr.New(attr.Output))
	require.NoError(t, err)
	_, err = counter.Type{}.Initialize(s.Instance())
	require.NoError(t, err)
	return s
}

func outputInt(t *testing.T, s *block.State, name string) int64 {
	a, ok := s.Output.Get(name)
	require.True(t, ok)
	v, ok := a.Value.Int()
	require.True(t, ok, "%s is not an int: %#v", name, a.Value)
	return v
}

// TestScenario1_FalseTrueNoRollover matches spec §8 scenario 1: trigger =
// false_true, initial_value = 0, final_value = 9. Delivering
// false,true,true,false,true must produce value outputs 0,1,1,1,2, with
// carry staying not_active throughout (it never reaches final_value).
func TestScenario1_FalseTrueNoRollover(t *testing.T) {
	t.Parallel()
	s := newCounter(t, nil) // defaults: false_true, initial 0, final 9

	inputs := []bool{false, true, true, false, true}
	wantValues := []int64{0, 1, 1, 1, 2}

	for i, in := range inputs {
		require.NoError(t, s.Input.Set("input", value.Bool(in)))
		newInst, err := counter.Type{}.Execute(s.Instance(), blocktype.ExecManual)
		require.NoError(t, err)
		s.ApplyInstance(newInst)

		require.Equal(t, wantValues[i], outputInt(t, s, "value"), "tick %d", i)

		carry, _ := s.Output.Get("carry")
		require.True(t, carry.Value.IsNotActive(), "tick %d: carry must stay not_active", i)
	}
}

// TestScenario2_Rollover matches spec §8 scenario 2: trigger = false_true,
// final_value = 9; nine false->true transitions drive value 1..9 with carry
// becoming true on the ninth, and the tenth transition wraps to 0 with
// carry = false.
func TestScenario2_Rollover(t *testing.T) {
	t.Parallel()
	cfg := attr.New(attr.Config)
	require.NoError(t, cfg.Add(attr.Attribute{Name: "final_value", Value: value.Int(9)}))
	s := newCounter(t, cfg)

	tick := func(level bool) {
		require.NoError(t, s.Input.Set("input", value.Bool(level)))
		newInst, err := counter.Type{}.Execute(s.Instance(), blocktype.ExecManual)
		require.NoError(t, err)
		s.ApplyInstance(newInst)
	}

	for i := int64(1); i <= 9; i++ {
		tick(false)
		tick(true)
		require.Equal(t, i, outputInt(t, s, "value"), "transition %d", i)
		carry, _ := s.Output.Get("carry")
		if i == 9 {
			b, ok := carry.Value.Bool()
			require.True(t, ok)
			require.True(t, b, "the ninth transition must set carry = true")
		} else {
			require.True(t, carry.Value.IsNotActive(), "transition %d: carry must be not_active", i)
		}
	}

	tick(false)
	tick(true)
	require.Equal(t, int64(0), outputInt(t, s, "value"), "the tenth transition must wrap to 0")
	carry, _ := s.Output.Get("carry")
	b, ok := carry.Value.Bool()
	require.True(t, ok)
	require.False(t, b, "the wrapping transition must set carry = false")
}

func TestAnyChangeTrigger(t *testing.T) {
	t.Parallel()
	cfg := attr.New(attr.Config)
	require.NoError(t, cfg.Add(attr.Attribute{Name: "trigger", Value: value.Symbol("any_change")}))
	s := newCounter(t, cfg)

	for _, in := range []bool{true, false, true} {
		require.NoError(t, s.Input.Set("input", value.Bool(in)))
		newInst, err := counter.Type{}.Execute(s.Instance(), blocktype.ExecManual)
		require.NoError(t, err)
		s.ApplyInstance(newInst)
	}
	require.Equal(t, int64(3), outputInt(t, s, "value"), "any_change increments on every transition")
}

func TestTrueFalseTrigger_IgnoresFalseToTrue(t *testing.T) {
	t.Parallel()
	cfg := attr.New(attr.Config)
	require.NoError(t, cfg.Add(attr.Attribute{Name: "trigger", Value: value.Symbol("true_false")}))
	s := newCounter(t, cfg)

	for _, in := range []bool{true} { // false -> true, no increment under true_false
		require.NoError(t, s.Input.Set("input", value.Bool(in)))
		newInst, err := counter.Type{}.Execute(s.Instance(), blocktype.ExecManual)
		require.NoError(t, err)
		s.ApplyInstance(newInst)
	}
	require.Equal(t, int64(0), outputInt(t, s, "value"))

	require.NoError(t, s.Input.Set("input", value.Bool(false)))
	newInst, err := counter.Type{}.Execute(s.Instance(), blocktype.ExecManual)
	require.NoError(t, err)
	s.ApplyInstance(newInst)
	require.Equal(t, int64(1), outputInt(t, s, "value"), "true->false must increment under true_false")
}

func TestExecute_BadLinkedInputSetsBadLinkStatus(t *testing.T) {
	t.Parallel()
	s := newCounter(t, nil)
	require.NoError(t, s.Input.SetLink("input", attr.Link{SourceBlock: "X", SourceOutput: "value"}))
	require.NoError(t, s.Input.Set("input", value.Empty()))

	newInst, err := counter.Type{}.Execute(s.Instance(), blocktype.ExecManual)
	require.NoError(t, err)
	s.ApplyInstance(newInst)

	status, _ := s.Output.Get("status")
	sym, _ := status.Value.Symbol()
	require.Equal(t, "bad_link", sym)
}
