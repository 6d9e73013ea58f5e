package validate_test

import (
	"testing"

	"github.com/mdsebald/LinkBlocks/internal/attr"
	"github.com/mdsebald/LinkBlocks/internal/validate"
	"github.com/mdsebald/LinkBlocks/internal/value"
	"github.com/stretchr/testify/require"
)

func newConfig(t *testing.T, attrs ...attr.Attribute) *attr.Container {
	c := attr.New(attr.Config)
	for _, a := range attrs {
		require.NoError(t, c.Add(a))
	}
	return c
}

func newInput(t *testing.T, attrs ...attr.Attribute) *attr.Container {
	c := attr.New(attr.Input)
	for _, a := range attrs {
		require.NoError(t, c.Add(a))
	}
	return c
}

func TestBool_NotFound(t *testing.T) {
	t.Parallel()
	c := newConfig(t)
	_, _, err := validate.Bool(c, "missing")
	require.Error(t, err)
	require.Equal(t, validate.NotFound, err.Kind)
}

func TestBool_BadType(t *testing.T) {
	t.Parallel()
	c := newConfig(t, attr.Attribute{Name: "x", Value: value.Int(1)})
	_, _, err := validate.Bool(c, "x")
	require.Error(t, err)
	require.Equal(t, validate.BadType, err.Kind)
}

func TestBool_NotActive(t *testing.T) {
	t.Parallel()
	c := newConfig(t, attr.Attribute{Name: "x", Value: value.NotActive()})
	v, notActive, err := validate.Bool(c, "x")
	require.Nil(t, err)
	require.True(t, notActive)
	require.False(t, v)
}

func TestBool_WrongContainerKind(t *testing.T) {
	t.Parallel()
	out := attr.New(attr.Output)
	require.NoError(t, out.Add(attr.Attribute{Name: "x", Value: value.Bool(true)}))
	_, _, err := validate.Bool(out, "x")
	require.Error(t, err)
	require.Equal(t, validate.NotConfig, err.Kind)
}

func TestInt_Range(t *testing.T) {
	t.Parallel()
	c := newConfig(t, attr.Attribute{Name: "n", Value: value.Int(50)})

	_, _, err := validate.Int(c, "n", true, 0, 10)
	require.Error(t, err)
	require.Equal(t, validate.Range, err.Kind)

	v, notActive, err := validate.Int(c, "n", true, 0, 100)
	require.Nil(t, err)
	require.False(t, notActive)
	require.Equal(t, int64(50), v)
}

func TestBadLink(t *testing.T) {
	t.Parallel()
	in := newInput(t, attr.Attribute{
		Name:  "input",
		Value: value.Empty(),
		Link:  attr.Link{SourceBlock: "A", SourceOutput: "value"},
	})
	_, _, err := validate.Bool(in, "input")
	require.Error(t, err)
	require.Equal(t, validate.BadLink, err.Kind)
}

func TestErrorToStatus(t *testing.T) {
	t.Parallel()
	cfg := attr.New(attr.Config)
	in := attr.New(attr.Input)

	require.Equal(t, "config_error", validate.ErrorToStatus(cfg, &validate.Error{Kind: validate.BadType}))
	require.Equal(t, "input_error", validate.ErrorToStatus(in, &validate.Error{Kind: validate.BadType}))
	require.Equal(t, "input_error", validate.ErrorToStatus(in, &validate.Error{Kind: validate.BadLink}))
}

func TestAny_NoDomainCheck(t *testing.T) {
	t.Parallel()
	c := newConfig(t, attr.Attribute{Name: "x", Value: value.Symbol("normal")})
	v, err := validate.Any(c, "x")
	require.Nil(t, err)
	sym, ok := v.Symbol()
	require.True(t, ok)
	require.Equal(t, "normal", sym)
}

func TestCheckLinkKinds_ValueInputLinkedToExecuteOutIsRejected(t *testing.T) {
	t.Parallel()
	in := newInput(t, attr.Attribute{
		Name: "enable", Value: value.Bool(true),
		Link: attr.Link{SourceBlock: "upstream", SourceOutput: "execute_out"},
	})
	err := validate.CheckLinkKinds(in)
	require.Error(t, err)
	require.Equal(t, validate.CrossingLink, err.Kind)
	require.Equal(t, "enable", err.Attribute)
}

func TestCheckLinkKinds_ExecuteInLinkedToValueOutputIsRejected(t *testing.T) {
	t.Parallel()
	in := newInput(t, attr.Attribute{
		Name: "execute_in", Value: value.NotActive(),
		Link: attr.Link{SourceBlock: "upstream", SourceOutput: "value"},
	})
	err := validate.CheckLinkKinds(in)
	require.Error(t, err)
	require.Equal(t, validate.CrossingLink, err.Kind)
	require.Equal(t, "execute_in", err.Attribute)
}

func TestCheckLinkKinds_MatchingKindsAreAccepted(t *testing.T) {
	t.Parallel()
	in := newInput(t,
		attr.Attribute{Name: "execute_in", Value: value.NotActive(), Link: attr.Link{SourceBlock: "a", SourceOutput: "execute_out"}},
		attr.Attribute{Name: "enable", Value: value.Bool(true), Link: attr.Link{SourceBlock: "b", SourceOutput: "value"}},
	)
	require.Nil(t, validate.CheckLinkKinds(in))
}

func TestCheckLinkKinds_UnlinkedInputsAreIgnored(t *testing.T) {
	t.Parallel()
	in := newInput(t, attr.Attribute{Name: "enable", Value: value.Bool(true)})
	require.Nil(t, validate.CheckLinkKinds(in))
}
