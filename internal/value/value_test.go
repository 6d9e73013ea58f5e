package value_test

import (
	"testing"

	"github.com/mdsebald/LinkBlocks/internal/value"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestEqual(t *testing.T) {
	t.Parallel()

	require.True(t, value.Int(1).Equal(value.Int(1)))
	require.False(t, value.Int(1).Equal(value.Int(2)))
	require.False(t, value.Int(1).Equal(value.Float(1)))
	require.True(t, value.NotActive().Equal(value.NotActive()))
	require.True(t, value.Empty().Equal(value.Empty()))
	require.False(t, value.Empty().Equal(value.NotActive()))
	require.True(t, value.Symbol("normal").Equal(value.Symbol("normal")))
	require.False(t, value.Symbol("normal").Equal(value.Symbol("disabled")))
	require.False(t, value.Opaque(1).Equal(value.Opaque(1)), "opaque values are never equal")
}

func TestBoolIntFloatStringSymbolAccessors(t *testing.T) {
	t.Parallel()

	b, ok := value.Bool(true).Bool()
	require.True(t, ok)
	require.True(t, b)

	_, ok = value.Int(1).Bool()
	require.False(t, ok, "wrong-kind accessor must report false")

	i, ok := value.Int(42).Int()
	require.True(t, ok)
	require.Equal(t, int64(42), i)

	f, ok := value.Int(3).Float()
	require.True(t, ok, "Float must accept a promoted int")
	require.Equal(t, 3.0, f)

	s, ok := value.String("hi").String()
	require.True(t, ok)
	require.Equal(t, "hi", s)

	sym, ok := value.Symbol("normal").Symbol()
	require.True(t, ok)
	require.Equal(t, "normal", sym)
}

func TestOpaque(t *testing.T) {
	t.Parallel()

	type handle struct{ id int }
	h := &handle{id: 7}
	v := value.Opaque(h)

	got, ok := v.Opaque()
	require.True(t, ok)
	require.Same(t, h, got)

	_, ok = value.Int(1).Opaque()
	require.False(t, ok)
}

func TestFromCtyToCty(t *testing.T) {
	t.Parallel()

	v, err := value.FromCty(cty.NumberIntVal(7))
	require.NoError(t, err)
	i, ok := v.Int()
	require.True(t, ok)
	require.Equal(t, int64(7), i)

	v, err = value.FromCty(cty.NumberFloatVal(1.5))
	require.NoError(t, err)
	f, ok := v.Float()
	require.True(t, ok)
	require.Equal(t, 1.5, f)

	v, err = value.FromCty(cty.NullVal(cty.String))
	require.NoError(t, err)
	require.Equal(t, value.KindNull, v.Kind())

	v, err = value.FromCty(cty.UnknownVal(cty.Bool))
	require.NoError(t, err)
	require.True(t, v.IsNotActive())

	ctyOut, err := value.Bool(true).ToCty()
	require.NoError(t, err)
	require.True(t, ctyOut.True())

	_, err = value.Opaque(1).ToCty()
	require.Error(t, err, "opaque values cannot be serialized")
}
