package persist_test

import (
	"path/filepath"
	"testing"

	"github.com/mdsebald/LinkBlocks/internal/persist"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *persist.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := persist.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoad_UnknownBlockReportsNotFound(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	_, _, ok, err := s.Load("nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	require.NoError(t, s.Save("c1", 42, 1700000000))

	cnt, last, ok, err := s.Load("c1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(42), cnt)
	require.Equal(t, int64(1700000000), last)
}

func TestSave_OverwritesPreviousRecord(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	require.NoError(t, s.Save("c1", 1, 10))
	require.NoError(t, s.Save("c1", 2, 20))

	cnt, last, ok, err := s.Load("c1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), cnt)
	require.Equal(t, int64(20), last)
}

func TestDelete_RemovesRecord(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	require.NoError(t, s.Save("c1", 5, 50))
	require.NoError(t, s.Delete("c1"))

	_, _, ok, err := s.Load("c1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDelete_UnknownBlockIsNoop(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	require.NoError(t, s.Delete("never-existed"))
}

// TestReopen_SurvivesProcessRestart matches the durability this component
// exists for (spec §9 open question 1): counters saved before a Close must
// still be there after reopening the same file.
func TestReopen_SurvivesProcessRestart(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.db")

	s1, err := persist.Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Save("c1", 7, 99))
	require.NoError(t, s1.Close())

	s2, err := persist.Open(path)
	require.NoError(t, err)
	defer s2.Close()

	cnt, last, ok, err := s2.Load("c1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(7), cnt)
	require.Equal(t, int64(99), last)
}
