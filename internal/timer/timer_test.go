package timer_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/mdsebald/LinkBlocks/internal/timer"
	"github.com/stretchr/testify/require"
)

func TestArm_RejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()
	s := timer.NewScheduler()
	_, err := s.Arm("b", 0, func() {})
	require.Error(t, err)
	_, err = s.Arm("b", -5, func() {})
	require.Error(t, err)
}

func TestArm_Fires(t *testing.T) {
	t.Parallel()
	s := timer.NewScheduler()
	var count atomic.Int32
	fired := make(chan struct{}, 1)

	_, err := s.Arm("b", 10, func() {
		count.Add(1)
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	require.GreaterOrEqual(t, count.Load(), int32(1))
}

func TestArm_ReArmCancelsFirst(t *testing.T) {
	t.Parallel()
	s := timer.NewScheduler()

	h1, err := s.Arm("b", 50*1000, func() {})
	require.NoError(t, err)
	require.Equal(t, 1, s.Armed())

	h2, err := s.Arm("b", 50*1000, func() {})
	require.NoError(t, err)
	require.NotEqual(t, h1, h2, "re-arm must issue a fresh handle")
	require.Equal(t, 1, s.Armed(), "re-arming the same block must not leave two live timers")

	s.Cancel(h2)
	require.Equal(t, 0, s.Armed())
}

func TestCancel_UnknownOrZeroIsNoop(t *testing.T) {
	t.Parallel()
	s := timer.NewScheduler()
	s.Cancel(0)
	s.Cancel(timer.Handle(9999))
	require.Equal(t, 0, s.Armed())
}

func TestArmed_MultiBlockExclusivity(t *testing.T) {
	t.Parallel()
	s := timer.NewScheduler()
	_, err := s.Arm("a", 50*1000, func() {})
	require.NoError(t, err)
	_, err = s.Arm("b", 50*1000, func() {})
	require.NoError(t, err)
	require.Equal(t, 2, s.Armed(), "distinct blocks get distinct live timers")
}
