package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func countingCallback(count *uint64) Callback {
	return func(string) error {
		atomic.AddUint64(count, 1)
		return nil
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, cond())
}

func TestStartValidation(t *testing.T) {
	s := New()
	cb := countingCallback(new(uint64))
	require.Error(t, s.Start("", time.Second, cb, false))
	require.Error(t, s.Start("d1", 0, cb, false))
	require.Error(t, s.Start("d1", time.Second, nil, false))
}

func TestPeriodicFires(t *testing.T) {
	s := New()
	defer s.StopAll()

	var count uint64
	require.NoError(t, s.Start("d1", 50*time.Millisecond, countingCallback(&count), false))

	waitFor(t, 2*time.Second, func() bool { return atomic.LoadUint64(&count) >= 3 })

	st, ok := s.Status("d1")
	require.True(t, ok)
	require.True(t, st.IsRunning)
	require.True(t, st.EmissionCount >= 3)
	require.False(t, st.NextFireAt.IsZero())
}

func TestEmitImmediately(t *testing.T) {
	s := New()
	defer s.StopAll()

	var count uint64
	require.NoError(t, s.Start("d1", time.Hour, countingCallback(&count), true))
	require.Equal(t, uint64(1), atomic.LoadUint64(&count))

	st, ok := s.Status("d1")
	require.True(t, ok)
	require.Equal(t, uint64(1), st.EmissionCount)
}

func TestNoFiresAfterStop(t *testing.T) {
	s := New()

	var count uint64
	require.NoError(t, s.Start("d1", 30*time.Millisecond, countingCallback(&count), false))
	waitFor(t, 2*time.Second, func() bool { return atomic.LoadUint64(&count) >= 1 })

	s.Stop("d1")
	at := atomic.LoadUint64(&count)
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, at, atomic.LoadUint64(&count))

	st, ok := s.Status("d1")
	require.True(t, ok)
	require.False(t, st.IsRunning)
	require.Equal(t, at, st.EmissionCount, "counters survive Stop")

	// Stop is idempotent.
	s.Stop("d1")
	s.Stop("never-started")
}

func TestRestartPreservesCounters(t *testing.T) {
	s := New()
	defer s.StopAll()

	var count uint64
	require.NoError(t, s.Start("d1", time.Hour, countingCallback(&count), true))
	s.Stop("d1")
	require.NoError(t, s.Start("d1", time.Hour, countingCallback(&count), true))

	st, ok := s.Status("d1")
	require.True(t, ok)
	require.Equal(t, uint64(2), st.EmissionCount)
}

func TestDeviceIsolationOnError(t *testing.T) {
	s := New()
	defer s.StopAll()

	var okCount uint64
	require.NoError(t, s.Start("bad", 30*time.Millisecond, func(string) error {
		return errors.New("emission failed")
	}, false))
	require.NoError(t, s.Start("good", 30*time.Millisecond, countingCallback(&okCount), false))

	waitFor(t, 2*time.Second, func() bool { return atomic.LoadUint64(&okCount) >= 3 })

	bad, ok := s.Status("bad")
	require.True(t, ok)
	require.True(t, bad.IsRunning, "failing callback keeps its schedule")
	require.True(t, bad.ErrorCount >= 1)
	require.Zero(t, bad.EmissionCount)
}

func TestCallbackPanicIsRecorded(t *testing.T) {
	s := New()
	defer s.StopAll()

	require.NoError(t, s.Start("d1", time.Hour, func(string) error {
		panic("boom")
	}, true))

	st, ok := s.Status("d1")
	require.True(t, ok)
	require.True(t, st.IsRunning)
	require.Equal(t, uint64(1), st.ErrorCount)
}

func TestNextFireAdvancesFromScheduledTime(t *testing.T) {
	s := New()
	defer s.StopAll()

	interval := 300 * time.Millisecond
	require.NoError(t, s.Start("d1", interval, func(string) error {
		time.Sleep(150 * time.Millisecond) // delayed, but faster than the interval
		return nil
	}, false))

	first, ok := s.Status("d1")
	require.True(t, ok)
	require.False(t, first.NextFireAt.IsZero())

	waitFor(t, 3*time.Second, func() bool {
		st, _ := s.Status("d1")
		return !st.NextFireAt.Equal(first.NextFireAt)
	})

	// The next deadline is the previous deadline plus the interval; callback
	// execution time must not push it out.
	st, ok := s.Status("d1")
	require.True(t, ok)
	require.True(t, st.NextFireAt.Equal(first.NextFireAt.Add(interval)),
		"next fire %v, want %v", st.NextFireAt, first.NextFireAt.Add(interval))
}

func TestSlowCallbackResynchronizesWithoutBurst(t *testing.T) {
	s := New()
	defer s.StopAll()

	var mu sync.Mutex
	var fires []time.Time
	require.NoError(t, s.Start("d1", 40*time.Millisecond, func(string) error {
		mu.Lock()
		fires = append(fires, time.Now())
		mu.Unlock()
		time.Sleep(100 * time.Millisecond) // slower than the interval
		return nil
	}, false))

	waitFor(t, 3*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fires) >= 3
	})
	s.Stop("d1")

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(fires); i++ {
		gap := fires[i].Sub(fires[i-1])
		require.True(t, gap >= 100*time.Millisecond,
			"catch-up burst: gap %v between fires %d and %d", gap, i-1, i)
	}
}

func TestUpdateInterval(t *testing.T) {
	s := New()
	defer s.StopAll()

	var count uint64
	require.NoError(t, s.Start("d1", time.Hour, countingCallback(&count), true))
	require.Equal(t, uint64(1), atomic.LoadUint64(&count))

	require.NoError(t, s.UpdateInterval("d1", 30*time.Millisecond))
	waitFor(t, 2*time.Second, func() bool { return atomic.LoadUint64(&count) >= 3 })

	st, ok := s.Status("d1")
	require.True(t, ok)
	require.Equal(t, 30*time.Millisecond, st.Interval)
	require.True(t, st.EmissionCount >= 3, "counters carry across interval changes")

	require.Error(t, s.UpdateInterval("d1", 0))
	require.Error(t, s.UpdateInterval("missing", time.Second))
	s.Stop("d1")
	require.Error(t, s.UpdateInterval("d1", time.Second), "stopped device cannot be retimed")
}

func TestStopAllAndAggregates(t *testing.T) {
	s := New()

	var count uint64
	for _, id := range []string{"d1", "d2", "d3"} {
		require.NoError(t, s.Start(id, time.Hour, countingCallback(&count), true))
	}
	require.Equal(t, 3, s.ActiveDevices())
	require.Equal(t, uint64(3), s.TotalEmissions())
	require.Zero(t, s.TotalErrors())

	s.StopAll()
	require.Zero(t, s.ActiveDevices())
	require.Equal(t, uint64(3), s.TotalEmissions(), "aggregates survive StopAll")

	running := s.RunningStatus()
	require.Empty(t, running)
	all := s.AllStatus()
	require.Len(t, all, 3)
	require.Equal(t, "d1", all[0].DeviceID)
}
