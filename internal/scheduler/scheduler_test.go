package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRunsImmediately(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour, time.Second, func(ctx context.Context) {
		runs.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	assert.Eventually(t, func() bool { return runs.Load() == 1 },
		2*time.Second, 10*time.Millisecond)
	assert.True(t, s.Stop())
}

func TestSingleFlightCoalescesTriggers(t *testing.T) {
	var mu sync.Mutex
	var concurrent, peak, total int

	release := make(chan struct{})
	s := New(time.Hour, 5*time.Second, func(ctx context.Context) {
		mu.Lock()
		concurrent++
		if concurrent > peak {
			peak = concurrent
		}
		total++
		mu.Unlock()

		<-release

		mu.Lock()
		concurrent--
		mu.Unlock()
	})

	ctx := context.Background()
	s.trigger(ctx)

	// Wait for the first run to be in flight, then pile on triggers.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return concurrent == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.TriggerNow(ctx)
	s.TriggerNow(ctx)
	s.TriggerNow(ctx)

	release <- struct{}{} // finish first run, pending run starts
	release <- struct{}{} // finish pending run

	require.True(t, s.Stop())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, peak, "cycles must never overlap")
	assert.Equal(t, 2, total, "triggers while running collapse into one pending run")
}

func TestStopTimesOutOnStuckCycle(t *testing.T) {
	block := make(chan struct{})
	s := New(time.Hour, 50*time.Millisecond, func(ctx context.Context) {
		<-block
	})

	s.trigger(context.Background())
	time.Sleep(20 * time.Millisecond)

	assert.False(t, s.Stop(), "stop must give up after the grace period")
	close(block)
}

func TestCancelledContextSkipsPending(t *testing.T) {
	var runs atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	s := New(time.Hour, time.Second, func(ctx context.Context) {
		runs.Add(1)
		started <- struct{}{}
		<-release
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.trigger(ctx)
	<-started

	s.TriggerNow(ctx) // queued as pending
	cancel()          // pending run must not start
	close(release)

	require.True(t, s.Stop())
	assert.Equal(t, int32(1), runs.Load())
}
