package poller_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/poller"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/poller/pollertest"
)

const interval = 10 * time.Second

func TestStartRunsOnceAndSchedulesOne(t *testing.T) {
	clock := pollertest.NewClock()
	var calls atomic.Int32
	task := poller.New(interval, func(context.Context) bool {
		calls.Add(1)
		return true
	}, poller.WithClock(clock))

	require.NoError(t, task.Start(context.Background()))

	assert.Equal(t, int32(1), calls.Load())
	pending := clock.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, interval, pending[0].Delay)
	assert.True(t, task.Status().Scheduled)
}

func TestEachRunSchedulesExactlyOneNext(t *testing.T) {
	clock := pollertest.NewClock()
	var calls atomic.Int32
	task := poller.New(interval, func(context.Context) bool {
		calls.Add(1)
		return true
	}, poller.WithClock(clock))
	require.NoError(t, task.Start(context.Background()))

	for i := 0; i < 3; i++ {
		require.True(t, clock.FireNext())
		assert.Len(t, clock.Pending(), 1)
	}

	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, 4, clock.Scheduled())
	assert.Equal(t, int64(4), task.Status().Runs)
}

func TestNoRescheduleEndsChain(t *testing.T) {
	clock := pollertest.NewClock()
	var calls atomic.Int32
	task := poller.New(interval, func(context.Context) bool {
		calls.Add(1)
		return false
	}, poller.WithClock(clock))

	require.NoError(t, task.Start(context.Background()))

	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, clock.Pending())
	assert.Equal(t, 0, clock.Scheduled())
}

func TestStopPreventsScheduledRun(t *testing.T) {
	clock := pollertest.NewClock()
	var calls atomic.Int32
	task := poller.New(interval, func(context.Context) bool {
		calls.Add(1)
		return true
	}, poller.WithClock(clock))
	require.NoError(t, task.Start(context.Background()))

	task.Stop()

	assert.Empty(t, clock.Pending())
	// The callback may still arrive if Stop lost the race.
	assert.True(t, clock.FireStopped())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, task.Status().IsRunning)
}

func TestTriggerReplacesPendingRun(t *testing.T) {
	clock := pollertest.NewClock()
	var calls atomic.Int32
	task := poller.New(interval, func(context.Context) bool {
		calls.Add(1)
		return true
	}, poller.WithClock(clock))
	require.NoError(t, task.Start(context.Background()))

	task.Trigger()

	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, clock.Pending(), 1)
	assert.Equal(t, 2, clock.Scheduled())

	// The replaced timer is ignored even if it fires late.
	assert.True(t, clock.FireStopped())
	assert.Equal(t, int32(2), calls.Load())
}

func TestTriggerWhileStoppedIsNoop(t *testing.T) {
	clock := pollertest.NewClock()
	var calls atomic.Int32
	task := poller.New(interval, func(context.Context) bool {
		calls.Add(1)
		return true
	}, poller.WithClock(clock))

	task.Trigger()

	assert.Equal(t, int32(0), calls.Load())
}

func TestTriggerRestartsEndedChain(t *testing.T) {
	clock := pollertest.NewClock()
	var calls atomic.Int32
	task := poller.New(interval, func(context.Context) bool {
		return calls.Add(1) > 1
	}, poller.WithClock(clock))
	require.NoError(t, task.Start(context.Background()))
	require.Empty(t, clock.Pending())

	task.Trigger()

	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, clock.Pending(), 1)
}

func TestStartTwice(t *testing.T) {
	task := poller.New(interval, func(context.Context) bool { return false }, poller.WithClock(pollertest.NewClock()))

	require.NoError(t, task.Start(context.Background()))
	assert.ErrorIs(t, task.Start(context.Background()), poller.ErrAlreadyRunning)

	task.Stop()
	assert.NoError(t, task.Start(context.Background()))
}

func TestTriggerDuringRunCoalesces(t *testing.T) {
	clock := pollertest.NewClock()
	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	var calls, concurrent, maxConcurrent atomic.Int32

	task := poller.New(interval, func(context.Context) bool {
		n := concurrent.Add(1)
		if n > maxConcurrent.Load() {
			maxConcurrent.Store(n)
		}
		calls.Add(1)
		entered <- struct{}{}
		<-release
		concurrent.Add(-1)
		return true
	}, poller.WithClock(clock))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = task.Start(context.Background())
	}()
	<-entered

	assert.True(t, task.Status().InFlight)
	task.Trigger()
	task.Trigger()

	close(release)
	wg.Wait()

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), maxConcurrent.Load())
	assert.Len(t, clock.Pending(), 1)
}

func TestStopDuringRunDoesNotSchedule(t *testing.T) {
	clock := pollertest.NewClock()
	entered := make(chan struct{})
	release := make(chan struct{})

	task := poller.New(interval, func(context.Context) bool {
		close(entered)
		<-release
		return true
	}, poller.WithClock(clock))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = task.Start(context.Background())
	}()
	<-entered

	task.Stop()
	close(release)
	<-done

	assert.Equal(t, 0, clock.Scheduled())
	assert.False(t, task.Status().InFlight)
}

func TestCancelledContextStopsChain(t *testing.T) {
	clock := pollertest.NewClock()
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	task := poller.New(interval, func(context.Context) bool {
		calls.Add(1)
		return true
	}, poller.WithClock(clock))
	require.NoError(t, task.Start(ctx))

	cancel()
	require.True(t, clock.FireNext())

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, task.Status().IsRunning)
	assert.Empty(t, clock.Pending())
}

func TestRealClockSchedules(t *testing.T) {
	var calls atomic.Int32
	task := poller.New(5*time.Millisecond, func(context.Context) bool {
		calls.Add(1)
		return true
	})
	require.NoError(t, task.Start(context.Background()))
	defer task.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
}
