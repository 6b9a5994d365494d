package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvising/workerpool"
)

// TestPool_RunsEveryTaskOnce submits many tasks across several workers.
func TestPool_RunsEveryTaskOnce(t *testing.T) {
	const n = 1000
	p := workerpool.New(8)
	require.Equal(t, 8, p.Size())

	var hits [n]atomic.Int32
	for i := 0; i < n; i++ {
		i := i
		require.NoError(t, p.AddTask(func() error {
			hits[i].Add(1)
			return nil
		}))
	}
	require.NoError(t, p.WaitAll())
	require.Equal(t, 0, p.Pending())
	for i := range hits {
		require.Equal(t, int32(1), hits[i].Load(), "task %d", i)
	}
	require.NoError(t, p.Shutdown(true))
}

// TestPool_FIFO: a single worker runs tasks in submission order.
func TestPool_FIFO(t *testing.T) {
	p := workerpool.New(1)
	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 20; i++ {
		i := i
		_ = p.AddTask(func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, p.Shutdown(true))
	for i, v := range order {
		require.Equal(t, i, v)
	}
	require.Len(t, order, 20)
}

// TestPool_Errors: WaitAll surfaces and resets task errors; panics become
// ErrTaskPanic.
func TestPool_Errors(t *testing.T) {
	boom := errors.New("boom")
	p := workerpool.New(2)
	_ = p.AddTask(func() error { return boom })
	_ = p.AddTask(func() error { panic("stuck chain") })
	_ = p.AddTask(func() error { return nil })

	err := p.WaitAll()
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, workerpool.ErrTaskPanic)
	assert.Contains(t, err.Error(), "stuck chain")

	require.NoError(t, p.WaitAll(), "errors are reset after WaitAll")
	require.NoError(t, p.Shutdown(true))
}

// TestPool_Closed rejects tasks after shutdown and tolerates repeated calls.
func TestPool_Closed(t *testing.T) {
	p := workerpool.New(1)
	require.NoError(t, p.Shutdown(true))
	require.ErrorIs(t, p.AddTask(func() error { return nil }), workerpool.ErrPoolClosed)
	require.NoError(t, p.Shutdown(false))
}

// TestPool_ShutdownNoWait discards queued tasks but lets the running one finish.
func TestPool_ShutdownNoWait(t *testing.T) {
	p := workerpool.New(1)
	started := make(chan struct{})
	release := make(chan struct{})
	var ran atomic.Int32

	_ = p.AddTask(func() error {
		close(started)
		<-release
		ran.Add(1)
		return nil
	})
	_ = p.AddTask(func() error {
		ran.Add(10)
		return nil
	})
	<-started

	done := make(chan error, 1)
	go func() { done <- p.Shutdown(false) }()

	require.Eventually(t, func() bool { return p.Pending() == 1 }, time.Second, time.Millisecond)
	close(release)
	require.NoError(t, <-done)
	require.Equal(t, int32(1), ran.Load())
	require.Equal(t, 0, p.Pending())
}

func TestRun(t *testing.T) {
	var sum atomic.Int64
	tasks := make([]workerpool.Task, 10)
	for i := range tasks {
		v := int64(i + 1)
		tasks[i] = func() error { sum.Add(v); return nil }
	}
	require.NoError(t, workerpool.Run(3, tasks...))
	require.Equal(t, int64(55), sum.Load())
}

func TestWorkersFor(t *testing.T) {
	require.GreaterOrEqual(t, workerpool.MaxWorkers(), 1)
	require.Equal(t, 1, workerpool.WorkersFor(0))
	require.Equal(t, 1, workerpool.WorkersFor(1))
	require.LessOrEqual(t, workerpool.WorkersFor(1000), workerpool.MaxThreads)
	require.LessOrEqual(t, workerpool.WorkersFor(1000), workerpool.MaxWorkers())
}
