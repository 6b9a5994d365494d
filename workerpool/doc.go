// Package workerpool provides a fixed-size pool of goroutines draining one
// shared FIFO task queue.
//
// AddTask appends and signals an idle worker. WaitAll blocks until the atomic
// pending counter reaches zero and returns the joined errors of every task
// finished since the previous WaitAll. Task panics are recovered into
// ErrTaskPanic so a failing trial surfaces to the caller instead of killing
// the process. There is no priority and no cancellation of in-flight tasks.
//
//	p := workerpool.New(workerpool.WorkersFor(len(trials)))
//	for _, t := range trials {
//	    _ = p.AddTask(func() error { return run(t) })
//	}
//	err := p.Shutdown(true)
package workerpool
