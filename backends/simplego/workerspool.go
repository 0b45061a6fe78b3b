package simplego

import (
	"runtime"
	"sync"
)

// workersPool limits the number of goroutines used to execute chunks of elementwise operations in parallel.
type workersPool struct {
	// maxParallelism is a soft target on the limit of parallel work to do.
	maxParallelism int
	mu             sync.Mutex
	cond           sync.Cond // Should be signaled whenever numRunning is decreased.
	numRunning     int
}

// Initialize should be called before use.
func (w *workersPool) Initialize() {
	w.maxParallelism = runtime.NumCPU()
	w.cond = sync.Cond{L: &w.mu}
}

// IsEnabled returns whether parallelism is enabled (maxParallelism is != 0)
func (w *workersPool) IsEnabled() bool {
	return w.maxParallelism != 0
}

// IsUnlimited returns whether parallelism is unlimited (maxParallelism < 0)
func (w *workersPool) IsUnlimited() bool {
	return w.maxParallelism < 0
}

// MaxParallelism is a soft-target for parallelism.
// If set to 0 parallelism is disabled.
// If set to -1 parallelism is unlimited.
func (w *workersPool) MaxParallelism() int {
	return w.maxParallelism
}

// SetMaxParallelism sets the maxParallelism.
//
// You should only change the parallelism before any workers start running. If changed during the execution
// the behavior is undefined.
func (w *workersPool) SetMaxParallelism(maxParallelism int) {
	w.maxParallelism = maxParallelism
}

// lockedIsFull returns whether all available workers are in use.
//
// It must be called with workerPool.mu acquired.
func (w *workersPool) lockedIsFull() bool {
	if w.maxParallelism == 0 {
		return true
	} else if w.maxParallelism < 0 {
		return false
	}
	return w.numRunning >= w.maxParallelism
}

// lockedRunTaskInGoroutine and keep tabs on w.numRunning.
//
// It must be called with workerPool.mu acquired.
func (w *workersPool) lockedRunTaskInGoroutine(task func()) {
	w.numRunning++
	go func() {
		task()
		w.mu.Lock()
		w.numRunning--
		w.cond.Signal()
		w.mu.Unlock()
	}()
}

// StartIfAvailable runs the task in a separate goroutine, if there are enough workers left.
// It returns true if it found workers to run the function, false otherwise.
//
// It's up to the client to synchronize the end of the function execution.
func (w *workersPool) StartIfAvailable(task func()) bool {
	if w.IsUnlimited() {
		go task()
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.lockedIsFull() {
		return false
	}
	w.lockedRunTaskInGoroutine(task)
	return true
}

// ParallelFor splits the range [0, n) in chunks of at least minChunk elements, and runs task on each of them,
// using the available workers. Chunks that can't find a free worker are run in the calling goroutine, so it
// never deadlocks, even if the pool is exhausted by concurrent calls.
//
// It returns when all chunks are finished. Panics in the tasks are re-raised in the calling goroutine, after
// all chunks finished.
func (w *workersPool) ParallelFor(n, minChunk int, task func(start, end int)) {
	if n <= 0 {
		return
	}
	minChunk = max(minChunk, 1)
	numChunks := 1
	if w.IsEnabled() && n >= 2*minChunk {
		numChunks = n / minChunk
		if !w.IsUnlimited() {
			numChunks = min(numChunks, w.maxParallelism)
		}
	}
	if numChunks <= 1 {
		task(0, n)
		return
	}

	chunkSize := (n + numChunks - 1) / numChunks
	var wg sync.WaitGroup
	var panicMu sync.Mutex
	var firstPanic any
	runChunk := func(start, end int) {
		defer func() {
			if r := recover(); r != nil {
				panicMu.Lock()
				if firstPanic == nil {
					firstPanic = r
				}
				panicMu.Unlock()
			}
		}()
		task(start, end)
	}
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		if !w.StartIfAvailable(func() {
			defer wg.Done()
			runChunk(start, end)
		}) {
			runChunk(start, end)
			wg.Done()
		}
	}
	wg.Wait()
	if firstPanic != nil {
		panic(firstPanic)
	}
}
