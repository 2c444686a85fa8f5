// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	dErrors "tosgate/pkg/domain-errors"
	"tosgate/pkg/platform/sentinel"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes   int32
	Errors      int32
	Conflicts   int32
	Unavailable int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.Conflicts + r.Unavailable
}

// RunConcurrent executes fn in parallel goroutines and collects results.
// Conflicts are store-level CAS losses; unavailable means the caller gave up retrying.
// All goroutines are released together to maximize contention.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, conflicts, unavailable atomic.Int32
	start := make(chan struct{})

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			case dErrors.HasCode(err, dErrors.CodeUnavailable):
				unavailable.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}

	close(start)
	wg.Wait()

	return &ConcurrentResult{
		Successes:   successes.Load(),
		Errors:      errs.Load(),
		Conflicts:   conflicts.Load(),
		Unavailable: unavailable.Load(),
	}
}
