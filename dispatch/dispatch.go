// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type result[T any] struct {
	index   int
	value   T
	err     error
	skipped bool
}

// Threads resolves a requested thread count: values <= 0 mean GOMAXPROCS.
func Threads(requested int) int {
	if requested <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return requested
}

// Ordered runs work(i) for i in [0, n) on at most threads goroutines and calls
// merge(i, value) on the caller's goroutine, strictly in increasing i.
// MAIN DESCRIPTION:
//   - Parallel map with a deterministic, single-writer fold.
//
// Implementation:
//   - Stage 1: a feeder goroutine submits the units to an errgroup limited to
//     threads; a failing unit cancels the units not yet started.
//   - Stage 2: every unit pushes its result on a queue buffered for n entries,
//     so workers never wait on the merge.
//   - Stage 3: the caller drains the queue, parks out-of-order results and
//     merges each index as soon as all lower ones are merged.
//
// Behavior highlights:
//   - With threads == 1 the units run inline, in order.
//   - After the first error no further merge happens. The returned error is
//     the first work error reported to the group, or the merge error.
//
// Complexity:
//   - Time O(n) scheduling overhead; Space O(n) for parked results in the
//     worst case.
func Ordered[T any](n, threads int, work func(i int) (T, error), merge func(i int, value T) error) error {
	if n <= 0 {
		return nil
	}
	threads = Threads(threads)
	if threads == 1 {
		for i := 0; i < n; i++ {
			v, err := work(i)
			if err != nil {
				return err
			}
			if err = merge(i, v); err != nil {
				return err
			}
		}

		return nil
	}

	results := make(chan result[T], n)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(threads)
	go func() {
		for i := 0; i < n; i++ {
			g.Go(func() error {
				if ctx.Err() != nil {
					results <- result[T]{index: i, skipped: true}
					return nil
				}
				v, err := work(i)
				results <- result[T]{index: i, value: v, err: err}

				return err
			})
		}
	}()

	var (
		pending  = make(map[int]T)
		next     int
		failed   bool
		mergeErr error
	)
	for received := 0; received < n; received++ {
		r := <-results
		if r.err != nil || r.skipped {
			failed = true
		}
		if failed {
			continue
		}
		pending[r.index] = r.value
		for {
			v, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := merge(next, v); err != nil {
				mergeErr, failed = err, true
				break
			}
			next++
		}
	}

	// every unit has reported, so no Go call can race with Wait
	if err := g.Wait(); err != nil {
		return err
	}

	return mergeErr
}

// Chunks splits [0, n) into consecutive ranges of at most size elements.
// size <= 0 yields a single range.
func Chunks(n, size int) [][2]int {
	if n <= 0 {
		return nil
	}
	if size <= 0 || size > n {
		size = n
	}
	out := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}

	return out
}
