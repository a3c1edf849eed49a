package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configures ProcessParallel.
type ParallelOptions struct {
	// MaxWorkers bounds the number of concurrent workers.
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{MaxWorkers: 4}
}

// ProcessParallel runs itemFunc for every item on a bounded worker pool and
// returns results in input order. Per-item failures are collected, not
// fatal: the summary over many workbooks should survive one bad file.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	type itemResult struct {
		index  int
		result R
		err    error
	}

	jobs := make(chan int, len(items))
	results := make(chan itemResult, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					r, err := itemFunc(ctx, idx, items[idx])
					results <- itemResult{index: idx, result: r, err: err}
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
		}
		out[res.index] = res.result
	}
	return out, errs
}
