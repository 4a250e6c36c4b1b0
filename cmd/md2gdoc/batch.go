package main

import (
	"context"
	"sync"
	"time"
)

// jobResult holds the outcome of processing one source file.
type jobResult struct {
	Input    sourceFile
	Detail   string // output path or share link
	Err      error
	Duration time.Duration
}

// runBatch processes files concurrently with at most workers goroutines.
// Results keep the order of files. Files not yet started when ctx is
// cancelled report ctx.Err().
func runBatch(ctx context.Context, files []sourceFile, workers int, fn func(context.Context, sourceFile) (string, error)) []jobResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(workers, len(files))
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]jobResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = jobResult{Input: files[idx], Err: ctx.Err()}
					continue
				}
				start := time.Now()
				detail, err := fn(ctx, files[idx])
				results[idx] = jobResult{
					Input:    files[idx],
					Detail:   detail,
					Err:      err,
					Duration: time.Since(start),
				}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// firstError returns the first failure in results.
func firstError(results []jobResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
