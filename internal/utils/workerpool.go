package utils

import (
	"context"
	"errors"
	"sync"
)

// ParallelForEach runs fn for each item using at most workers goroutines.
// The returned slice is index-aligned with items. Items never started
// because ctx was cancelled carry ctx.Err().
func ParallelForEach[T any](ctx context.Context, items []T, workers int, fn func(context.Context, T) error) []error {
	errs := make([]error, len(items))
	if len(items) == 0 {
		return errs
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	started := make([]bool, len(items))
	taskChan := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskChan {
				errs[idx] = fn(ctx, items[idx])
			}
		}()
	}

submit:
	for i := range items {
		select {
		case <-ctx.Done():
			break submit
		case taskChan <- i:
			started[i] = true
		}
	}
	close(taskChan)
	wg.Wait()

	for i, ok := range started {
		if !ok {
			errs[i] = ctx.Err()
		}
	}
	return errs
}

// FirstError returns the first non-nil error from a slice of errors
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// CollectErrors collects all non-nil errors from a slice
func CollectErrors(errs []error) []error {
	var result []error
	for _, err := range errs {
		if err != nil {
			result = append(result, err)
		}
	}
	return result
}

// JoinErrors joins all non-nil errors, or returns nil
func JoinErrors(errs []error) error {
	return errors.Join(CollectErrors(errs)...)
}
