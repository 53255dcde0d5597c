package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEachIndex partitions [0,n) into contiguous batches, one per worker,
// and runs fn over each batch concurrently via errgroup -- the
// generalized form of 0x5844/physics-2d's processCollisions/
// updateSleepStates batch-of-goroutines pattern (spec.md §4.9). Returns
// the first error any batch reports; a batch error does not stop other
// in-flight batches (errgroup cancels the group context, but batches
// don't check it -- each index's work is independent and idempotent).
func forEachIndex(ctx context.Context, n, workers int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	batch := (n + workers - 1) / workers
	g, _ := errgroup.WithContext(ctx)

	for start := 0; start < n; start += batch {
		end := start + batch
		if end > n {
			end = n
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// forEachRow runs fn over each of the given row indices concurrently,
// partitioned across workers the same way forEachIndex partitions flat
// ranges. Used for the nutrient field's interior-row FD update, which is
// indexed by grid row rather than particle index.
func forEachRow(ctx context.Context, rows []int, workers int, fn func(row int) error) error {
	if len(rows) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	batch := (len(rows) + workers - 1) / workers
	g, _ := errgroup.WithContext(ctx)

	for start := 0; start < len(rows); start += batch {
		end := start + batch
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]
		g.Go(func() error {
			for _, r := range chunk {
				if err := fn(r); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
