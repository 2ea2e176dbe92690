package diskstat

import (
	"context"
	"io/fs"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// CountFiles returns the number of regular files below root using a parallel
// walk that follows no symlinks and skips unreadable entries. It only counts,
// so it is a cheap estimate of the work a Scan of root has to do, e.g. to
// show determinate progress while the scan runs.
//
//nolint:varnamelen // d is standard for DirEntry
func CountFiles(ctx context.Context, root string, workers int) (int64, error) {
	walkRoot, err := resolveRoot(root)
	if err != nil {
		return 0, err
	}

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: workers,
	}

	var count atomic.Int64

	err = fastwalk.Walk(conf, walkRoot, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable entries are the scan's concern
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.Type().IsRegular() {
			count.Add(1)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count.Load(), nil
}
