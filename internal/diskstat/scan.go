package diskstat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// ErrInvalidRoot is returned when the scan root does not exist or is not a directory.
var ErrInvalidRoot = errors.New("invalid root")

// Options configures a scan.
type Options struct {
	// Concurrent walks the immediate subdirectories of the root in parallel.
	Concurrent bool
	// Workers limits the number of parallel subtree walks (0=number of CPUs).
	Workers int
	// KeepFiles records per-file entries on every DirectoryNode.
	KeepFiles bool
	// Progress is invoked with the running file and byte counts.
	Progress func(files, bytes int64)
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives debug output. Nil discards it.
	Logger logrus.FieldLogger

	// listDir replaces readDir in tests.
	listDir func(string) ([]fs.DirEntry, error)
}

// discardLogger returns a logger that writes nowhere.
func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.progress())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// rootName returns the display name of the scan root. Volume roots such as
// "/" or "C:\" have no base name and display as their volume name, which is
// empty on unix.
func rootName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	base := filepath.Base(abs)
	if base == string(filepath.Separator) || base == "." || base == filepath.VolumeName(abs) {
		return filepath.VolumeName(abs)
	}

	return base
}

// resolveRoot validates path and returns the directory to walk. A symlinked
// root is resolved since the walkers never follow links below the root.
func resolveRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}

	// Normalize to native format to handle both C:/Path and C:\Path inputs
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: accessing path %q: %w", ErrInvalidRoot, path, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: path %q is not a directory", ErrInvalidRoot, path)
	}

	if linfo, err := os.Lstat(path); err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return "", fmt.Errorf("%w: resolving link %q: %w", ErrInvalidRoot, path, err)
		}

		return resolved, nil
	}

	return path, nil
}

// Scan walks the directory tree at root and aggregates sizes per directory
// and per extension. Regular files are counted; symlinks, devices, pipes and
// sockets are skipped and symlinked directories are never entered.
//
// Entries that cannot be read are recorded in ScanResult.Errors and
// contribute zero bytes. Scan fails only if root is invalid (ErrInvalidRoot)
// or ctx is cancelled.
//
// Both modes yield the same result, including child and error order.
func Scan(ctx context.Context, root string, opt Options) (*ScanResult, error) {
	log := opt.Logger
	if log == nil {
		log = discardLogger()
	}

	walkRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	node := &DirectoryNode{Name: rootName(root), Path: walkRoot}
	collector := newCollector(node, opt.KeepFiles)

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, collector, opt.Progress, opt.ProgressInterval)

	log.WithFields(logrus.Fields{
		"root":       walkRoot,
		"concurrent": opt.Concurrent,
	}).Debug("starting scan")

	start := time.Now()

	walk := walker{log: log, listDir: opt.listDir, workers: opt.Workers}
	if walk.listDir == nil {
		walk.listDir = readDir
	}

	if opt.Concurrent {
		err = walk.concurrent(ctx, collector, walkRoot)
	} else {
		err = walk.sequential(ctx, collector, walkRoot)
	}

	if err != nil {
		return nil, err
	}

	result := collector.finalize()
	result.Elapsed = time.Since(start)

	log.WithFields(logrus.Fields{
		"files":   result.FileCount,
		"dirs":    result.DirCount,
		"bytes":   result.TotalSize,
		"errors":  len(result.Errors),
		"elapsed": result.Elapsed,
	}).Debug("scan complete")

	return result, nil
}

