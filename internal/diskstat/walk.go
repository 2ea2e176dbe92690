package diskstat

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// walker traverses a directory tree into a collector.
type walker struct {
	log     logrus.FieldLogger
	listDir func(string) ([]fs.DirEntry, error)
	workers int
}

// readDir lists dir in the order the filesystem returns entries, unlike
// os.ReadDir which sorts by name. A listing error discards partial results,
// so a directory that fails midway contributes nothing.
func readDir(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// list returns the entries of dir, or records the failure on c.
func (w walker) list(c *collector, dir string) ([]fs.DirEntry, bool) {
	entries, err := w.listDir(dir)
	if err != nil {
		w.log.Debugf("error listing directory %s: %v", dir, err)
		c.addError(dir, err)

		return nil, false
	}

	return entries, true
}

// file adds a regular file to c and returns the error if its size cannot be read.
func (w walker) file(c *collector, path string, entry fs.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		w.log.Debugf("error reading file %s: %v", path, err)

		return err
	}

	c.addFile(path, entry.Name(), info.Size())

	return nil
}

// sequential lists dir and descends depth-first into subdirectories in
// listing order. Only cancellation is returned as an error.
func (w walker) sequential(ctx context.Context, c *collector, dir string) error {
	entries, ok := w.list(c, dir)
	if !ok {
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())

		switch {
		case entry.IsDir():
			c.addDir(path, entry.Name())

			if err := w.sequential(ctx, c, path); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := w.file(c, path, entry); err != nil {
				c.addError(path, err)
			}
		default:
			w.log.Debugf("skipping non-regular entry: %s", path)
		}
	}

	return nil
}

// concurrent lists root and walks every immediate subdirectory in its own
// task, at most w.workers at a time. Each task fills a private collector;
// once all tasks are done the subtrees and the errors of root's own files
// are merged back in listing order, which makes the result identical to
// sequential.
func (w walker) concurrent(ctx context.Context, c *collector, root string) error {
	entries, ok := w.list(c, root)
	if !ok {
		return nil
	}

	workers := w.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	subtrees := make([]*collector, len(entries))
	failures := make([]error, len(entries))

	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		path := filepath.Join(root, entry.Name())

		switch {
		case entry.IsDir():
			sub := c.subtree(c.addDir(path, entry.Name()))
			subtrees[i] = sub

			group.Go(func() error {
				return w.sequential(groupCtx, sub, path)
			})
		case entry.Type().IsRegular():
			failures[i] = w.file(c, path, entry)
		default:
			w.log.Debugf("skipping non-regular entry: %s", path)
		}
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	for i, entry := range entries {
		switch {
		case subtrees[i] != nil:
			c.merge(subtrees[i])
		case failures[i] != nil:
			c.addError(filepath.Join(root, entry.Name()), failures[i])
		}
	}

	return nil
}
