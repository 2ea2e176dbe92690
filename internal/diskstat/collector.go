package diskstat

import (
	"path/filepath"
	"sync"
	"sync/atomic"
)

// counters are the running totals read by the progress reporter. They are
// shared between a collector and the collectors of its subtrees.
type counters struct {
	files atomic.Int64
	bytes atomic.Int64
}

// collector builds the directory tree and extension totals of one subtree.
// In concurrent mode every immediate subdirectory of the root gets its own
// collector, merged back in listing order once all tasks are done.
type collector struct {
	mu         sync.Mutex // Protect concurrent access
	keepFiles  bool
	root       *DirectoryNode
	dirs       map[string]*DirectoryNode
	extensions ExtensionTotals
	errors     *ErrorLog
	fileCount  int64
	totalBytes int64
	seen       *counters
}

// newCollector creates a collector rooted at root.
func newCollector(root *DirectoryNode, keepFiles bool) *collector {
	return &collector{
		keepFiles:  keepFiles,
		root:       root,
		dirs:       map[string]*DirectoryNode{filepath.Clean(root.Path): root},
		extensions: make(ExtensionTotals),
		errors:     &ErrorLog{},
		seen:       &counters{},
	}
}

// subtree creates a collector for node, a directory already registered in c,
// sharing c's progress counters.
func (c *collector) subtree(node *DirectoryNode) *collector {
	sub := newCollector(node, c.keepFiles)
	sub.seen = c.seen

	return sub
}

// parentOf returns the node owning path. Keys of dirs are cleaned paths; the
// root is the fallback for paths outside the map.
func (c *collector) parentOf(path string) *DirectoryNode {
	if parent, ok := c.dirs[filepath.Dir(path)]; ok {
		return parent
	}

	return c.root
}

// addDir registers a subdirectory under its parent and returns its node.
func (c *collector) addDir(path, name string) *DirectoryNode {
	c.mu.Lock()
	defer c.mu.Unlock()

	path = filepath.Clean(path)
	node := &DirectoryNode{Name: name, Path: path}
	parent := c.parentOf(path)
	parent.Children = append(parent.Children, node)
	c.dirs[path] = node

	return node
}

// addFile records a regular file of the given size.
func (c *collector) addFile(path, name string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parent := c.parentOf(path)
	parent.own += size

	if c.keepFiles {
		parent.Files = append(parent.Files, FileEntry{Name: name, Size: size})
	}

	c.extensions[Extension(name)] += size
	c.fileCount++
	c.totalBytes += size
	c.seen.files.Add(1)
	c.seen.bytes.Add(size)
}

// addError records err for path. If path is a known directory it is marked
// as failed.
func (c *collector) addError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.dirs[filepath.Clean(path)]; ok {
		node.Failed = true
	}

	c.errors.Record(path, err)
}

// merge absorbs the totals, directories and errors of a finished subtree.
// Errors of sub are appended after those already recorded in c.
func (c *collector) merge(sub *collector) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	for path, node := range sub.dirs {
		c.dirs[path] = node
	}

	for ext, size := range sub.extensions {
		c.extensions[ext] += size
	}

	for _, entry := range sub.errors.Drain() {
		c.errors.add(entry)
	}

	c.fileCount += sub.fileCount
	c.totalBytes += sub.totalBytes
}

// progress returns the running file and byte counters.
func (c *collector) progress() (files, bytes int64) {
	return c.seen.files.Load(), c.seen.bytes.Load()
}

// finalize computes cumulative sizes and produces the ScanResult.
func (c *collector) finalize() *ScanResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.root.accumulate()

	return &ScanResult{
		Root:       c.root,
		TotalSize:  total,
		Extensions: c.extensions,
		Errors:     c.errors.Drain(),
		FileCount:  c.fileCount,
		DirCount:   int64(len(c.dirs)),
	}
}
