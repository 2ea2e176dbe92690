package diskstat

import "time"

// FileEntry is a regular file directly inside a directory.
type FileEntry struct {
	// Name is the base name of the file.
	Name string `json:"name"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
}

// DirectoryNode is one directory of the scanned tree. Children and Files
// keep the order of the underlying directory listing.
type DirectoryNode struct {
	// Name is the base name used for display.
	Name string `json:"name"`
	// Path is the directory path as walked.
	Path string `json:"path"`
	// Size is the cumulative size of all regular files below the directory.
	Size int64 `json:"size"`
	// Failed is set when the directory could not be listed.
	Failed bool `json:"failed,omitempty"`
	// Children are the subdirectories.
	Children []*DirectoryNode `json:"children,omitempty"`
	// Files are the regular files, only kept when Options.KeepFiles is set.
	Files []FileEntry `json:"files,omitempty"`

	// own is the size of the files directly inside this directory.
	own int64
}

// accumulate sets Size of every node in the subtree to its own size plus
// the sizes of its children and returns the subtree size.
func (n *DirectoryNode) accumulate() int64 {
	size := n.own
	for _, child := range n.Children {
		size += child.accumulate()
	}

	n.Size = size

	return size
}

// ScanResult is the outcome of one traversal.
type ScanResult struct {
	// Root is the scanned directory.
	Root *DirectoryNode `json:"root"`
	// TotalSize is the size of Root, used as the percentage denominator.
	TotalSize int64 `json:"total_size"`
	// Extensions holds per-extension totals across the whole tree.
	Extensions ExtensionTotals `json:"extensions"`
	// Errors lists every entry that could not be read, in occurrence order.
	Errors []TraversalError `json:"errors"`
	// FileCount is the number of regular files counted.
	FileCount int64 `json:"file_count"`
	// DirCount is the number of directories in the tree, including the root.
	DirCount int64 `json:"dir_count"`
	// Elapsed is the wall-clock duration of the traversal.
	Elapsed time.Duration `json:"elapsed"`
}
