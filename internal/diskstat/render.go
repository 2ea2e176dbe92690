package diskstat

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortMode selects the order in which siblings are rendered.
type SortMode string

const (
	// SortListing keeps the order of the directory listing.
	SortListing SortMode = "listing"
	// SortName orders siblings by name, case-insensitively.
	SortName SortMode = "name"
	// SortSize orders siblings by size, largest first.
	SortSize SortMode = "size"
)

// SortModes lists the accepted sort modes.
//
//nolint:gochecknoglobals // Config constant
var SortModes = []SortMode{SortListing, SortName, SortSize}

// ParseSortMode validates s as a SortMode.
func ParseSortMode(s string) (SortMode, error) {
	mode := SortMode(strings.ToLower(s))
	if mode == "" {
		return SortListing, nil
	}

	if !slices.Contains(SortModes, mode) {
		return "", fmt.Errorf("invalid sort mode %q: must be one of %v", s, SortModes)
	}

	return mode, nil
}

// RenderOptions configures Render.
type RenderOptions struct {
	// Detailed adds one line per file below its directory.
	Detailed bool
	// Sort orders siblings.
	Sort SortMode
	// Descending reverses name order. Size order is always largest first.
	Descending bool
	// MaxDepth limits the rendered depth (0=unlimited).
	MaxDepth int
	// Indent is prepended once per depth level. Defaults to two spaces.
	Indent string
}

// Render produces one line per directory in the form
// "<indent><name>/ - <size> (<pct>%)", with percentages relative to total.
// In detailed mode each directory is followed by its subdirectories and
// then its files, the latter rendered as "<indent><name> - <size> (<pct>%)".
func Render(root *DirectoryNode, total int64, opt RenderOptions) []string {
	if root == nil {
		return nil
	}

	if opt.Indent == "" {
		opt.Indent = "  "
	}

	var lines []string

	renderNode(&lines, root, 0, total, opt)

	return lines
}

func renderNode(lines *[]string, node *DirectoryNode, depth int, total int64, opt RenderOptions) {
	indent := strings.Repeat(opt.Indent, depth)

	*lines = append(*lines, fmt.Sprintf("%s%s/ - %s (%s%%)",
		indent, node.Name, FormatSize(node.Size), FormatPercentage(node.Size, total)))

	if opt.MaxDepth > 0 && depth >= opt.MaxDepth {
		return
	}

	for _, child := range sortedChildren(node.Children, opt) {
		renderNode(lines, child, depth+1, total, opt)
	}

	if !opt.Detailed {
		return
	}

	fileIndent := indent + opt.Indent
	for _, file := range sortedFiles(node.Files, opt) {
		*lines = append(*lines, fmt.Sprintf("%s%s - %s (%s%%)",
			fileIndent, file.Name, FormatSize(file.Size), FormatPercentage(file.Size, total)))
	}
}

// compareEntries orders two siblings according to opt.
func compareEntries(nameA, nameB string, sizeA, sizeB int64, opt RenderOptions) int {
	byName := func() int {
		c := cmp.Or(
			strings.Compare(strings.ToLower(nameA), strings.ToLower(nameB)),
			strings.Compare(nameA, nameB),
		)
		if opt.Descending {
			return -c
		}

		return c
	}

	if opt.Sort == SortSize {
		if c := cmp.Compare(sizeB, sizeA); c != 0 {
			return c
		}
	}

	return byName()
}

// sortedChildren returns the children in render order without mutating the tree.
func sortedChildren(children []*DirectoryNode, opt RenderOptions) []*DirectoryNode {
	if opt.Sort == SortListing || opt.Sort == "" {
		return children
	}

	sorted := slices.Clone(children)
	slices.SortStableFunc(sorted, func(a, b *DirectoryNode) int {
		return compareEntries(a.Name, b.Name, a.Size, b.Size, opt)
	})

	return sorted
}

// sortedFiles returns the files in render order without mutating the tree.
func sortedFiles(files []FileEntry, opt RenderOptions) []FileEntry {
	if opt.Sort == SortListing || opt.Sort == "" {
		return files
	}

	sorted := slices.Clone(files)
	slices.SortStableFunc(sorted, func(a, b FileEntry) int {
		return compareEntries(a.Name, b.Name, a.Size, b.Size, opt)
	})

	return sorted
}
