package diskstat

import (
	"cmp"
	"slices"
	"strings"
)

// ExtensionTotals maps an extension (with its leading dot, or "" for none)
// to the cumulative size of all files carrying it.
type ExtensionTotals map[string]int64

// Sum returns the total number of bytes across all extensions.
func (e ExtensionTotals) Sum() int64 {
	var sum int64
	for _, size := range e {
		sum += size
	}

	return sum
}

// ExtensionUsage is one row of an extension report.
type ExtensionUsage struct {
	// Extension is the bucket key, possibly empty.
	Extension string `json:"extension"`
	// Size is the cumulative size in bytes.
	Size int64 `json:"size"`
	// Formatted is Size rendered by FormatSize.
	Formatted string `json:"formatted"`
}

// Extension returns the extension of a file name: the suffix starting at
// the last dot, ignoring leading dots. Dotfiles such as ".bashrc" and names
// without a dot have no extension. Case is preserved.
func Extension(name string) string {
	base := strings.TrimLeft(name, ".")

	idx := strings.LastIndexByte(base, '.')
	if idx < 0 {
		return ""
	}

	return base[idx:]
}

// ReportExtensions orders the totals by size descending, breaking ties by
// extension ascending.
func ReportExtensions(totals ExtensionTotals) []ExtensionUsage {
	report := make([]ExtensionUsage, 0, len(totals))

	for ext, size := range totals {
		report = append(report, ExtensionUsage{
			Extension: ext,
			Size:      size,
			Formatted: FormatSize(size),
		})
	}

	slices.SortFunc(report, func(a, b ExtensionUsage) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}

		return strings.Compare(a.Extension, b.Extension)
	})

	return report
}
