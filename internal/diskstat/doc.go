// Package diskstat provides disk usage analysis of a directory tree.
//
// It walks a directory hierarchy once, either depth-first in a single
// goroutine or with one task per top-level subdirectory, and aggregates
// per-directory sizes together with a flat per-extension total. Both modes
// keep directories and errors in listing order. Entries that cannot be
// read are recorded in an ErrorLog and skipped, so a scan of a valid root
// always yields a best-effort result.
//
// CountFiles gives a quick parallel estimate of the number of files, used
// to show determinate progress.
//
// The presentation helpers (Render, ReportExtensions, FormatSize) are pure
// functions over a ScanResult.
package diskstat
