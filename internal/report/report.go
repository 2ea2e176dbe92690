// Package report renders a scan result as a human-readable text report.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/diskstat/internal/diskstat"
	"github.com/idelchi/diskstat/internal/volume"
)

// Template is the text report layout.
//
//go:embed report.tmpl
var Template string

// FileSuffix is appended to the root label to form the report file name.
const FileSuffix = " -- Disk Usage Log.txt"

// Data is the input of the report template.
type Data struct {
	// Path is the scanned root as given by the user.
	Path string
	// Volume is the volume information, nil if unavailable or disabled.
	Volume *volume.Info
	// VolumeErr is the reason Volume is missing, if any.
	VolumeErr error
	// Tree is the rendered directory tree.
	Tree []string
	// Extensions is the ordered extension report.
	Extensions []diskstat.ExtensionUsage
	// Errors groups traversal errors by kind.
	Errors []diskstat.ErrorGroup
	// TotalSize is the size of the scanned tree in bytes.
	TotalSize int64
	// FileCount is the number of files counted.
	FileCount int64
	// DirCount is the number of directories visited.
	DirCount int64
}

// heading returns the error summary heading for a kind.
func heading(kind diskstat.ErrorKind) string {
	switch kind {
	case diskstat.KindNotFound:
		return "Missing entries:"
	case diskstat.KindPermission:
		return "Entries with restricted access:"
	default:
		return "Locked entries / entries with path issues:"
	}
}

// extension quotes the empty extension so it stays visible.
func extension(ext string) string {
	if ext == "" {
		return `""`
	}

	return ext
}

// Render renders the report for data.
func Render(data Data) (string, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"size":    diskstat.FormatSize,
		"comma":   humanize.Comma,
		"ext":     extension,
		"heading": heading,
	}).Parse(Template)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Label returns the name identifying root in report file names: its base
// name, or for a volume root the volume name without colon ("root" on unix).
func Label(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}

	volumeName := filepath.VolumeName(abs)
	if strings.TrimPrefix(abs, volumeName) == string(filepath.Separator) {
		if label := strings.TrimSuffix(volumeName, ":"); label != "" {
			return label
		}

		return "root"
	}

	return filepath.Base(abs)
}

// WriteFile writes content to "<dir>/<label> -- Disk Usage Log.txt",
// creating dir if needed, and returns the file path.
func WriteFile(dir, root, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd // Standard directory permissions
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(dir, Label(root)+FileSuffix)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec,mnd // Report is not sensitive
		return "", fmt.Errorf("writing report: %w", err)
	}

	return path, nil
}
