package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/idelchi/diskstat/internal/diskstat"
	"github.com/idelchi/diskstat/internal/report"
	"github.com/idelchi/diskstat/internal/volume"
)

// jsonReport is the JSON representation of a complete analysis.
type jsonReport struct {
	Path           string                    `json:"path"`
	Volume         *volume.Info              `json:"volume,omitempty"`
	VolumeError    string                    `json:"volume_error,omitempty"`
	TotalSize      int64                     `json:"total_size"`
	TotalFormatted string                    `json:"total_formatted"`
	FileCount      int64                     `json:"file_count"`
	DirCount       int64                     `json:"dir_count"`
	Tree           *diskstat.DirectoryNode   `json:"tree"`
	Lines          []string                  `json:"lines"`
	Extensions     []diskstat.ExtensionUsage `json:"extensions"`
	Errors         []diskstat.TraversalError `json:"errors"`
	Elapsed        time.Duration             `json:"elapsed"`
}

// buildReport assembles the presentation data of a scan.
func buildReport(options Options, result *diskstat.ScanResult, info *volume.Info, volErr error) report.Data {
	extensions := diskstat.ReportExtensions(result.Extensions)
	if options.Top > 0 && len(extensions) > options.Top {
		extensions = extensions[:options.Top]
	}

	return report.Data{
		Path:       options.Path,
		Volume:     info,
		VolumeErr:  volErr,
		Tree:       diskstat.Render(result.Root, result.TotalSize, options.Render),
		Extensions: extensions,
		Errors:     diskstat.GroupErrors(result.Errors),
		TotalSize:  result.TotalSize,
		FileCount:  result.FileCount,
		DirCount:   result.DirCount,
	}
}

func newJSONReport(options Options, result *diskstat.ScanResult, data report.Data) jsonReport {
	out := jsonReport{
		Path:           options.Path,
		Volume:         data.Volume,
		TotalSize:      result.TotalSize,
		TotalFormatted: diskstat.FormatSize(result.TotalSize),
		FileCount:      result.FileCount,
		DirCount:       result.DirCount,
		Tree:           result.Root,
		Lines:          data.Tree,
		Extensions:     data.Extensions,
		Errors:         result.Errors,
		Elapsed:        result.Elapsed,
	}

	if data.VolumeErr != nil {
		out.VolumeError = data.VolumeErr.Error()
	}

	return out
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintText outputs the report in human-readable text format.
func PrintText(data report.Data, writer io.Writer) error {
	text, err := report.Render(data)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	_, err = io.WriteString(writer, text)

	return err
}
