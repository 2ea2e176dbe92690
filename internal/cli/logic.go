package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/diskstat/internal/diskstat"
	"github.com/idelchi/diskstat/internal/metrics"
	"github.com/idelchi/diskstat/internal/report"
	"github.com/idelchi/diskstat/internal/volume"
)

// newLogger creates a logger writing timestamped text to w.
func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(level)

	return logger
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

// estimate counts the files below path in the background. The returned
// value stays 0 until the count is complete.
func estimate(ctx context.Context, log logrus.FieldLogger, path string, workers int) *atomic.Int64 {
	expected := &atomic.Int64{}

	go func() {
		count, err := diskstat.CountFiles(ctx, path, workers)
		if err != nil {
			log.Debugf("estimating file count: %v", err)

			return
		}

		expected.Store(count)
	}()

	return expected
}

// progressLine returns a progress hook redrawing a status line on w. Once
// expected holds a count, the line also shows the share of files seen.
func progressLine(w io.Writer, expected *atomic.Int64) func(files, bytes int64) {
	return func(files, bytes int64) {
		msg := fmt.Sprintf("Scanning… %s files, %s",
			humanize.Comma(files), humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive

		if total := expected.Load(); total > 0 {
			msg += fmt.Sprintf(" (~%s%% of %s)",
				diskstat.FormatPercentage(min(files, total), total), humanize.Comma(total))
		}

		fmt.Fprintf(w, "\r\033[2K%s\r", msg)
	}
}

//nolint:funlen // Linear orchestration of the report steps
func (c CLI) logic(
	ctx context.Context,
	log *logrus.Logger,
	options Options,
	configFile string,
	stdout, stderr io.Writer,
) error {
	options.Scan.Logger = log

	if configFile != "" {
		log.Debugf("using configuration file %s", configFile)
	}

	enableProgress := options.Output != "json" && !options.Debug && isTerminal(stderr)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		expected := &atomic.Int64{}

		if options.Estimate {
			countCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			expected = estimate(countCtx, log, options.Path, options.Scan.Workers)
		}

		options.Scan.Progress = progressLine(stderr, expected)
	}

	result, err := diskstat.Scan(ctx, options.Path, options.Scan)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	for _, traversalErr := range result.Errors {
		log.WithField("kind", traversalErr.Kind).Warnf("skipped %s: %s", traversalErr.Path, traversalErr.Message)
	}

	var (
		info   *volume.Info
		volErr error
	)

	if !options.NoVolume && c.space != nil {
		space, err := c.space(ctx, options.Path)
		if err != nil {
			log.Warn(err)

			volErr = err
		} else {
			info = &space
		}
	}

	data := buildReport(options, result, info, volErr)

	switch options.Output {
	case "json":
		err = PrintJSON(newJSONReport(options, result, data), stdout)
	default:
		err = PrintText(data, stdout)
	}

	if err != nil {
		return err
	}

	if options.ReportDir != "" {
		text, err := report.Render(data)
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}

		path, err := report.WriteFile(options.ReportDir, options.Path, text)
		if err != nil {
			return err
		}

		log.Infof("report saved as %s", path)
	}

	if options.MetricsFile != "" {
		scan := metrics.NewScan(options.Path)
		scan.Observe(result, info)

		if err := scan.WriteFile(options.MetricsFile); err != nil {
			return err
		}

		log.Infof("metrics written to %s", options.MetricsFile)
	}

	return nil
}
