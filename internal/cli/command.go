// Package cli implements the diskstat command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idelchi/diskstat/internal/config"
	"github.com/idelchi/diskstat/internal/diskstat"
	"github.com/idelchi/diskstat/internal/volume"
)

// CLI represents the command-line interface.
type CLI struct {
	version    string
	space      volume.SpaceFunc
	configDirs []string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{
		version:    version,
		space:      volume.Space,
		configDirs: config.SearchDirectories(),
	}
}

// Options holds the parsed command-line settings.
type Options struct {
	// Path is the directory to analyze.
	Path string
	// Scan configures the traversal.
	Scan diskstat.Options
	// Render configures the tree view.
	Render diskstat.RenderOptions
	// Sort is the raw sort flag value.
	Sort string
	// Estimate pre-counts files to show determinate progress.
	Estimate bool
	// Output represents output format (text or json).
	Output string
	// ReportDir receives the text report file when set.
	ReportDir string
	// MetricsFile receives a Prometheus textfile when set.
	MetricsFile string
	// Top limits the extension report (0=all).
	Top int
	// NoVolume skips the volume information query.
	NoVolume bool
	// ConfigFile is an explicit configuration file.
	ConfigFile string
	// Debug indicates whether debug output is enabled.
	Debug bool
	// LogLevel is the effective log level.
	LogLevel logrus.Level
	// Version indicates whether to show version and exit.
	Version bool
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"text", "json"}

// Command builds the root cobra command.
//
//nolint:funlen // Flag definitions
func (c CLI) Command() *cobra.Command {
	var options Options

	cmd := &cobra.Command{
		Use:   "diskstat [flags] [path]",
		Short: "Analyze disk usage of a directory tree",
		Long: heredoc.Doc(`
			diskstat analyzes the disk usage of a directory tree.

			It reports the space of the volume holding the directory, a tree of all
			subdirectories annotated with their size and share of the total, and the
			usage per file extension sorted by size.

			Entries that cannot be read are skipped and listed in an error summary.
			Symbolic links are never followed and do not count towards any size.
		`),
		Example: heredoc.Doc(`
			diskstat ~/Downloads
			diskstat --concurrent --sort size --depth 2 /var
			diskstat --estimate --concurrent /home
			diskstat --detailed --report-dir "Disk Usage Logs" .
			diskstat -o json --metrics-file /var/lib/node_exporter/diskstat.prom /srv
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			options.Path = "."
			if len(args) > 0 {
				options.Path = args[0]
			}

			level := logrus.WarnLevel
			if options.Debug {
				level = logrus.DebugLevel
			}

			log := newLogger(cmd.ErrOrStderr(), level)

			cfg, used, err := config.Load(log, options.ConfigFile, c.configDirs)
			if err != nil {
				return err
			}

			if err := merge(cmd, cfg, &options); err != nil {
				return err
			}

			if err := validate(&options); err != nil {
				return err
			}

			log.SetLevel(options.LogLevel)

			return c.logic(cmd.Context(), log, options, used, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.BoolVarP(&options.Scan.Concurrent, "concurrent", "c", false, "Walk the tree in parallel")
	flags.IntVar(&options.Scan.Workers, "workers", 0, "Number of parallel walkers (0=number of CPUs)")
	flags.BoolVarP(&options.Estimate, "estimate", "e", false, "Count files first to show progress as a percentage")
	flags.BoolVarP(&options.Render.Detailed, "detailed", "D", false, "List files in the tree view")
	flags.StringVarP(&options.Sort, "sort", "s", "listing", "Tree order: listing, name or size")
	flags.BoolVar(&options.Render.Descending, "desc", false, "Reverse name order in the tree view")
	flags.IntVarP(&options.Render.MaxDepth, "depth", "d", 0, "Maximum depth of the tree view (0=unlimited)")
	flags.StringVarP(&options.Output, "output", "o", "text", "Output format: text or json")
	flags.StringVarP(&options.ReportDir, "report-dir", "r", "", "Also write the text report into this directory")
	flags.StringVar(&options.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	flags.IntVarP(&options.Top, "top", "t", 0, "Number of extensions to display (0=all)")
	flags.BoolVar(&options.NoVolume, "no-volume", false, "Skip volume space information")
	flags.StringVar(&options.ConfigFile, "config", "", "Configuration file (default: search for config.yaml)")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&options.Version, "version", "v", false, "Show version and exit")

	return cmd
}

// merge applies configuration values to every flag not set explicitly.
func merge(cmd *cobra.Command, cfg config.Config, options *Options) error {
	changed := cmd.Flags().Changed

	if !changed("concurrent") {
		options.Scan.Concurrent = cfg.Concurrent
	}

	if !changed("estimate") {
		options.Estimate = cfg.Estimate
	}

	if !changed("detailed") {
		options.Render.Detailed = cfg.Detailed
	}

	if !changed("sort") && cfg.Sort != "" {
		options.Sort = cfg.Sort
	}

	if !changed("depth") {
		options.Render.MaxDepth = cfg.Depth
	}

	if !changed("output") && cfg.Output != "" {
		options.Output = cfg.Output
	}

	if !changed("report-dir") {
		options.ReportDir = cfg.ReportDir
	}

	if !changed("metrics-file") {
		options.MetricsFile = cfg.MetricsFile
	}

	if !changed("top") {
		options.Top = cfg.Top
	}

	if !changed("no-volume") {
		options.NoVolume = cfg.NoVolume
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}

	if options.Debug {
		level = logrus.DebugLevel
	}

	options.LogLevel = level

	return nil
}

// validate checks option ranges and resolves the sort mode.
func validate(options *Options) error {
	if !slices.Contains(allowedOutputs, options.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
	}

	if options.Render.MaxDepth < 0 {
		return errors.New("depth cannot be negative")
	}

	if options.Top < 0 {
		return errors.New("top cannot be negative")
	}

	if options.Scan.Workers < 0 {
		return errors.New("workers cannot be negative")
	}

	mode, err := diskstat.ParseSortMode(options.Sort)
	if err != nil {
		return err
	}

	options.Render.Sort = mode
	options.Scan.KeepFiles = options.Render.Detailed

	return nil
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().ExecuteContext(context.Background())
}
