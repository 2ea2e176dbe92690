// Package config loads optional diskstat settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the name of the configuration file searched for.
	FileName = "config.yaml"
	// PathLocal is the working directory.
	PathLocal = "."
	// PathGlobal is the system-wide configuration directory.
	PathGlobal = "/etc/diskstat"
)

// Config holds defaults for the command-line flags.
type Config struct {
	// Concurrent enables parallel traversal.
	Concurrent bool `yaml:"concurrent"`
	// Estimate pre-counts files to show determinate progress.
	Estimate bool `yaml:"estimate"`
	// Detailed lists files in the tree view.
	Detailed bool `yaml:"detailed"`
	// Sort is the tree sort mode.
	Sort string `yaml:"sort"`
	// Depth limits the rendered tree depth (0=unlimited).
	Depth int `yaml:"depth"`
	// Output is the output format (text or json).
	Output string `yaml:"output"`
	// ReportDir is the directory receiving report files.
	ReportDir string `yaml:"report_dir"`
	// MetricsFile is the Prometheus textfile to write.
	MetricsFile string `yaml:"metrics_file"`
	// Top limits the number of extension rows (0=all).
	Top int `yaml:"top"`
	// NoVolume skips the volume information query.
	NoVolume bool `yaml:"no_volume"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sort:     "listing",
		Output:   "text",
		LogLevel: "warn",
	}
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing configuration: %w", err)
	}

	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Level returns the configured log level.
func (c Config) Level() (logrus.Level, error) {
	if c.LogLevel == "" {
		return logrus.WarnLevel, nil
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	return level, nil
}

// SearchDirectories returns the directories searched for FileName, in order.
func SearchDirectories() []string {
	dirs := []string{PathLocal}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".diskstat"))
	}

	return append(dirs, PathGlobal)
}

// Find returns the first FileName present in dirs, or "" if there is none.
func Find(log logrus.FieldLogger, dirs []string) string {
	for _, dir := range dirs {
		path := filepath.Join(dir, FileName)

		log.Debugf("Checking for configuration file at %s", path)

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	return ""
}

// Load reads the configuration at path. An empty path searches dirs and
// falls back to Default when no file exists. It returns the file used.
func Load(log logrus.FieldLogger, path string, dirs []string) (Config, string, error) {
	if path == "" {
		path = Find(log, dirs)
		if path == "" {
			return Default(), "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, "", fmt.Errorf("reading configuration: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%s: %w", path, err)
	}

	return cfg, path, nil
}
