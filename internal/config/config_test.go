package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
concurrent: true
estimate: true
detailed: true
sort: size
depth: 3
output: json
report_dir: logs
metrics_file: /tmp/diskstat.prom
top: 5
no_volume: true
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, Config{
		Concurrent:  true,
		Estimate:    true,
		Detailed:    true,
		Sort:        "size",
		Depth:       3,
		Output:      "json",
		ReportDir:   "logs",
		MetricsFile: "/tmp/diskstat.prom",
		Top:         5,
		NoVolume:    true,
		LogLevel:    "debug",
	}, cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, level)
}

func TestParseKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("top: 2\n"))
	require.NoError(t, err)

	want := Default()
	want.Top = 2
	assert.Equal(t, want, cfg)

	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("colour: blue\n"))
	require.Error(t, err)

	_, err = Parse([]byte("log_level: chatty\n"))
	require.Error(t, err)

	_, err = Parse([]byte("top: [1, 2]\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()
	withFile := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(withFile, FileName), []byte("sort: name\n"), 0o644))

	log, _ := test.NewNullLogger()

	cfg, used, err := Load(log, "", []string{empty})
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, Default(), cfg)

	cfg, used, err = Load(log, "", []string{empty, withFile})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(withFile, FileName), used)
	assert.Equal(t, "name", cfg.Sort)

	_, _, err = Load(log, filepath.Join(empty, "missing.yaml"), nil)
	require.Error(t, err)
}

func TestFindLogsCandidates(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	third := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, FileName), nil, 0o644))

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	assert.Equal(t, filepath.Join(second, FileName), Find(log, []string{first, second, third}))

	entries := hook.AllEntries()
	require.Len(t, entries, 2, "search stops at the first file found")

	for i, dir := range []string{first, second} {
		assert.Equal(t, logrus.DebugLevel, entries[i].Level)
		assert.Equal(t, "Checking for configuration file at "+filepath.Join(dir, FileName), entries[i].Message)
	}

	log.SetLevel(logrus.WarnLevel)
	hook.Reset()

	assert.Empty(t, Find(log, []string{first}))
	assert.Empty(t, hook.AllEntries())
}

func TestSearchDirectories(t *testing.T) {
	t.Parallel()

	dirs := SearchDirectories()
	require.NotEmpty(t, dirs)
	assert.Equal(t, PathLocal, dirs[0])
	assert.Equal(t, PathGlobal, dirs[len(dirs)-1])
}
