package report

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/diskstat/internal/diskstat"
	"github.com/idelchi/diskstat/internal/volume"
)

func sampleData() Data {
	return Data{
		Path:   "/data/root",
		Volume: &volume.Info{Path: "/data/root", Total: 4096, Free: 1024, Used: 3072},
		Tree: []string{
			"root/ - 35.00 B (100.00%)",
			"  sub/ - 5.00 B (14.29%)",
		},
		Extensions: diskstat.ReportExtensions(diskstat.ExtensionTotals{".TXT": 20, ".txt": 15, "": 0}),
		TotalSize:  35,
		FileCount:  1234,
		DirCount:   2,
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	out, err := Render(sampleData())
	require.NoError(t, err)

	assert.Contains(t, out, "Disk Usage Information for '/data/root':\n")
	assert.Contains(t, out, "Total space: 4.00 KB\n")
	assert.Contains(t, out, "Used space:  3.00 KB\n")
	assert.Contains(t, out, "Free space:  1.00 KB\n")
	assert.Contains(t, out, "\nDisk Usage Tree View:\nroot/ - 35.00 B (100.00%)\n  sub/ - 5.00 B (14.29%)\n")
	assert.Contains(t, out, "File Extension Usage (sorted by usage):\n.TXT: 20.00 B\n.txt: 15.00 B\n\"\": 0.00 B\n")
	assert.Contains(t, out, "Total: 35.00 B in 1,234 files, 2 directories")
	assert.NotContains(t, out, "Error Summary")
}

func TestRenderErrorsAndVolumeFailure(t *testing.T) {
	t.Parallel()

	data := sampleData()
	data.Volume = nil
	data.VolumeErr = errors.New("volume information unavailable: boom")
	data.Errors = diskstat.GroupErrors([]diskstat.TraversalError{
		{Path: "/data/root/locked", Message: "permission denied", Kind: diskstat.KindPermission},
		{Path: "/data/root/gone", Message: "no such file", Kind: diskstat.KindNotFound},
		{Path: "/data/root/busy", Message: "busy", Kind: diskstat.KindOther},
	})

	out, err := Render(data)
	require.NoError(t, err)

	assert.NotContains(t, out, "Disk Usage Information")
	assert.Contains(t, out, "volume information unavailable: boom\n")
	assert.Contains(t, out, "\n\nError Summary:\n")
	assert.Contains(t, out, "Missing entries:\n'/data/root/gone': no such file\n")
	assert.Contains(t, out, "Entries with restricted access:\n'/data/root/locked': permission denied\n")
	assert.Contains(t, out, "Locked entries / entries with path issues:\n'/data/root/busy': busy\n")
}

func TestLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "root", Label(filepath.Join("x", "root")))

	if runtime.GOOS != "windows" {
		assert.Equal(t, "root", Label("/"))
		assert.Equal(t, "usr", Label("/usr/"))
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "Disk Usage Logs")

	path, err := WriteFile(dir, filepath.Join("some", "photos"), "content\n")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "photos -- Disk Usage Log.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(data))
}
