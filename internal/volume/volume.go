// Package volume queries capacity and free space of the volume holding a path.
package volume

import (
	"context"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
)

// ErrUnavailable is returned when volume information cannot be obtained.
var ErrUnavailable = errors.New("volume information unavailable")

// Info describes the space of a volume in bytes.
type Info struct {
	// Path is the queried path.
	Path string `json:"path"`
	// Total is the capacity of the volume.
	Total int64 `json:"total"`
	// Free is the space available to the current user.
	Free int64 `json:"free"`
	// Used is Total minus Free.
	Used int64 `json:"used"`
}

// SpaceFunc returns volume information for path.
type SpaceFunc func(ctx context.Context, path string) (Info, error)

// Space queries the operating system for the volume holding path.
func Space(ctx context.Context, path string) (Info, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %q: %w", ErrUnavailable, path, err)
	}

	return newInfo(path, usage.Total, usage.Free), nil
}

//nolint:gosec // Volume sizes fit in int64
func newInfo(path string, total, free uint64) Info {
	if free > total {
		free = total
	}

	return Info{
		Path:  path,
		Total: int64(total),
		Free:  int64(free),
		Used:  int64(total - free),
	}
}
