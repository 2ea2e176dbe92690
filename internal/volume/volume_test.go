package volume

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	info, err := Space(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, info.Path)
	assert.Positive(t, info.Total)
	assert.LessOrEqual(t, info.Free, info.Total)
	assert.Equal(t, info.Total-info.Free, info.Used)
}

func TestSpaceUnavailable(t *testing.T) {
	t.Parallel()

	_, err := Space(context.Background(), filepath.Join(t.TempDir(), "does", "not", "exist"))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNewInfo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Info{Path: "/", Total: 100, Free: 40, Used: 60}, newInfo("/", 100, 40))
	assert.Equal(t, Info{Path: "/", Total: 10, Free: 10, Used: 0}, newInfo("/", 10, 50))
}
