package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/api/v1/reports/"})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "reports/r1.pdf", strings.NewReader("%PDF"), "application/pdf"))

	ok, err := s.Exists(ctx, "reports/r1.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, "reports/r1.pdf")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF", string(body))

	url, err := s.GetURL(ctx, "r1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/reports/r1.pdf", url)

	require.NoError(t, s.Delete(ctx, "reports/r1.pdf"))
	_, err = s.Get(ctx, "reports/r1.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x"), "text/plain"))

	_, err = os.Stat(filepath.Join(base, "escape.txt"))
	assert.NoError(t, err, "traversal must be clamped to the base directory")

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "s3"})
	assert.Error(t, err)
}

func TestLocalStorage_SaveReplacesAtomically(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "reports/r.pdf", strings.NewReader("first"), "application/pdf"))
	require.NoError(t, s.Save(ctx, "reports/r.pdf", strings.NewReader("second"), "application/pdf"))

	entries, err := os.ReadDir(filepath.Join(base, "reports"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")

	rc, err := s.Get(ctx, "reports/r.pdf")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(body))
}

func TestLocalStorage_SaveHonoursCancelledContext(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Save(ctx, "reports/r.pdf", strings.NewReader("x"), "application/pdf"), context.Canceled)
	ok, err := s.Exists(context.Background(), "reports/r.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}
