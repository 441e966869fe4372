package canvas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/canvas/errs"
	"github.com/bodgit/canvas/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGifFilename(t *testing.T) {
	assert.Equal(t, "a/b.gif", gifFilename("a/b.bmp"))
	assert.Equal(t, "a/b.c.gif", gifFilename("a/b.c.BMP"))
	assert.True(t, isBitmap("x.BMP"))
	assert.True(t, isBitmap("x.dib"))
	assert.False(t, isBitmap("x.gif"))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()

	writeBitmap(t, filepath.Join(dir, "a.bmp"), testImage(t))
	writeBitmap(t, filepath.Join(dir, "sub", "b.BMP"), pixel.NewFilled(4, 4, pixel.Yellow))
	writeBitmap(t, filepath.Join(dir, "sub", "deeper", "c.dib"), pixel.NewFilled(2, 3, pixel.Cyan))
	writeBitmap(t, filepath.Join(dir, ".hidden", "d.bmp"), testImage(t))
	writeBitmap(t, filepath.Join(dir, "sub", ".e.bmp"), testImage(t))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("notes"), 0644))

	c, err := New(filepath.Join(t.TempDir(), "canvas.db"), nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Scan(dir))

	for _, file := range []string{"a.gif", "sub/b.gif", "sub/deeper/c.gif"} {
		_, err := os.Stat(filepath.Join(dir, file))
		assert.NoError(t, err, file)
	}

	for _, file := range []string{".hidden/d.gif", "sub/.e.gif", "notes.gif"} {
		_, err := os.Stat(filepath.Join(dir, file))
		assert.True(t, os.IsNotExist(err), file)
	}

	// Scanning again is served from the cache
	require.NoError(t, c.Scan(dir))
}

func TestScanErrors(t *testing.T) {
	dir := t.TempDir()

	c, err := New("", nil)
	require.NoError(t, err)
	defer c.Close()

	t.Run("missing", func(t *testing.T) {
		err := c.Scan(filepath.Join(dir, "missing"))
		assert.True(t, errors.Is(err, errs.ErrIO))
	})

	t.Run("not a directory", func(t *testing.T) {
		file := writeBitmap(t, filepath.Join(dir, "file.bmp"), testImage(t))
		err := c.Scan(file)
		assert.True(t, errors.Is(err, errs.ErrConfig))
	})

	t.Run("invalid bitmap", func(t *testing.T) {
		tree := filepath.Join(dir, "tree")
		for i := 0; i < 2*workers; i++ {
			writeBitmap(t, filepath.Join(tree, string(rune('a'+i))+".bmp"), testImage(t))
		}
		require.NoError(t, os.WriteFile(filepath.Join(tree, "broken.bmp"), []byte("BM"), 0644))

		err := c.Scan(tree)
		assert.True(t, errors.Is(err, errs.ErrFormat))
	})
}

func TestFirstError(t *testing.T) {
	stage := func(values ...error) <-chan error {
		c := make(chan error, len(values))
		for _, err := range values {
			c <- err
		}
		close(c)
		return c
	}

	assert.NoError(t, firstError())
	assert.NoError(t, firstError(stage(), stage(nil), stage()))

	failed := errors.New("failed")
	assert.Equal(t, failed, firstError(stage(), stage(failed), stage(nil)))

	// A stage that never finishes does not hold up an error
	blocked := make(chan error)
	defer close(blocked)
	assert.Equal(t, failed, firstError(blocked, stage(failed)))
}
