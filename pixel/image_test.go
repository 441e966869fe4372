package pixel

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/bodgit/canvas/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor(t *testing.T) {
	t.Run("channels", func(t *testing.T) {
		c := Color(0xf5654321)
		assert.Equal(t, uint8(0xf5), c.R())
		assert.Equal(t, uint8(0x65), c.G())
		assert.Equal(t, uint8(0x43), c.B())
		assert.Equal(t, uint8(0x21), c.A())
		assert.Equal(t, uint32(0xf5654321), c.Code())
		assert.Equal(t, "#F5654321", c.String())
	})

	t.Run("named", func(t *testing.T) {
		assert.Equal(t, uint32(0xff0000ff), Red.Code())
		assert.Equal(t, uint32(0x00ff00ff), Green.Code())
		assert.Equal(t, uint32(0x0000ffff), Blue.Code())
		assert.Equal(t, uint32(0x000000ff), Black.Code())
		assert.Equal(t, Magenta, Color(0xff00ffff))
		assert.Equal(t, Red, Opaque(0xff, 0, 0))
		assert.NotEqual(t, Red, Green)
	})

	t.Run("model", func(t *testing.T) {
		c := Model.Convert(color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff})
		assert.Equal(t, Opaque(0x10, 0x20, 0x30), c)

		r, g, b, a := NewColor(0xff, 0, 0, 0x80).RGBA()
		nr, ng, nb, na := color.NRGBA{R: 0xff, A: 0x80}.RGBA()
		assert.Equal(t, []uint32{nr, ng, nb, na}, []uint32{r, g, b, a})
	})
}

func TestImage(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		for _, m := range []*Image{{}, New(0, 10), New(10, 0), New(-1, 5)} {
			assert.Equal(t, 0, m.Width())
			assert.Equal(t, 0, m.Height())
			assert.True(t, m.Empty())
		}
	})

	t.Run("within bounds", func(t *testing.T) {
		m := NewFilled(10, 20, Magenta)
		require.NoError(t, m.Put(5, 5, Turquoise))

		c, err := m.Get(5, 5)
		require.NoError(t, err)
		assert.Equal(t, Turquoise, c)

		c, err = m.Get(9, 19)
		require.NoError(t, err)
		assert.Equal(t, Magenta, c)
	})

	t.Run("outside bounds", func(t *testing.T) {
		m := New(10, 20)
		for _, p := range []image.Point{{10, 20}, {15, 10}, {-1, 0}, {0, 20}} {
			_, err := m.Get(p.X, p.Y)
			assert.True(t, errors.Is(err, errs.ErrIndex), "%v", p)
			assert.True(t, errors.Is(m.Put(p.X, p.Y, White), errs.ErrIndex), "%v", p)
		}
		assert.Equal(t, Color(0), m.At(10, 0))
	})

	t.Run("row order", func(t *testing.T) {
		m, err := NewFromPixels(2, 2, []Color{Red, Green, Blue, White})
		require.NoError(t, err)

		c, _ := m.Get(1, 0)
		assert.Equal(t, Green, c)
		c, _ = m.Get(0, 1)
		assert.Equal(t, Blue, c)
	})

	t.Run("pixel count mismatch", func(t *testing.T) {
		_, err := NewFromPixels(2, 2, []Color{Red})
		assert.True(t, errors.Is(err, errs.ErrConfig))
	})

	t.Run("equal", func(t *testing.T) {
		a := NewFilled(3, 3, Red)
		b := a.Clone()
		assert.True(t, a.Equal(b))
		b.Set(1, 1, color.White)
		assert.False(t, a.Equal(b))
		assert.False(t, a.Equal(New(3, 4)))
	})

	t.Run("draw", func(t *testing.T) {
		m := New(4, 4)
		draw.Draw(m, image.Rect(0, 0, 2, 2), &image.Uniform{C: color.RGBA{R: 0xff, A: 0xff}}, image.Point{}, draw.Src)

		assert.Equal(t, Red, m.At(1, 1))
		assert.Equal(t, Black, m.At(2, 2))
	})

	t.Run("from image", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(5, 5, 8, 7))
		src.Set(5, 5, color.RGBA{G: 0xff, A: 0xff})
		src.Set(7, 6, color.RGBA{B: 0xff, A: 0xff})

		m := FromImage(src)
		assert.Equal(t, 3, m.Width())
		assert.Equal(t, 2, m.Height())
		assert.Equal(t, Green, m.At(0, 0))
		assert.Equal(t, Blue, m.At(2, 1))
		assert.Equal(t, Color(0), m.At(1, 0))
	})
}
