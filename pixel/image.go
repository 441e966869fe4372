/*
Package pixel implements the in-memory pixel buffer shared by the canvas
codecs.

An Image is a width by height grid of Color stored row by row, with (0, 0)
as the top-left pixel. An Image is either empty (0 by 0) or fully
populated.
*/
package pixel

import (
	"image"
	"image/color"

	"github.com/bodgit/canvas/errs"
)

// Image is a rectangular grid of Color. The zero value is an empty image.
type Image struct {
	width  int
	height int
	pix    []Color
}

// New returns a width by height Image filled with Black. A zero or
// negative dimension yields the empty image.
func New(width, height int) *Image {
	return NewFilled(width, height, Black)
}

// NewFilled returns a width by height Image filled with c.
func NewFilled(width, height int, c Color) *Image {
	if width <= 0 || height <= 0 {
		return &Image{}
	}
	m := &Image{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}
	m.Fill(c)
	return m
}

// NewFromPixels returns an Image backed by a copy of pix, which must hold
// width*height colors in row order starting from the top.
func NewFromPixels(width, height int, pix []Color) (*Image, error) {
	if width < 0 || height < 0 {
		return nil, errs.Errorf(errs.Config, "pixel", "invalid dimensions %dx%d", width, height)
	}
	if width == 0 || height == 0 {
		return &Image{}, nil
	}
	if len(pix) != width*height {
		return nil, errs.Errorf(errs.Config, "pixel", "%d pixels provided for a %dx%d image", len(pix), width, height)
	}
	m := &Image{
		width:  width,
		height: height,
		pix:    make([]Color, len(pix)),
	}
	copy(m.pix, pix)
	return m, nil
}

// FromImage copies any image.Image into a new Image, moving its top-left
// corner to (0, 0).
func FromImage(src image.Image) *Image {
	if p, ok := src.(*Image); ok {
		return p.Clone()
	}
	b := src.Bounds()
	m := New(b.Dx(), b.Dy())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			m.pix[m.offset(x, y)] = fromColor(src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return m
}

// Width returns the number of columns.
func (m *Image) Width() int { return m.width }

// Height returns the number of rows.
func (m *Image) Height() int { return m.height }

// Empty reports whether m has no pixels.
func (m *Image) Empty() bool { return len(m.pix) == 0 }

// Pixels returns the backing slice in row order. It must not be modified.
func (m *Image) Pixels() []Color { return m.pix }

func (m *Image) offset(x, y int) int {
	return y*m.width + x
}

func (m *Image) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Get returns the color at (x, y).
func (m *Image) Get(x, y int) (Color, error) {
	if !m.inBounds(x, y) {
		return 0, errs.Errorf(errs.Index, "pixel", "cannot index the (%d, %d) pixel in a %dx%d image", x, y, m.width, m.height)
	}
	return m.pix[m.offset(x, y)], nil
}

// Put sets the color at (x, y).
func (m *Image) Put(x, y int, c Color) error {
	if !m.inBounds(x, y) {
		return errs.Errorf(errs.Index, "pixel", "cannot index the (%d, %d) pixel in a %dx%d image", x, y, m.width, m.height)
	}
	m.pix[m.offset(x, y)] = c
	return nil
}

// Fill sets every pixel to c.
func (m *Image) Fill(c Color) {
	for i := range m.pix {
		m.pix[i] = c
	}
}

// Clone returns a deep copy of m.
func (m *Image) Clone() *Image {
	dup := &Image{width: m.width, height: m.height}
	if len(m.pix) > 0 {
		dup.pix = append([]Color(nil), m.pix...)
	}
	return dup
}

// Equal reports whether m and o have the same dimensions and pixels.
func (m *Image) Equal(o *Image) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i := range m.pix {
		if m.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return Model }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.width, m.height) }

// At implements image.Image. Out of range coordinates return the zero
// Color.
func (m *Image) At(x, y int) color.Color {
	if !m.inBounds(x, y) {
		return Color(0)
	}
	return m.pix[m.offset(x, y)]
}

// Set implements draw.Image. Out of range coordinates are ignored.
func (m *Image) Set(x, y int, c color.Color) {
	if !m.inBounds(x, y) {
		return
	}
	m.pix[m.offset(x, y)] = model(c).(Color)
}
