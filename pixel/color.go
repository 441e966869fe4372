package pixel

import (
	"fmt"
	"image/color"
)

// Color is a non-premultiplied RGBA value packed as 0xRRGGBBAA.
type Color uint32

// Named opaque colors.
const (
	Black     Color = 0x000000ff
	White     Color = 0xffffffff
	Red       Color = 0xff0000ff
	Green     Color = 0x00ff00ff
	Blue      Color = 0x0000ffff
	Yellow    Color = 0xffff00ff
	Cyan      Color = 0x00ffffff
	Magenta   Color = 0xff00ffff
	Turquoise Color = 0x40e0d0ff
)

// NewColor packs the four channels into a Color.
func NewColor(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// Opaque returns the fully opaque Color with the given channels.
func Opaque(r, g, b uint8) Color {
	return NewColor(r, g, b, 0xff)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 24) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 16) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c >> 8) }

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c) }

// Code returns the packed 0xRRGGBBAA value.
func (c Color) Code() uint32 { return uint32(c) }

// NRGBA converts c to the standard library representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// Model converts any color.Color to a Color.
var Model = color.ModelFunc(model)

func model(c color.Color) color.Color {
	if p, ok := c.(Color); ok {
		return p
	}
	return fromColor(c)
}

func fromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return NewColor(n.R, n.G, n.B, n.A)
}
