package bitmap

import (
	"encoding/binary"
	"image"
	"io"
	"os"

	"github.com/bodgit/canvas/errs"
	"github.com/bodgit/canvas/pixel"
)

const op = "bitmap"

type decoder struct {
	b []byte

	width  int
	height int
}

func (d *decoder) le16(offset int) uint32 {
	return uint32(binary.LittleEndian.Uint16(d.b[offset:]))
}

func (d *decoder) le32(offset int) uint32 {
	return binary.LittleEndian.Uint32(d.b[offset:])
}

func (d *decoder) readHeader() error {
	size := len(d.b)

	if size < dibHeaderSize {
		return errs.Errorf(errs.Format, op, "bitmap is missing bytes from the DIB header")
	}

	if d.b[offMagic] != magic[0] || d.b[offMagic+1] != magic[1] {
		return errs.Errorf(errs.Format, op, "read magic bytes %#02x and %#02x do not match %#02x and %#02x", d.b[offMagic], d.b[offMagic+1], magic[0], magic[1])
	}

	if v := d.le32(offFileSize); int64(v) != int64(size) {
		return errs.Errorf(errs.Format, op, "read file size %d does not match actual size %d", v, size)
	}

	if v := d.le32(offPixelArray); v != pixelArrayOffset {
		return errs.Errorf(errs.Format, op, "pixel array offset %d is not supported, only %d is supported", v, pixelArrayOffset)
	}

	if v := d.le32(offDIBHeaderSize); v != dibHeaderSize {
		return errs.Errorf(errs.Format, op, "DIB header size %d is not supported, only %d is supported", v, dibHeaderSize)
	}

	width := d.le32(offWidth)
	if width > MaxDimension {
		return errs.Errorf(errs.Format, op, "width %d is larger than the maximum of %d", width, MaxDimension)
	}

	height := d.le32(offHeight)
	if height > MaxDimension {
		return errs.Errorf(errs.Format, op, "height %d is larger than the maximum of %d", height, MaxDimension)
	}

	if v := d.le16(offPlanes); v != colorPlanes {
		return errs.Errorf(errs.Format, op, "%d color planes are not supported, only %d is supported", v, colorPlanes)
	}

	if v := d.le16(offBitsPerPixel); v != bitsPerPixel {
		return errs.Errorf(errs.Format, op, "%d bits per pixel is not supported, only %d is supported", v, bitsPerPixel)
	}

	expected := pixelArraySize(int64(width), int64(height))
	if v := d.le32(offImageSize); int64(v) != expected {
		return errs.Errorf(errs.Format, op, "pixel array size %d does not match expected size %d", v, expected)
	}

	if int64(size) != pixelArrayOffset+expected {
		return errs.Errorf(errs.Format, op, "file size %d does not match expected size %d", size, pixelArrayOffset+expected)
	}

	d.width, d.height = int(width), int(height)

	return nil
}

func (d *decoder) readPixels() *pixel.Image {
	m := pixel.New(d.width, d.height)
	if m.Empty() {
		return m
	}

	pix := m.Pixels()
	padding := rowPadding(d.width)
	i := pixelArrayOffset

	// Bottom row first
	for y := d.height - 1; y >= 0; y-- {
		row := pix[y*d.width : (y+1)*d.width]
		for x := range row {
			row[x] = pixel.Opaque(d.b[i+2], d.b[i+1], d.b[i])
			i += bytesPerPixel
		}
		i += padding
	}

	return m
}

// Unmarshal decodes a bitmap held entirely in b.
func Unmarshal(b []byte) (*pixel.Image, error) {
	d := decoder{b: b}
	if err := d.readHeader(); err != nil {
		return nil, err
	}
	return d.readPixels(), nil
}

// Decode reads a bitmap from r and returns it as a *pixel.Image.
func Decode(r io.Reader) (*pixel.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.E(errs.IO, op, err)
	}
	return Unmarshal(b)
}

// DecodeConfig returns the color model and dimensions of a bitmap after
// validating its header, without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, errs.E(errs.IO, op, err)
	}
	d := decoder{b: b}
	if err := d.readHeader(); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: pixel.Model,
		Width:      d.width,
		Height:     d.height,
	}, nil
}

// ReadFile reads and decodes the bitmap file at path.
func ReadFile(path string) (*pixel.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.E(errs.IO, op, err)
	}
	return Unmarshal(b)
}
