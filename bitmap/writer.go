package bitmap

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/bodgit/canvas/errs"
	"github.com/bodgit/canvas/pixel"
)

type encoder struct {
	b []byte
}

func (e *encoder) putUint16(offset int, v uint16) {
	binary.LittleEndian.PutUint16(e.b[offset:], v)
}

func (e *encoder) putUint32(offset int, v uint32) {
	binary.LittleEndian.PutUint32(e.b[offset:], v)
}

func (e *encoder) encode(m *pixel.Image) {
	width, height := m.Width(), m.Height()
	size := uint32(pixelArraySize(int64(width), int64(height)))

	e.b = make([]byte, pixelArrayOffset+int(size))

	e.b[offMagic], e.b[offMagic+1] = magic[0], magic[1]
	e.putUint32(offFileSize, pixelArrayOffset+size)
	e.putUint32(offPixelArray, pixelArrayOffset)
	e.putUint32(offDIBHeaderSize, dibHeaderSize)
	e.putUint32(offWidth, uint32(width))
	e.putUint32(offHeight, uint32(height))
	e.putUint16(offPlanes, colorPlanes)
	e.putUint16(offBitsPerPixel, bitsPerPixel)
	e.putUint32(offCompression, 0)
	e.putUint32(offImageSize, size)
	e.putUint32(offXResolution, pixelsPerMeter)
	e.putUint32(offYResolution, pixelsPerMeter)

	pix := m.Pixels()
	padding := rowPadding(width)
	i := pixelArrayOffset

	// Bottom row first, padding is already zeroed
	for y := height - 1; y >= 0; y-- {
		for _, c := range pix[y*width : (y+1)*width] {
			e.b[i], e.b[i+1], e.b[i+2] = c.B(), c.G(), c.R()
			i += bytesPerPixel
		}
		i += padding
	}
}

// Marshal encodes m as a bitmap and returns the bytes. The alpha channel
// is discarded.
func Marshal(m *pixel.Image) ([]byte, error) {
	if m == nil {
		return nil, errs.Errorf(errs.Config, op, "image is nil")
	}
	if m.Width() > MaxDimension || m.Height() > MaxDimension {
		return nil, errs.Errorf(errs.Config, op, "image %dx%d is larger than the maximum of %d", m.Width(), m.Height(), MaxDimension)
	}
	if pixelArrayOffset+pixelArraySize(int64(m.Width()), int64(m.Height())) > math.MaxUint32 {
		return nil, errs.Errorf(errs.Config, op, "image %dx%d does not fit in a bitmap file", m.Width(), m.Height())
	}

	var e encoder
	e.encode(m)

	return e.b, nil
}

// Encode writes the image m to w in bitmap format.
func Encode(w io.Writer, m *pixel.Image) error {
	b, err := Marshal(m)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return errs.E(errs.IO, op, err)
	}
	return nil
}

// WriteFile encodes m and writes it to the file at path.
func WriteFile(path string, m *pixel.Image) error {
	b, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return errs.E(errs.IO, op, err)
	}
	return nil
}
