/*
Package bitmap implements a decoder and encoder for a single, deliberately
narrow BMP profile.

Only uncompressed 24 bits per pixel bitmaps with a 40 byte BITMAPINFOHEADER
and the pixel array immediately after the 54 byte header are supported.
Rows are stored bottom to top, each pixel as blue, green and red bytes,
with every row padded with zeroes to a multiple of 4 bytes. There is no
alpha channel; decoded pixels are always fully opaque.

Every header field is checked when decoding and anything outside the
profile is rejected with an errs.Format error.
*/
package bitmap

import (
	"image"
	"io"
)

const (
	bitsPerByte      = 8
	bitsPerPixel     = 24
	bytesPerPixel    = bitsPerPixel / bitsPerByte
	rowAlignBits     = 4 * bitsPerByte
	colorPlanes      = 1
	dibHeaderSize    = 40
	pixelArrayOffset = 54
	pixelsPerMeter   = 2835

	// MaxDimension is the largest width or height accepted
	MaxDimension = 1 << 20
)

// Header field offsets
const (
	offMagic         = 0x00
	offFileSize      = 0x02
	offPixelArray    = 0x0a
	offDIBHeaderSize = 0x0e
	offWidth         = 0x12
	offHeight        = 0x16
	offPlanes        = 0x1a
	offBitsPerPixel  = 0x1c
	offCompression   = 0x1e
	offImageSize     = 0x22
	offXResolution   = 0x26
	offYResolution   = 0x2a
)

var magic = [2]byte{'B', 'M'}

func rowPaddingBits(width int64) int64 {
	return (rowAlignBits - width*bitsPerPixel%rowAlignBits) % rowAlignBits
}

func rowPadding(width int) int {
	return int(rowPaddingBits(int64(width)) / bitsPerByte)
}

func pixelArraySize(width, height int64) int64 {
	return height * (width*bitsPerPixel + rowPaddingBits(width)) / bitsPerByte
}

func init() {
	image.RegisterFormat("bmp", "BM", decodeImage, DecodeConfig)
}

func decodeImage(r io.Reader) (image.Image, error) {
	m, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return m, nil
}
