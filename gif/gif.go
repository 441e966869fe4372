/*
Package gif implements a GIF89a encoder for single images and looping
animations.

Every frame carries its own local color table built by the palette
package and LZW compressed image data; no global color table is written
and palettes are never shared between frames. Interlacing, transparency
and disposal methods are not supported.

A single image is laid out as:

	header, logical screen, graphic control, image descriptor,
	color table, image data, trailer

An animation additionally carries a NETSCAPE2.0 application extension with
the repeat count straight after the logical screen, then one graphic
control, image descriptor, color table and image data group per frame.
*/
package gif

const (
	extensionIntroducer  = 0x21
	applicationLabel     = 0xff
	graphicControlLabel  = 0xf9
	imageDescriptorLabel = 0x2c
	blockTerminator      = 0x00
	trailer              = 0x3b

	applicationBlockSize    = 0x0b
	loopSubBlockSize        = 0x03
	loopSubBlockID          = 0x01
	graphicControlBlockSize = 0x04

	colorResolution      = 8
	maxSubBlockSize      = 255
	maxUint16            = 1<<16 - 1
	colorTableEntryBytes = 3

	op = "gif"
)

var (
	signature     = []byte("GIF89a")
	applicationID = []byte("NETSCAPE2.0")
)

// colorTableSizeField returns the smallest f such that 2^(f+1) entries
// hold n colors.
func colorTableSizeField(n int) int {
	f := 0
	for 1<<(f+1) < n {
		f++
	}
	return f
}
