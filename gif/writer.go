package gif

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/bodgit/canvas/errs"
	"github.com/bodgit/canvas/lzw"
	"github.com/bodgit/canvas/palette"
	"github.com/bodgit/canvas/pixel"
)

// Options are the encoding parameters. A nil *Options is valid and uses
// the defaults.
type Options struct {
	// Quantizer reduces frames with more than 256 colors, defaults to
	// palette.KMeans
	Quantizer palette.Quantizer
	// Iterations is the quantizer budget, defaults to
	// palette.DefaultIterations
	Iterations int
	// LoopCount is the number of animation repeats, 0 loops forever
	LoopCount int
	// Logger receives debug output, defaults to discarding it
	Logger *log.Logger
}

type encoder struct {
	b      []byte
	o      Options
	logger *log.Logger
}

func newEncoder(o *Options) *encoder {
	e := &encoder{}
	if o != nil {
		e.o = *o
	}
	e.logger = e.o.Logger
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	return e
}

func (e *encoder) putUint16(v int) {
	e.b = binary.LittleEndian.AppendUint16(e.b, uint16(v))
}

func (e *encoder) writeHeader() {
	e.b = append(e.b, signature...)
}

func (e *encoder) writeLogicalScreen(width, height int) {
	e.putUint16(width)
	e.putUint16(height)

	// +-------------------+------------------+-------------+------------------+
	// | Global Table Flag | Color Resolution | Sorted Flag | Global Table Size |
	// +-------------------+------------------+-------------+------------------+
	// | 0                 | 111              | 0           | 000               |
	// +-------------------+------------------+-------------+------------------+
	e.b = append(e.b, byte((colorResolution-1)<<4))

	// Background color index and pixel aspect ratio
	e.b = append(e.b, 0x00, 0x00)
}

func (e *encoder) writeLoopExtension(count int) {
	e.b = append(e.b, extensionIntroducer, applicationLabel, applicationBlockSize)
	e.b = append(e.b, applicationID...)
	e.b = append(e.b, loopSubBlockSize, loopSubBlockID)
	e.putUint16(count)
	e.b = append(e.b, blockTerminator)
}

func (e *encoder) writeGraphicControl(delay int) {
	e.b = append(e.b, extensionIntroducer, graphicControlLabel, graphicControlBlockSize)

	// No disposal method, user input or transparent color
	e.b = append(e.b, 0x00)

	e.putUint16(delay)

	// Transparent color index
	e.b = append(e.b, 0x00, blockTerminator)
}

func (e *encoder) writeImageDescriptor(width, height, colors int) {
	e.b = append(e.b, imageDescriptorLabel)

	// Left and top position
	e.putUint16(0)
	e.putUint16(0)

	e.putUint16(width)
	e.putUint16(height)

	// +------------------+-----------+-------------+----------+------------------+
	// | Local Table Flag | Interlace | Sorted Flag | Reserved | Local Table Size |
	// +------------------+-----------+-------------+----------+------------------+
	// | 1                | 0         | 0           | 00       | xxx              |
	// +------------------+-----------+-------------+----------+------------------+
	e.b = append(e.b, byte(0x80|colorTableSizeField(colors)))
}

func (e *encoder) writeColorTable(p palette.Palette) {
	e.logger.Printf("writing color table with %d colors\n", len(p))

	for _, c := range p {
		e.b = append(e.b, c.R(), c.G(), c.B())
	}

	// Pad with black up to the declared table size
	size := 1 << (colorTableSizeField(len(p)) + 1)
	e.b = append(e.b, make([]byte, (size-len(p))*colorTableEntryBytes)...)
}

func (e *encoder) writeImageData(indices []int, colors int) error {
	data, minimumCodeSize, err := lzw.Compress(indices, colors)
	if err != nil {
		return err
	}

	e.logger.Printf("lzw coding with minimum code size %d and output of %d bytes\n", minimumCodeSize, len(data))

	e.b = append(e.b, byte(minimumCodeSize))
	for len(data) > 0 {
		n := len(data)
		if n > maxSubBlockSize {
			n = maxSubBlockSize
		}
		e.b = append(e.b, byte(n))
		e.b = append(e.b, data[:n]...)
		data = data[n:]
	}
	e.b = append(e.b, blockTerminator)

	return nil
}

func (e *encoder) writeFrame(m *pixel.Image, delay int) error {
	e.writeGraphicControl(delay)

	p, indices, err := palette.Build(m, e.o.Quantizer, e.o.Iterations)
	if err != nil {
		return err
	}

	e.writeImageDescriptor(m.Width(), m.Height(), len(p))
	e.writeColorTable(p)

	return e.writeImageData(indices, len(p))
}

// checkImage validates m, naming it subject in any error.
func checkImage(subject string, m *pixel.Image) error {
	switch {
	case m == nil:
		return errs.Errorf(errs.Config, op, "%s cannot be nil", subject)
	case m.Empty():
		return errs.Errorf(errs.Config, op, "%s cannot be empty", subject)
	case m.Width() > maxUint16 || m.Height() > maxUint16:
		return errs.Errorf(errs.Config, op, "%s %dx%d is larger than the maximum of %d", subject, m.Width(), m.Height(), maxUint16)
	}
	return nil
}

func checkUint16(name string, v int) error {
	if v < 0 || v > maxUint16 {
		return errs.Errorf(errs.Config, op, "%s %d is outside [0, %d]", name, v, maxUint16)
	}
	return nil
}

// Marshal encodes m as a single image GIF and returns the bytes.
func Marshal(m *pixel.Image, o *Options) ([]byte, error) {
	if err := checkImage("image", m); err != nil {
		return nil, err
	}

	e := newEncoder(o)
	e.logger.Printf("generating %dx%d image\n", m.Width(), m.Height())

	e.writeHeader()
	e.writeLogicalScreen(m.Width(), m.Height())

	if err := e.writeFrame(m, 0); err != nil {
		return nil, err
	}

	e.b = append(e.b, trailer)

	return e.b, nil
}

// MarshalAll encodes frames as an animated GIF showing each frame for
// delay centiseconds and returns the bytes. All frames must have the same
// dimensions.
func MarshalAll(frames []*pixel.Image, delay int, o *Options) ([]byte, error) {
	if len(frames) == 0 {
		return nil, errs.Errorf(errs.Config, op, "animation frames cannot be empty")
	}
	if err := checkUint16("delay", delay); err != nil {
		return nil, err
	}

	e := newEncoder(o)
	if err := checkUint16("loop count", e.o.LoopCount); err != nil {
		return nil, err
	}

	for i, m := range frames {
		if err := checkImage(fmt.Sprintf("frame %d", i), m); err != nil {
			return nil, err
		}
		if m.Width() != frames[0].Width() || m.Height() != frames[0].Height() {
			return nil, errs.Errorf(errs.Config, op, "frame %d is %dx%d, expected %dx%d", i, m.Width(), m.Height(), frames[0].Width(), frames[0].Height())
		}
	}

	width, height := frames[0].Width(), frames[0].Height()
	e.logger.Printf("generating %dx%d animation with %d frames and %d cs delay\n", width, height, len(frames), delay)

	e.writeHeader()
	e.writeLogicalScreen(width, height)
	e.writeLoopExtension(e.o.LoopCount)

	for _, m := range frames {
		if err := e.writeFrame(m, delay); err != nil {
			return nil, err
		}
	}

	e.b = append(e.b, trailer)

	return e.b, nil
}

func write(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return errs.E(errs.IO, op, err)
	}
	return nil
}

// Encode writes the image m to w in GIF format.
func Encode(w io.Writer, m *pixel.Image, o *Options) error {
	b, err := Marshal(m, o)
	if err != nil {
		return err
	}
	return write(w, b)
}

// EncodeAll writes frames to w as an animated GIF.
func EncodeAll(w io.Writer, frames []*pixel.Image, delay int, o *Options) error {
	b, err := MarshalAll(frames, delay, o)
	if err != nil {
		return err
	}
	return write(w, b)
}

func writeFile(path string, b []byte) error {
	if err := os.WriteFile(path, b, 0644); err != nil {
		return errs.E(errs.IO, op, err)
	}
	return nil
}

// WriteFile encodes m and writes it to the file at path. Nothing is
// written if encoding fails.
func WriteFile(path string, m *pixel.Image, o *Options) error {
	b, err := Marshal(m, o)
	if err != nil {
		return err
	}
	return writeFile(path, b)
}

// WriteAnimationFile encodes frames and writes them to the file at path.
// Nothing is written if encoding fails.
func WriteAnimationFile(path string, frames []*pixel.Image, delay int, o *Options) error {
	b, err := MarshalAll(frames, delay, o)
	if err != nil {
		return err
	}
	return writeFile(path, b)
}
