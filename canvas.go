/*
Package canvas is a library for converting 24-bit bitmaps into GIF images
and looping animations.

Encoded output can be cached in an SQLite database keyed by the SHA-1 of the
source bitmaps and the encoding parameters, so repeated conversions of an
unchanged tree are cheap.
*/
package canvas

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/bodgit/canvas/bitmap"
	"github.com/bodgit/canvas/errs"
	"github.com/bodgit/canvas/gif"
	"github.com/bodgit/canvas/palette"
	"github.com/bodgit/canvas/pixel"
	"github.com/nfnt/resize"
	"github.com/samber/lo"
)

const (
	op = "canvas"

	defaultQuantizer = "kmeans"
	maxLoopCount     = 1<<16 - 1
)

// Canvas converts bitmap files into GIF files.
type Canvas struct {
	store     *Store
	logger    *log.Logger
	quantizer string
	options   gif.Options
	width     uint
	colors    int
}

// Option configures a Canvas.
type Option func(*Canvas) error

// WithQuantizer selects the color quantizer by name, see palette.Names.
func WithQuantizer(name string) Option {
	return func(c *Canvas) error {
		q, err := palette.ByName(name)
		if err != nil {
			return err
		}
		c.quantizer = name
		c.options.Quantizer = q
		return nil
	}
}

// WithIterations sets the quantizer iteration budget.
func WithIterations(n int) Option {
	return func(c *Canvas) error {
		if n < 0 {
			return errs.Errorf(errs.Config, op, "iterations cannot be negative")
		}
		c.options.Iterations = n
		return nil
	}
}

// WithWidth scales every image to the given width, preserving the aspect
// ratio. 0 disables scaling.
func WithWidth(width uint) Option {
	return func(c *Canvas) error {
		c.width = width
		return nil
	}
}

// WithColors reduces every image to at most n colors before encoding. 0
// leaves images alone.
func WithColors(n int) Option {
	return func(c *Canvas) error {
		if n < 0 || n > palette.MaxColors {
			return errs.Errorf(errs.Config, op, "color count %d is outside [0, %d]", n, palette.MaxColors)
		}
		c.colors = n
		return nil
	}
}

// WithLoopCount sets the number of times an animation repeats, 0 repeats
// forever.
func WithLoopCount(n int) Option {
	return func(c *Canvas) error {
		if n < 0 || n > maxLoopCount {
			return errs.Errorf(errs.Config, op, "loop count %d is outside [0, %d]", n, maxLoopCount)
		}
		c.options.LoopCount = n
		return nil
	}
}

// New returns a Canvas caching encoded output in the database at db. An
// empty db disables caching.
func New(db string, logger *log.Logger, options ...Option) (*Canvas, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	c := &Canvas{
		logger:    logger,
		quantizer: defaultQuantizer,
		options: gif.Options{
			Quantizer: palette.KMeans{},
			Logger:    logger,
		},
	}

	for _, o := range options {
		if err := o(c); err != nil {
			return nil, err
		}
	}

	if db != "" {
		store, err := NewStore(db)
		if err != nil {
			return nil, err
		}
		c.store = store
	}

	return c, nil
}

// Close releases the cache database, if any.
func (c *Canvas) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

func (c *Canvas) key(sha, kind string, delay int) Key {
	return Key{
		SHA1:   sha,
		Params: fmt.Sprintf("%s;quantizer=%s;iterations=%d;width=%d;colors=%d;loop=%d;delay=%d", kind, c.quantizer, c.options.Iterations, c.width, c.colors, c.options.LoopCount, delay),
	}
}

func (c *Canvas) cached(key Key, encode func() ([]byte, error)) ([]byte, error) {
	if c.store != nil {
		b, err := c.store.Find(key)
		if err != nil {
			return nil, err
		}
		if b != nil {
			c.logger.Printf("Cache hit for %s\n", key.SHA1)
			return b, nil
		}
	}

	b, err := encode()
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if err := c.store.Add(key, b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// scaledHeight keeps the aspect ratio of a width x height image scaled to
// the new width, never dropping below one row.
func scaledHeight(width, height int, newWidth uint) uint {
	h := uint(math.Round(float64(height) * float64(newWidth) / float64(width)))
	if h < 1 {
		h = 1
	}
	return h
}

func (c *Canvas) load(s source) (*pixel.Image, error) {
	m, err := bitmap.Unmarshal(s.b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.file, err)
	}

	if c.width == 0 || m.Empty() || uint(m.Width()) == c.width {
		return m, nil
	}

	height := scaledHeight(m.Width(), m.Height(), c.width)
	c.logger.Printf("Scaling \"%s\" from %dx%d to %dx%d\n", s.file, m.Width(), m.Height(), c.width, height)

	return pixel.FromImage(resize.Resize(c.width, height, m, resize.Lanczos3)), nil
}

func (c *Canvas) reduce(s source, m *pixel.Image, colors int) (*pixel.Image, error) {
	c.logger.Printf("Reducing \"%s\" to %d colors\n", s.file, colors)
	return palette.Reduce(m, c.options.Quantizer, colors, c.options.Iterations)
}

func (c *Canvas) decode(s source) (*pixel.Image, error) {
	m, err := c.load(s)
	if err != nil || c.colors == 0 {
		return m, err
	}
	return c.reduce(s, m, c.colors)
}

func writeFile(file string, b []byte) error {
	if err := os.WriteFile(file, b, 0644); err != nil {
		return errs.E(errs.IO, op, err)
	}
	return nil
}

// Convert encodes the bitmap file in as a single image GIF file out.
func (c *Canvas) Convert(in, out string) error {
	sources, sha, err := readSources(in)
	if err != nil {
		return err
	}

	b, err := c.cached(c.key(sha, "convert", 0), func() ([]byte, error) {
		m, err := c.decode(sources[0])
		if err != nil {
			return nil, err
		}
		return gif.Marshal(m, &c.options)
	})
	if err != nil {
		return err
	}

	c.logger.Printf("Writing \"%s\"\n", out)

	return writeFile(out, b)
}

// Animate encodes the bitmap files as frames of an animated GIF file out,
// showing each frame for delay centiseconds.
func (c *Canvas) Animate(out string, delay int, files ...string) error {
	sources, sha, err := readSources(files...)
	if err != nil {
		return err
	}

	b, err := c.cached(c.key(sha, "animate", delay), func() ([]byte, error) {
		frames := make([]*pixel.Image, 0, len(sources))
		for _, s := range sources {
			m, err := c.decode(s)
			if err != nil {
				return nil, err
			}
			frames = append(frames, m)
		}
		return gif.MarshalAll(frames, delay, &c.options)
	})
	if err != nil {
		return err
	}

	c.logger.Printf("Writing \"%s\" from %v\n", out, lo.Map(sources, func(s source, _ int) string {
		return s.file
	}))

	return writeFile(out, b)
}

// Reduce writes the bitmap file in to the bitmap file out using at most
// colors distinct colors.
func (c *Canvas) Reduce(in, out string, colors int) error {
	if colors < 1 {
		return errs.Errorf(errs.Config, op, "color count %d must be positive", colors)
	}

	sources, sha, err := readSources(in)
	if err != nil {
		return err
	}

	b, err := c.cached(c.key(sha, fmt.Sprintf("reduce=%d", colors), 0), func() ([]byte, error) {
		m, err := c.load(sources[0])
		if err != nil {
			return nil, err
		}
		if m, err = c.reduce(sources[0], m, colors); err != nil {
			return nil, err
		}
		return bitmap.Marshal(m)
	})
	if err != nil {
		return err
	}

	c.logger.Printf("Writing \"%s\"\n", out)

	return writeFile(out, b)
}
