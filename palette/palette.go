/*
Package palette derives a bounded color table and a per-pixel index
sequence from an image.

Colors are assigned table slots in the order they are first seen scanning
the image row by row from the top. When an image has more distinct colors
than a table can hold, the pixels are handed to a Quantizer which clusters
them down to MaxColors centroids. Tables shorter than MinColors are padded
with black entries that no index refers to.
*/
package palette

import (
	"image/color"
	"math"

	"github.com/bodgit/canvas/errs"
	"github.com/bodgit/canvas/pixel"
)

const (
	// MinColors is the smallest table size produced
	MinColors = 4
	// MaxColors is the largest table size produced
	MaxColors = 256
	// DefaultIterations is used when no iteration budget is given
	DefaultIterations = 20

	op = "palette"
)

// Palette is an ordered table of colors.
type Palette []pixel.Color

// Color returns p as a color.Palette.
func (p Palette) Color() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// unique assigns each distinct color the next free slot.
func unique(pix []pixel.Color) (Palette, []int) {
	var p Palette
	indices := make([]int, len(pix))
	slots := make(map[pixel.Color]int)
	for i, c := range pix {
		slot, ok := slots[c]
		if !ok {
			slot = len(p)
			slots[c] = slot
			p = append(p, c)
		}
		indices[i] = slot
	}
	return p, indices
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func samplesOf(pix []pixel.Color) [][3]float64 {
	samples := make([][3]float64, len(pix))
	for i, c := range pix {
		samples[i] = [3]float64{float64(c.R()), float64(c.G()), float64(c.B())}
	}
	return samples
}

// run calls q and checks it kept to the Quantizer contract.
func run(q Quantizer, samples [][3]float64, k, iterations int) ([][3]float64, []int, error) {
	centroids, labels, err := q.Quantize(samples, k, iterations)
	if err != nil {
		return nil, nil, err
	}
	if len(centroids) > k || len(labels) != len(samples) {
		return nil, nil, errs.Errorf(errs.Config, op, "quantizer returned %d centroids and %d labels for %d samples", len(centroids), len(labels), len(samples))
	}
	for _, l := range labels {
		if l < 0 || l >= len(centroids) {
			return nil, nil, errs.Errorf(errs.Config, op, "quantizer label %d is outside [0, %d)", l, len(centroids))
		}
	}
	return centroids, labels, nil
}

func centroidColor(v [3]float64) pixel.Color {
	return pixel.Opaque(channel(v[0]), channel(v[1]), channel(v[2]))
}

func cluster(pix []pixel.Color, q Quantizer, iterations int) (Palette, []int, error) {
	centroids, labels, err := run(q, samplesOf(pix), MaxColors, iterations)
	if err != nil {
		return nil, nil, err
	}

	// Rounding can make centroids collide
	var p Palette
	remap := make([]int, len(centroids))
	slots := make(map[pixel.Color]int)
	for i, v := range centroids {
		c := centroidColor(v)
		slot, ok := slots[c]
		if !ok {
			slot = len(p)
			slots[c] = slot
			p = append(p, c)
		}
		remap[i] = slot
	}

	indices := make([]int, len(labels))
	for i, l := range labels {
		indices[i] = remap[l]
	}

	return p, indices, nil
}

// Build returns the color table for m and the table index of every pixel
// in row order. If m has more than MaxColors distinct colors it is reduced
// with q, which defaults to KMeans, running for iterations rounds, which
// defaults to DefaultIterations.
func Build(m *pixel.Image, q Quantizer, iterations int) (Palette, []int, error) {
	if m == nil {
		return nil, nil, errs.Errorf(errs.Config, op, "image is nil")
	}
	if q == nil {
		q = KMeans{}
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	pix := m.Pixels()
	p, indices := unique(pix)

	if len(p) > MaxColors {
		var err error
		if p, indices, err = cluster(pix, q, iterations); err != nil {
			return nil, nil, err
		}
	}

	for len(p) < MinColors {
		p = append(p, pixel.Black)
	}

	return p, indices, nil
}
