package palette

import (
	"image/color"

	"github.com/bodgit/canvas/errs"
	"github.com/bodgit/canvas/pixel"
	"github.com/ericpauley/go-quantize/quantize"
)

// MedianCut is a Quantizer backed by the median cut algorithm from
// github.com/ericpauley/go-quantize. It ignores the iteration budget and
// labels each sample with its nearest palette entry.
type MedianCut struct{}

// Quantize implements Quantizer.
func (MedianCut) Quantize(samples [][3]float64, k, _ int) ([][3]float64, []int, error) {
	if k < 1 {
		return nil, nil, errs.Errorf(errs.Config, op, "cluster count %d must be positive", k)
	}
	if len(samples) == 0 {
		return nil, nil, nil
	}

	// Lay the samples out as a single row image
	m := pixel.New(len(samples), 1)
	pix := m.Pixels()
	for i, s := range samples {
		pix[i] = pixel.Opaque(channel(s[0]), channel(s[1]), channel(s[2]))
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, k), m)
	if len(p) == 0 {
		return nil, nil, errs.Errorf(errs.Config, op, "median cut produced an empty palette")
	}

	centroids := make([][3]float64, len(p))
	for i, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		centroids[i] = [3]float64{float64(n.R), float64(n.G), float64(n.B)}
	}

	labels := make([]int, len(samples))
	cache := make(map[pixel.Color]int)
	for i, c := range pix {
		l, ok := cache[c]
		if !ok {
			l = p.Index(c)
			cache[c] = l
		}
		labels[i] = l
	}

	return centroids, labels, nil
}
