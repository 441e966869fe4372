package palette

import (
	"github.com/bodgit/canvas/errs"
	"github.com/bodgit/canvas/pixel"
)

// Reduce returns a copy of m using at most k colors, replacing every
// pixel with the rounded centroid q assigns it to. A nil q uses KMeans and
// iterations <= 0 uses DefaultIterations. Images that already have k or
// fewer colors are returned as an unchanged copy.
func Reduce(m *pixel.Image, q Quantizer, k, iterations int) (*pixel.Image, error) {
	if m == nil {
		return nil, errs.Errorf(errs.Config, op, "image is nil")
	}
	if k < 1 {
		return nil, errs.Errorf(errs.Config, op, "color count %d must be positive", k)
	}
	if q == nil {
		q = KMeans{}
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	out := m.Clone()
	pix := out.Pixels()
	if p, _ := unique(pix); len(p) <= k {
		return out, nil
	}

	centroids, labels, err := run(q, samplesOf(pix), k, iterations)
	if err != nil {
		return nil, err
	}

	colors := make([]pixel.Color, len(centroids))
	for i, v := range centroids {
		colors[i] = centroidColor(v)
	}
	for i, l := range labels {
		pix[i] = colors[l]
	}

	return out, nil
}
