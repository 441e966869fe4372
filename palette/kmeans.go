package palette

import (
	"github.com/bodgit/canvas/errs"
)

// Quantizer clusters samples into at most k centroids, returning the
// centroids and the centroid index of every sample. Implementations
// should be deterministic so that encoded output is reproducible.
type Quantizer interface {
	Quantize(samples [][3]float64, k, iterations int) ([][3]float64, []int, error)
}

// KMeans is a deterministic Lloyd's k-means Quantizer.
//
// Identical samples are merged into one weighted point before clustering.
// The initial centroids are spread evenly over the distinct samples in the
// order they first appear, ties between equally near centroids go to the
// lowest index and a centroid left without samples stays where it is.
type KMeans struct{}

type point struct {
	v      [3]float64
	weight float64
}

func sqDist(a, b [3]float64) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return d0*d0 + d1*d1 + d2*d2
}

func nearest(v [3]float64, centroids [][3]float64) int {
	best, bestDist := 0, sqDist(v, centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := sqDist(v, centroids[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Quantize implements Quantizer.
func (KMeans) Quantize(samples [][3]float64, k, iterations int) ([][3]float64, []int, error) {
	if k < 1 {
		return nil, nil, errs.Errorf(errs.Config, op, "cluster count %d must be positive", k)
	}
	if len(samples) == 0 {
		return nil, nil, nil
	}

	var points []point
	owner := make([]int, len(samples))
	seen := make(map[[3]float64]int)
	for i, s := range samples {
		j, ok := seen[s]
		if !ok {
			j = len(points)
			seen[s] = j
			points = append(points, point{v: s})
		}
		points[j].weight++
		owner[i] = j
	}

	if k > len(points) {
		k = len(points)
	}

	centroids := make([][3]float64, k)
	for i := range centroids {
		centroids[i] = points[i*len(points)/k].v
	}

	assignment := make([]int, len(points))
	for i, p := range points {
		assignment[i] = nearest(p.v, centroids)
	}

	for round := 0; round < iterations; round++ {
		sums := make([][3]float64, k)
		weights := make([]float64, k)
		for i, p := range points {
			c := assignment[i]
			for j := range sums[c] {
				sums[c][j] += p.v[j] * p.weight
			}
			weights[c] += p.weight
		}
		for c := range centroids {
			if weights[c] == 0 {
				continue
			}
			for j := range centroids[c] {
				centroids[c][j] = sums[c][j] / weights[c]
			}
		}

		changed := false
		for i, p := range points {
			if c := nearest(p.v, centroids); c != assignment[i] {
				assignment[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	labels := make([]int, len(samples))
	for i, j := range owner {
		labels[i] = assignment[j]
	}

	return centroids, labels, nil
}
