package viamothello

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
)

const noiseLabel = -1

// dbscan1D clusters scalar values. Clusters are numbered in the order their
// first member appears in values; values without minSamples neighbours
// within eps (itself included) that are not reachable from a core value are
// labelled noiseLabel.
func dbscan1D(values []float64, eps float64, minSamples int) []int {
	const unvisited = -2
	labels := make([]int, len(values))
	for i := range labels {
		labels[i] = unvisited
	}

	neighbours := func(i int) []int {
		var out []int
		for j, v := range values {
			if math.Abs(v-values[i]) <= eps {
				out = append(out, j)
			}
		}
		return out
	}

	cluster := 0
	for i := range values {
		if labels[i] != unvisited {
			continue
		}
		n := neighbours(i)
		if len(n) < minSamples {
			labels[i] = noiseLabel
			continue
		}
		labels[i] = cluster
		queue := n
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == noiseLabel {
				labels[j] = cluster
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster
			if nj := neighbours(j); len(nj) >= minSamples {
				queue = append(queue, nj...)
			}
		}
		cluster++
	}
	return labels
}

const (
	kmeansMaxIter   = 300
	kmeansTolerance = 1e-4
)

// kmeans reduces points to k centers using k-means++ seeding followed by
// Lloyd iterations. rng makes the result reproducible.
func kmeans(points []r2.Point, k int, rng *rand.Rand) []r2.Point {
	if k >= len(points) {
		out := make([]r2.Point, len(points))
		copy(out, points)
		return out
	}

	centers := make([]r2.Point, 0, k)
	centers = append(centers, points[rng.Intn(len(points))])
	dist := make([]float64, len(points))
	for len(centers) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centers {
				d = math.Min(d, sqNorm(p.Sub(c)))
			}
			dist[i] = d
			total += d
		}
		if total == 0 {
			break
		}
		target := rng.Float64() * total
		chosen := len(points) - 1
		for i, d := range dist {
			target -= d
			if target < 0 {
				chosen = i
				break
			}
		}
		centers = append(centers, points[chosen])
	}

	assign := make([]int, len(points))
	for range kmeansMaxIter {
		for i, p := range points {
			best, bestD := 0, math.Inf(1)
			for c, center := range centers {
				if d := sqNorm(p.Sub(center)); d < bestD {
					best, bestD = c, d
				}
			}
			assign[i] = best
		}

		sums := make([]r2.Point, len(centers))
		counts := make([]int, len(centers))
		for i, p := range points {
			sums[assign[i]] = sums[assign[i]].Add(p)
			counts[assign[i]]++
		}
		shift := 0.0
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			next := sums[c].Mul(1 / float64(counts[c]))
			shift = math.Max(shift, sqNorm(next.Sub(centers[c])))
			centers[c] = next
		}
		if shift < kmeansTolerance {
			break
		}
	}
	return centers
}

func sqNorm(p r2.Point) float64 { return p.Dot(p) }
