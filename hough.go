package viamothello

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
)

// Segment is a finite line segment found by the Hough transform.
type Segment struct {
	P1, P2 r2.Point
}

// Direction is P2-P1.
func (s Segment) Direction() r2.Point { return s.P2.Sub(s.P1) }

func (s Segment) Length() float64 { return s.Direction().Norm() }

const numThetas = 180

// houghSegments is the progressive probabilistic Hough transform. Edge
// points are visited in random order; a point that pushes its accumulator
// cell to threshold votes starts a walk along the line in both directions,
// tolerating up to maxGap missing pixels. Walks at least minLength long (in
// x or y) become segments and their pixels withdraw their votes.
func houghSegments(edges []bool, width, height, threshold int, minLength float64, maxGap int, rng *rand.Rand) []Segment {
	numRho := (width+height)*2 + 1
	rhoOffset := (numRho - 1) / 2

	cosTheta := make([]float64, numThetas)
	sinTheta := make([]float64, numThetas)
	for t := range numThetas {
		theta := float64(t) * math.Pi / numThetas
		cosTheta[t] = math.Cos(theta)
		sinTheta[t] = math.Sin(theta)
	}
	rhoIndex := func(x, y, t int) int {
		return int(math.Round(float64(x)*cosTheta[t]+float64(y)*sinTheta[t])) + rhoOffset
	}

	accumulator := make([]int, numRho*numThetas)
	mask := make([]bool, len(edges))
	copy(mask, edges)

	var points []int
	for i, e := range edges {
		if e {
			points = append(points, i)
		}
	}

	var segments []Segment
	for count := len(points); count > 0; count-- {
		// pick a random remaining point and retire it
		idx := rng.Intn(count)
		p := points[idx]
		points[idx] = points[count-1]

		if !mask[p] {
			continue
		}
		x0, y0 := p%width, p/width

		maxVotes, maxT := threshold-1, -1
		for t := range numThetas {
			cell := rhoIndex(x0, y0, t)*numThetas + t
			accumulator[cell]++
			if accumulator[cell] > maxVotes {
				maxVotes, maxT = accumulator[cell], t
			}
		}
		if maxT < 0 {
			continue
		}

		// walk direction is perpendicular to the line normal
		a, b := -sinTheta[maxT], cosTheta[maxT]
		var dx0, dy0 float64
		xMajor := math.Abs(a) > math.Abs(b)
		if xMajor {
			dx0, dy0 = math.Copysign(1, a), b/math.Abs(a)
		} else {
			dx0, dy0 = a/math.Abs(b), math.Copysign(1, b)
		}
		startX, startY := float64(x0), float64(y0)
		if xMajor {
			startY += 0.5
		} else {
			startX += 0.5
		}

		var ends [2][2]int
		for k := range 2 {
			dx, dy := dx0, dy0
			if k == 1 {
				dx, dy = -dx, -dy
			}
			gap := 0
			ends[k] = [2]int{x0, y0}
			for x, y := startX, startY; ; x, y = x+dx, y+dy {
				px, py := int(math.Floor(x)), int(math.Floor(y))
				if px < 0 || px >= width || py < 0 || py >= height {
					break
				}
				if mask[py*width+px] {
					gap = 0
					ends[k] = [2]int{px, py}
				} else if gap++; gap > maxGap {
					break
				}
			}
		}

		good := math.Abs(float64(ends[1][0]-ends[0][0])) >= minLength ||
			math.Abs(float64(ends[1][1]-ends[0][1])) >= minLength

		for k := range 2 {
			dx, dy := dx0, dy0
			if k == 1 {
				dx, dy = -dx, -dy
			}
			for x, y := startX, startY; ; x, y = x+dx, y+dy {
				px, py := int(math.Floor(x)), int(math.Floor(y))
				if px < 0 || px >= width || py < 0 || py >= height {
					break
				}
				i := py*width + px
				if mask[i] {
					if good {
						for t := range numThetas {
							accumulator[rhoIndex(px, py, t)*numThetas+t]--
						}
					}
					mask[i] = false
				}
				if px == ends[k][0] && py == ends[k][1] {
					break
				}
			}
		}

		if good {
			segments = append(segments, Segment{
				P1: r2.Point{X: float64(ends[0][0]), Y: float64(ends[0][1])},
				P2: r2.Point{X: float64(ends[1][0]), Y: float64(ends[1][1])},
			})
		}
	}
	return segments
}
