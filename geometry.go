package viamothello

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// convexHull is Andrew's monotone chain. Collinear points are dropped.
func convexHull(points []r2.Point) []r2.Point {
	if len(points) < 3 {
		out := make([]r2.Point, len(points))
		copy(out, points)
		return out
	}

	sorted := make([]r2.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	cross := func(o, a, b r2.Point) float64 {
		return a.Sub(o).Cross(b.Sub(o))
	}

	var lower []r2.Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []r2.Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// perimeter of the closed polygon.
func perimeter(poly []r2.Point) float64 {
	total := 0.0
	for i, p := range poly {
		total += p.Sub(poly[(i+1)%len(poly)]).Norm()
	}
	return total
}

// polygonArea is the signed shoelace area; positive for clockwise order in
// image coordinates.
func polygonArea(poly []r2.Point) float64 {
	area := 0.0
	for i, p := range poly {
		area += p.Cross(poly[(i+1)%len(poly)])
	}
	return area / 2
}

// distanceToLine is the perpendicular distance from p to the line through
// a and b, or the distance to a when they coincide.
func distanceToLine(p, a, b r2.Point) float64 {
	d := b.Sub(a)
	n := d.Norm()
	if n == 0 {
		return p.Sub(a).Norm()
	}
	return math.Abs(d.Cross(p.Sub(a))) / n
}

// simplifyChain is Douglas-Peucker on an open chain; both ends are kept.
func simplifyChain(chain []r2.Point, epsilon float64) []r2.Point {
	if len(chain) < 3 {
		return chain
	}
	first, last := chain[0], chain[len(chain)-1]
	split, maxDist := 0, -1.0
	for i := 1; i < len(chain)-1; i++ {
		if d := distanceToLine(chain[i], first, last); d > maxDist {
			split, maxDist = i, d
		}
	}
	if maxDist <= epsilon {
		return []r2.Point{first, last}
	}
	left := simplifyChain(chain[:split+1], epsilon)
	right := simplifyChain(chain[split:], epsilon)
	return append(left[:len(left)-1:len(left)-1], right...)
}

func farthestFrom(poly []r2.Point, p r2.Point) int {
	best, bestD := 0, -1.0
	for i, q := range poly {
		if d := sqNorm(q.Sub(p)); d > bestD {
			best, bestD = i, d
		}
	}
	return best
}

// approxPolygon simplifies a closed polygon so no dropped vertex is farther
// than epsilon from the result. The polygon is split at its two mutually
// distant vertices and each half is simplified on its own.
func approxPolygon(poly []r2.Point, epsilon float64) []r2.Point {
	n := len(poly)
	if n <= 3 {
		out := make([]r2.Point, n)
		copy(out, poly)
		return out
	}
	b := farthestFrom(poly, poly[0])
	a := farthestFrom(poly, poly[b])
	if a == b {
		return []r2.Point{poly[a]}
	}

	cyclic := func(from, to int) []r2.Point {
		var out []r2.Point
		for i := from; ; i = (i + 1) % n {
			out = append(out, poly[i])
			if i == to {
				return out
			}
		}
	}

	first := simplifyChain(cyclic(a, b), epsilon)
	second := simplifyChain(cyclic(b, a), epsilon)
	out := make([]r2.Point, 0, len(first)+len(second)-2)
	out = append(out, first[:len(first)-1]...)
	out = append(out, second[:len(second)-1]...)
	return out
}

// orderCorners sorts a convex quadrilateral into top-left, top-right,
// bottom-right, bottom-left (image coordinates, y down).
func orderCorners(corners []r2.Point) []r2.Point {
	var center r2.Point
	for _, c := range corners {
		center = center.Add(c)
	}
	center = center.Mul(1 / float64(len(corners)))

	out := make([]r2.Point, len(corners))
	copy(out, corners)
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Sub(center), out[j].Sub(center)
		return math.Atan2(di.Y, di.X) < math.Atan2(dj.Y, dj.X)
	})

	start := 0
	for i, c := range out {
		if c.X+c.Y < out[start].X+out[start].Y {
			start = i
		}
	}
	return append(out[start:], out[:start]...)
}

// implicitLine holds a, b, c with a*x + b*y + c = 0.
type implicitLine struct {
	a, b, c float64
}

func lineThrough(s Segment) implicitLine {
	return implicitLine{
		a: s.P1.Y - s.P2.Y,
		b: s.P2.X - s.P1.X,
		c: s.P1.X*s.P2.Y - s.P2.X*s.P1.Y,
	}
}

// lineIntersection solves the two line equations; parallel lines have no
// intersection.
func lineIntersection(l1, l2 implicitLine) (r2.Point, bool) {
	det := l1.a*l2.b - l1.b*l2.a
	if math.Abs(det) < 1e-10 {
		return r2.Point{}, false // Parallel lines
	}
	return r2.Point{
		X: (l1.b*l2.c - l2.b*l1.c) / det,
		Y: (l1.c*l2.a - l2.c*l1.a) / det,
	}, true
}
