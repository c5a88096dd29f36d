package viamothello

import (
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"
)

// CornerDetection keeps the intermediate results of a detection run.
type CornerDetection struct {
	Mask     *image.Gray
	Segments []Segment
	// Families holds the near-horizontal lines first.
	Families [2][]Segment
	Points   []r2.Point
	Hull     []r2.Point
	Polygon  []r2.Point
	// Corners is Polygon ordered top-left, top-right, bottom-right,
	// bottom-left; nil when detection failed.
	Corners []r2.Point
}

// DetectCorners finds the four outer corners of the playing surface.
func DetectCorners(img image.Image, cfg DetectorConfig) ([]r2.Point, error) {
	det, err := detectCorners(NewRaster(img), cfg)
	if err != nil {
		return nil, err
	}
	return det.Corners, nil
}

// detectCorners isolates the playing surface by colour, finds straight
// edges, splits them into two direction families, intersects the families
// and keeps the outline of the crossings when it is a quadrilateral.
func detectCorners(r *Raster, cfg DetectorConfig) (*CornerDetection, error) {
	det := &CornerDetection{}
	height := float64(r.Height)

	if r.Width < 3 || r.Height < 3 {
		return det, fmt.Errorf("%w: image too small (%dx%d)", ErrCornerDetectionFailed, r.Width, r.Height)
	}

	maskKernel := int(height*cfg.MaskBlurFraction) | 1
	mask := foregroundMask(r, rgb(cfg.ChromaKey), cfg.ChromaThreshold, maskKernel, cfg.MaskBlurSigma)
	det.Mask = maskImage(mask)

	gray := maskedGray(r, mask).blur(gaussianKernel(cfg.EdgeBlurKernel, 0))
	edges := canny(gray, cfg.CannyLow, cfg.CannyHigh)

	rng := rand.New(rand.NewSource(cfg.Seed))
	det.Segments = houghSegments(edges, r.Width, r.Height,
		max(1, int(height*cfg.HoughVoteFraction)),
		height*cfg.HoughMinLengthFraction,
		int(height*cfg.HoughMaxGapFraction),
		rng,
	)
	if len(det.Segments) < 4 {
		return det, fmt.Errorf("%w: found %d line segments", ErrCornerDetectionFailed, len(det.Segments))
	}

	families, ok := lineFamilies(det.Segments, cfg.AngleEpsilon, cfg.FamilyDot)
	if isVertical(families[0]) {
		families[0], families[1] = families[1], families[0]
	}
	det.Families = families
	if !ok || len(families[0]) == 0 || len(families[1]) == 0 {
		return det, fmt.Errorf("%w: could not split %d lines into two directions", ErrCornerDetectionFailed, len(det.Segments))
	}

	bounds := r2.RectFromPoints(
		r2.Point{X: -cfg.BoundsMargin, Y: -cfg.BoundsMargin},
		r2.Point{X: float64(r.Width) + cfg.BoundsMargin, Y: height + cfg.BoundsMargin},
	)
	for _, a := range families[0] {
		for _, b := range families[1] {
			p, ok := lineIntersection(lineThrough(a), lineThrough(b))
			if ok && bounds.ContainsPoint(p) {
				det.Points = append(det.Points, p)
			}
		}
	}
	if len(det.Points) > cfg.GridPoints {
		det.Points = kmeans(det.Points, cfg.GridPoints, rng)
	}
	if len(det.Points) < 4 {
		return det, fmt.Errorf("%w: only %d grid crossings", ErrCornerDetectionFailed, len(det.Points))
	}

	det.Hull = convexHull(det.Points)
	det.Polygon = approxPolygon(det.Hull, cfg.PolygonTolerance*perimeter(det.Hull))
	if len(det.Polygon) != 4 {
		return det, fmt.Errorf("%w: outline has %d vertices", ErrCornerDetectionFailed, len(det.Polygon))
	}
	det.Corners = orderCorners(det.Polygon)
	return det, nil
}

// canonicalDirection flips d so its angle lies in [-pi/4, 3pi/4). Both
// orientations of the same segment then agree, and near-horizontal and
// near-vertical lines sit far from the wrap-around.
func canonicalDirection(d r2.Point) (r2.Point, float64) {
	theta := math.Atan2(d.Y, d.X)
	switch {
	case theta >= 3*math.Pi/4:
		return d.Mul(-1), theta - math.Pi
	case theta < -math.Pi/4:
		return d.Mul(-1), theta + math.Pi
	}
	return d, theta
}

type lineFamily struct {
	sum   r2.Point
	lines []Segment
}

func (f *lineFamily) add(s Segment, dir r2.Point) {
	f.sum = f.sum.Add(dir)
	f.lines = append(f.lines, s)
}

// matches reports whether unit direction u is within the family's running
// mean direction.
func (f *lineFamily) matches(u r2.Point, minDot float64) bool {
	if f.sum.Norm() == 0 {
		return false
	}
	return math.Abs(u.Dot(f.sum.Normalize())) > minDot
}

// lineFamilies clusters segment angles and returns the two grid line
// families. The most populous angle cluster seeds the first family, the
// most populous cluster not parallel to it seeds the second. Lines from any
// other cluster are then assigned, in input order, to the first family whose
// running mean direction they match; the means keep moving as lines join.
func lineFamilies(segments []Segment, eps, minDot float64) ([2][]Segment, bool) {
	dirs := make([]r2.Point, len(segments))
	angles := make([]float64, len(segments))
	for i, s := range segments {
		dirs[i], angles[i] = canonicalDirection(s.Direction())
	}
	labels := dbscan1D(angles, eps, 1)

	clusterSum := map[int]r2.Point{}
	for i, l := range labels {
		if l != noiseLabel {
			clusterSum[l] = clusterSum[l].Add(dirs[i])
		}
	}
	counts := lo.CountValues(lo.Filter(labels, func(l int, _ int) bool { return l != noiseLabel }))
	ranked := lo.Keys(counts)
	sortClusters(ranked, counts)
	if len(ranked) == 0 {
		return [2][]Segment{}, false
	}

	primary, secondary := ranked[0], noiseLabel
	primaryDir := clusterSum[primary].Normalize()
	for _, l := range ranked[1:] {
		if math.Abs(clusterSum[l].Normalize().Dot(primaryDir)) <= minDot {
			secondary = l
			break
		}
	}
	if secondary == noiseLabel {
		return [2][]Segment{}, false
	}

	var families [2]lineFamily
	for i, s := range segments {
		switch labels[i] {
		case primary:
			families[0].add(s, dirs[i])
		case secondary:
			families[1].add(s, dirs[i])
		default:
			u := dirs[i].Normalize()
			for f := range families {
				if families[f].matches(u, minDot) {
					families[f].add(s, dirs[i])
					break
				}
			}
		}
	}
	return [2][]Segment{families[0].lines, families[1].lines}, true
}

// sortClusters orders labels by member count, largest first, breaking ties
// by discovery order.
func sortClusters(labels []int, counts map[int]int) {
	for i := 1; i < len(labels); i++ {
		for j := i; j > 0; j-- {
			a, b := labels[j-1], labels[j]
			if counts[a] > counts[b] || (counts[a] == counts[b] && a < b) {
				break
			}
			labels[j-1], labels[j] = b, a
		}
	}
}

// isVertical reports whether a family runs closer to the y axis.
func isVertical(lines []Segment) bool {
	var sum r2.Point
	for _, s := range lines {
		d, _ := canonicalDirection(s.Direction())
		sum = sum.Add(d)
	}
	return math.Abs(sum.Y) > math.Abs(sum.X)
}
