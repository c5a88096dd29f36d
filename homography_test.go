package viamothello

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestHomographyRoundTrip(t *testing.T) {
	src := []r2.Point{{X: 37, Y: 52}, {X: 340, Y: 30}, {X: 360, Y: 310}, {X: 20, Y: 290}}
	dst := []r2.Point{{X: 0, Y: 0}, {X: 399, Y: 0}, {X: 399, Y: 399}, {X: 0, Y: 399}}

	h, err := NewHomography(src, dst)
	test.That(t, err, test.ShouldBeNil)
	inv, err := h.Inverse()
	test.That(t, err, test.ShouldBeNil)

	for i := range src {
		pointsNear(t, []r2.Point{h.Apply(src[i])}, []r2.Point{dst[i]}, 1e-6)
		pointsNear(t, []r2.Point{inv.Apply(dst[i])}, []r2.Point{src[i]}, 1e-6)
	}

	for _, p := range []r2.Point{{X: 100, Y: 100}, {X: 200, Y: 150}, {X: 55.5, Y: 280.25}, {X: 330, Y: 45}} {
		pointsNear(t, []r2.Point{inv.Apply(h.Apply(p))}, []r2.Point{p}, 1e-6)
	}
}

func TestHomographyNeedsFourPoints(t *testing.T) {
	_, err := NewHomography([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestWarpPerspective(t *testing.T) {
	r := newRaster(40, 40)
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			r.Pix[y*r.Width+x].G = 1
		}
	}

	// the green square fills the whole warped output
	h, err := NewHomography(
		[]r2.Point{{X: 10, Y: 10}, {X: 29, Y: 10}, {X: 29, Y: 29}, {X: 10, Y: 29}},
		[]r2.Point{{X: 0, Y: 0}, {X: 19, Y: 0}, {X: 19, Y: 19}, {X: 0, Y: 19}},
	)
	test.That(t, err, test.ShouldBeNil)
	inv, err := h.Inverse()
	test.That(t, err, test.ShouldBeNil)

	out := warpPerspective(r, inv, 20)
	test.That(t, out.Width, test.ShouldEqual, 20)
	for _, c := range out.Pix {
		test.That(t, c.G, test.ShouldAlmostEqual, 1, 1e-9)
	}
}
