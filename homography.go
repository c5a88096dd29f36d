package viamothello

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Homography is a 3x3 projective transform of the plane.
type Homography struct {
	m *mat.Dense
}

// NewHomography solves for the transform taking each src[i] to dst[i].
// Exactly four correspondences are required, no three of them collinear.
func NewHomography(src, dst []r2.Point) (*Homography, error) {
	if len(src) != 4 || len(dst) != 4 {
		return nil, errors.Errorf("homography needs 4 point pairs, got %d and %d", len(src), len(dst))
	}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := range 4 {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return nil, errors.Wrap(err, "degenerate point correspondence")
	}

	m := mat.NewDense(3, 3, []float64{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	})
	return &Homography{m: m}, nil
}

// Apply maps p through the transform.
func (h *Homography) Apply(p r2.Point) r2.Point {
	m := h.m
	w := m.At(2, 0)*p.X + m.At(2, 1)*p.Y + m.At(2, 2)
	return r2.Point{
		X: (m.At(0, 0)*p.X + m.At(0, 1)*p.Y + m.At(0, 2)) / w,
		Y: (m.At(1, 0)*p.X + m.At(1, 1)*p.Y + m.At(1, 2)) / w,
	}
}

func (h *Homography) Inverse() (*Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(h.m); err != nil {
		return nil, errors.Wrap(err, "homography is not invertible")
	}
	return &Homography{m: &inv}, nil
}

// warpPerspective renders a size x size image whose pixel (x, y) is sampled
// from r at inv(x, y).
func warpPerspective(r *Raster, inv *Homography, size int) *Raster {
	out := newRaster(size, size)
	for y := range size {
		for x := range size {
			src := inv.Apply(r2.Point{X: float64(x), Y: float64(y)})
			out.Pix[y*size+x] = r.sample(src.X, src.Y)
		}
	}
	return out
}
