package viamothello

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Raster is an RGB image with channels in [0,1].
type Raster struct {
	Width, Height int
	Pix           []colorful.Color
}

func newRaster(width, height int) *Raster {
	return &Raster{Width: width, Height: height, Pix: make([]colorful.Color, width*height)}
}

// NewRaster converts img. Fully transparent pixels become black.
func NewRaster(img image.Image) *Raster {
	bounds := img.Bounds()
	r := newRaster(bounds.Dx(), bounds.Dy())
	for y := range r.Height {
		for x := range r.Width {
			c, ok := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if !ok {
				continue
			}
			r.Pix[y*r.Width+x] = c
		}
	}
	return r
}

func (r *Raster) At(x, y int) colorful.Color { return r.Pix[y*r.Width+x] }

// Image renders the raster back to 8-bit RGBA.
func (r *Raster) Image() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := range r.Height {
		for x := range r.Width {
			c := r.At(x, y).Clamped()
			dst.Set(x, y, color.RGBA{
				uint8(math.Round(c.R * 255)),
				uint8(math.Round(c.G * 255)),
				uint8(math.Round(c.B * 255)),
				255,
			})
		}
	}
	return dst
}

// sample bilinearly interpolates at (x, y). Neighbours outside the raster
// count as black.
func (r *Raster) sample(x, y float64) colorful.Color {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)
	var out colorful.Color
	for dy := 0; dy <= 1; dy++ {
		for dx := 0; dx <= 1; dx++ {
			px, py := x0+dx, y0+dy
			if px < 0 || py < 0 || px >= r.Width || py >= r.Height {
				continue
			}
			w := (1 - math.Abs(float64(dx)-fx)) * (1 - math.Abs(float64(dy)-fy))
			c := r.At(px, py)
			out.R += w * c.R
			out.G += w * c.G
			out.B += w * c.B
		}
	}
	return out
}

// meanColor averages the pixels of rect, which must lie inside the raster.
func (r *Raster) meanColor(rect image.Rectangle) (colorful.Color, bool) {
	rect = rect.Intersect(image.Rect(0, 0, r.Width, r.Height))
	if rect.Empty() {
		return colorful.Color{}, false
	}
	var sum colorful.Color
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := r.At(x, y)
			sum.R += c.R
			sum.G += c.G
			sum.B += c.B
		}
	}
	n := float64(rect.Dx() * rect.Dy())
	return colorful.Color{R: sum.R / n, G: sum.G / n, B: sum.B / n}, true
}

// plane is a single channel float image.
type plane struct {
	width, height int
	v             []float64
}

func newPlane(width, height int) *plane {
	return &plane{width: width, height: height, v: make([]float64, width*height)}
}

func (p *plane) at(x, y int) float64 { return p.v[y*p.width+x] }

func (r *Raster) channels() [3]*plane {
	var out [3]*plane
	for i := range out {
		out[i] = newPlane(r.Width, r.Height)
	}
	for i, c := range r.Pix {
		out[0].v[i], out[1].v[i], out[2].v[i] = c.R, c.G, c.B
	}
	return out
}

func mergeChannels(ch [3]*plane) *Raster {
	r := newRaster(ch[0].width, ch[0].height)
	for i := range r.Pix {
		r.Pix[i] = colorful.Color{R: ch[0].v[i], G: ch[1].v[i], B: ch[2].v[i]}
	}
	return r
}

// luma returns 0.299R+0.587G+0.114B on a 0-255 scale.
func luma(c colorful.Color) float64 {
	return 255 * (0.299*c.R + 0.587*c.G + 0.114*c.B)
}

func sqDist(a, b colorful.Color) float64 {
	dr, dg, db := a.R-b.R, a.G-b.G, a.B-b.B
	return dr*dr + dg*dg + db*db
}

// gaussianKernel mirrors the usual 1-D construction: sigma <= 0 derives a
// sigma from the kernel size.
func gaussianKernel(ksize int, sigma float64) []float64 {
	if ksize < 1 {
		ksize = 1
	}
	if sigma <= 0 {
		sigma = 0.3*(float64(ksize-1)*0.5-1) + 0.8
	}
	k := make([]float64, ksize)
	center := float64(ksize-1) / 2
	sum := 0.0
	for i := range k {
		d := float64(i) - center
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// reflect101 maps an out of range index back inside [0,n) without repeating
// the edge sample.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// blur applies the separable kernel k along both axes.
func (p *plane) blur(k []float64) *plane {
	half := len(k) / 2
	tmp := newPlane(p.width, p.height)
	for y := range p.height {
		row := p.v[y*p.width : (y+1)*p.width]
		for x := range p.width {
			s := 0.0
			for i, w := range k {
				s += w * row[reflect101(x+i-half, p.width)]
			}
			tmp.v[y*p.width+x] = s
		}
	}
	out := newPlane(p.width, p.height)
	for y := range p.height {
		for x := range p.width {
			s := 0.0
			for i, w := range k {
				s += w * tmp.v[reflect101(y+i-half, p.height)*p.width+x]
			}
			out.v[y*p.width+x] = s
		}
	}
	return out
}

func (r *Raster) blur(ksize int, sigma float64) *Raster {
	k := gaussianKernel(ksize, sigma)
	ch := r.channels()
	for i := range ch {
		ch[i] = ch[i].blur(k)
	}
	return mergeChannels(ch)
}

// foregroundMask marks pixels whose squared colour distance to key is below
// threshold, then softens the mask with a Gaussian blur and clips it to [0,1].
func foregroundMask(r *Raster, key colorful.Color, threshold float64, ksize int, sigma float64) *plane {
	mask := newPlane(r.Width, r.Height)
	for i, c := range r.Pix {
		if sqDist(c, key) < threshold {
			mask.v[i] = 1
		}
	}
	mask = mask.blur(gaussianKernel(ksize, sigma))
	for i, v := range mask.v {
		mask.v[i] = math.Min(1, math.Max(0, v))
	}
	return mask
}

// maskedGray is luma(pixel) * mask.
func maskedGray(r *Raster, mask *plane) *plane {
	g := newPlane(r.Width, r.Height)
	for i, c := range r.Pix {
		g.v[i] = luma(c) * mask.v[i]
	}
	return g
}

// maskImage renders a mask as grayscale, for debugging.
func maskImage(mask *plane) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, mask.width, mask.height))
	for i, v := range mask.v {
		dst.Pix[i] = uint8(math.Round(255 * math.Min(1, math.Max(0, v))))
	}
	return dst
}
