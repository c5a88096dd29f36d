package viamothello

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	cornerColor = color.RGBA{255, 0, 0, 255}
	lightColor  = color.RGBA{255, 255, 255, 255}
	darkColor   = color.RGBA{0, 0, 0, 255}
)

// Annotate copies img and draws the board outline plus a marker and label
// on each side's recommended move.
func Annotate(img image.Image, a *Analysis) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	if a == nil {
		return dst
	}

	for i, c := range a.Corners {
		next := a.Corners[(i+1)%len(a.Corners)]
		drawLine(dst, c, next, cornerColor)
		drawCircle(dst, int(c.X), int(c.Y), 10, cornerColor)
		drawCross(dst, int(c.X), int(c.Y), 15, cornerColor)
	}

	radius := markerRadius(a.Corners)
	for _, rec := range []*Recommendation{a.Light, a.Dark} {
		if rec == nil {
			continue
		}
		fill, outline := lightColor, darkColor
		if rec.Side == Dark {
			fill, outline = darkColor, lightColor
		}
		x, y := int(math.Round(rec.Point.X)), int(math.Round(rec.Point.Y))
		fillCircle(dst, x, y, radius, fill)
		drawCircle(dst, x, y, radius, outline)
		drawString(dst, x-7, y+radius+13, rec.Move.String(), cornerColor)
	}
	return dst
}

// markerRadius is a third of the mean cell width, with a floor for tiny or
// unknown boards.
func markerRadius(corners []r2.Point) int {
	if len(corners) != 4 {
		return 8
	}
	return max(4, int(perimeter(corners)/4/BoardSize/3))
}

func drawLine(img *image.RGBA, a, b r2.Point, c color.Color) {
	steps := int(math.Ceil(b.Sub(a).Norm()))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		p := a.Add(b.Sub(a).Mul(t))
		img.Set(int(math.Round(p.X)), int(math.Round(p.Y)), c)
	}
}

func drawCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for angle := 0.0; angle < 360; angle++ {
		x := cx + int(float64(radius)*math.Cos(angle*math.Pi/180))
		y := cy + int(float64(radius)*math.Sin(angle*math.Pi/180))
		img.Set(x, y, c)
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

func drawCross(img *image.RGBA, cx, cy, size int, c color.Color) {
	for d := -size; d <= size; d++ {
		img.Set(cx+d, cy, c)
		img.Set(cx, cy+d, c)
	}
}

func drawString(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

// HueImage replaces every pixel with its pure hue and draws an even 8x8 grid
// on top. Handy for picking a chroma key.
func HueImage(srcImg image.Image) *image.RGBA {
	bounds := srcImg.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := range bounds.Dy() {
		for x := range bounds.Dx() {
			cf, ok := colorful.MakeColor(srcImg.At(bounds.Min.X+x, bounds.Min.Y+y))
			if !ok {
				continue
			}
			h, _, _ := cf.Hsv()
			dst.Set(x, y, colorful.Hsv(h, 1, 1))
		}
	}

	width, height := bounds.Dx(), bounds.Dy()
	for i := 0; i <= BoardSize; i++ {
		x := width * i / BoardSize
		for y := range height {
			dst.Set(x, y, darkColor)
		}
		y := height * i / BoardSize
		for x := range width {
			dst.Set(x, y, darkColor)
		}
	}
	return dst
}

// MaskImage renders the foreground mask the corner detector starts from.
func MaskImage(img image.Image, cfg DetectorConfig) *image.Gray {
	r := NewRaster(img)
	ksize := int(float64(r.Height)*cfg.MaskBlurFraction) | 1
	return maskImage(foregroundMask(r, rgb(cfg.ChromaKey), cfg.ChromaThreshold, ksize, cfg.MaskBlurSigma))
}
