package viamothello

import "math"

// sobel computes the 3x3 Sobel derivatives. Border pixels are left at zero.
func sobel(gray *plane) (gx, gy *plane) {
	width, height := gray.width, gray.height
	gx, gy = newPlane(width, height), newPlane(width, height)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			// Sobel X kernel
			sx := -gray.at(x-1, y-1) + gray.at(x+1, y-1) +
				-2*gray.at(x-1, y) + 2*gray.at(x+1, y) +
				-gray.at(x-1, y+1) + gray.at(x+1, y+1)

			// Sobel Y kernel
			sy := -gray.at(x-1, y-1) - 2*gray.at(x, y-1) - gray.at(x+1, y-1) +
				gray.at(x-1, y+1) + 2*gray.at(x, y+1) + gray.at(x+1, y+1)

			gx.v[y*width+x] = sx
			gy.v[y*width+x] = sy
		}
	}
	return gx, gy
}

var (
	tan22 = math.Tan(math.Pi / 8)
	tan67 = math.Tan(3 * math.Pi / 8)
)

// canny returns a binary edge map: L1 gradient magnitude, non-maximum
// suppression along the quantized gradient direction, then hysteresis
// between low and high.
func canny(gray *plane, low, high float64) []bool {
	width, height := gray.width, gray.height
	gx, gy := sobel(gray)

	mag := make([]float64, width*height)
	for i := range mag {
		mag[i] = math.Abs(gx.v[i]) + math.Abs(gy.v[i])
	}

	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, width*height)
	var stack []int

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			m := mag[i]
			if m <= low {
				continue
			}
			ax, ay := math.Abs(gx.v[i]), math.Abs(gy.v[i])

			var prev, next float64
			switch {
			case ay <= ax*tan22:
				prev, next = mag[i-1], mag[i+1]
			case ay > ax*tan67:
				prev, next = mag[i-width], mag[i+width]
			case (gx.v[i] < 0) != (gy.v[i] < 0):
				prev, next = mag[i-width+1], mag[i+width-1]
			default:
				prev, next = mag[i-width-1], mag[i+width+1]
			}
			if m <= prev || m < next {
				continue
			}

			if m > high {
				state[i] = strong
				stack = append(stack, i)
			} else {
				state[i] = weak
			}
		}
	}

	edges := make([]bool, width*height)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if edges[i] {
			continue
		}
		edges[i] = true
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if state[j] != none && !edges[j] {
					stack = append(stack, j)
				}
			}
		}
	}
	return edges
}
