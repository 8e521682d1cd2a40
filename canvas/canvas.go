// Package canvas provides the drawing surfaces a penplot program runs
// against: a raster canvas that paints pixels and a sizing canvas that only
// measures the area a program touches.
package canvas

import "github.com/chewxy/math32"

// Canvas is the set of capabilities the interpreter needs from a drawing
// surface. Implementations decide what "drawing" means.
type Canvas interface {
	// MovePenTo moves the pen to (x, y), in program coordinates.
	MovePenTo(x, y float32)
	// Blot marks the single point (x, y) with the pen color.
	Blot(x, y float32)
	// SetColor changes the pen color.
	SetColor(c Color)
}

// round maps a program coordinate to a grid coordinate, rounding half away
// from zero.
func round(v float32) int {
	return int(math32.Round(v))
}

// Line rasterizes the segment from (x0, y0) to (x1, y1) with Bresenham's
// algorithm, calling plot once for every grid point on the line, endpoints
// included.
func Line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}

	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
