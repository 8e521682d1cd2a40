// Package render runs programs onto pixel canvases and encodes the result.
//
// Rendering is two passes when the canvas size is not pinned: a dry run on a
// SizingCanvas finds the bounding box of every pen destination, then the
// program runs again on a PixelCanvas of exactly that size, shifted so that
// nothing is clipped.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/tliron/commonlog"

	"github.com/chazu/penplot/canvas"
	"github.com/chazu/penplot/vm"
)

var log = commonlog.GetLogger("penplot.render")

// MaxPixels is the largest canvas Render will allocate.
const MaxPixels = 1 << 28

// ErrCanvasTooLarge is returned when a measured or pinned canvas exceeds
// MaxPixels.
var ErrCanvasTooLarge = errors.New("canvas too large")

// Options controls a render. A zero Width or Height is measured from the
// program, and the matching offset is measured with it.
type Options struct {
	Width   int
	Height  int
	OffsetX int
	OffsetY int

	// Scale multiplies the output size using nearest-neighbor sampling.
	// Values below 2 leave the image unscaled.
	Scale int

	// MaxSteps bounds the number of executed instructions and the depth of
	// the call stack.
	MaxSteps int
	Trace    bool
}

// Pinned reports whether both dimensions are given explicitly.
func (o Options) Pinned() bool {
	return o.Width > 0 && o.Height > 0
}

func (o Options) machineOptions() []vm.Option {
	var opts []vm.Option
	if o.MaxSteps > 0 {
		opts = append(opts, vm.WithStepLimit(o.MaxSteps), vm.WithCallStackLimit(o.MaxSteps))
	}
	if o.Trace {
		opts = append(opts, vm.WithTrace())
	}
	return opts
}

// Bounds is the result of a sizing pass.
type Bounds struct {
	Width, Height    int
	OffsetX, OffsetY int
}

// Measure runs p on a sizing canvas and returns the canvas size and offset
// that fit every pen destination.
func Measure(p vm.Program, opts Options) (Bounds, error) {
	sc := canvas.NewSizingCanvas()
	m := vm.NewMachine(sc, opts.machineOptions()...)
	if err := m.Execute(p); err != nil {
		return Bounds{}, fmt.Errorf("sizing pass: %w", err)
	}

	var b Bounds
	b.Width, b.Height = sc.Dimensions()
	b.OffsetX, b.OffsetY = sc.Offsets()
	log.Debugf("measured %dx%d offset (%d,%d) in %d steps", b.Width, b.Height, b.OffsetX, b.OffsetY, m.Steps())
	return b, nil
}

// Render runs p on a pixel canvas sized per opts.
func Render(p vm.Program, opts Options) (*canvas.PixelCanvas, error) {
	if !opts.Pinned() {
		b, err := Measure(p, opts)
		if err != nil {
			return nil, err
		}
		if opts.Width <= 0 {
			opts.Width, opts.OffsetX = b.Width, b.OffsetX
		}
		if opts.Height <= 0 {
			opts.Height, opts.OffsetY = b.Height, b.OffsetY
		}
	}

	if int64(opts.Width)*int64(opts.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrCanvasTooLarge, opts.Width, opts.Height, MaxPixels)
	}

	pc := canvas.NewPixelCanvas(opts.Width, opts.Height, opts.OffsetX, opts.OffsetY)
	m := vm.NewMachine(pc, opts.machineOptions()...)
	if err := m.Execute(p); err != nil {
		return nil, fmt.Errorf("render pass: %w", err)
	}

	log.Infof("rendered %d instructions in %d steps onto %dx%d", len(p), m.Steps(), opts.Width, opts.Height)
	return pc, nil
}

// Image returns the canvas as an image, scaled by factor.
func Image(pc *canvas.PixelCanvas, factor int) image.Image {
	img := pc.Image()
	if factor < 2 {
		return img
	}
	w, h := pc.Size()
	return transform.Resize(img, w*factor, h*factor, transform.NearestNeighbor)
}
