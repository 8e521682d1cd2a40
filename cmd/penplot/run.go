package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chazu/penplot/compiler"
	"github.com/chazu/penplot/manifest"
	"github.com/chazu/penplot/render"
	"github.com/chazu/penplot/vm"
)

// renderFlags are the canvas and output flags shared by run and fractal.
// Flags given on the command line override the manifest.
type renderFlags struct {
	width, height    int
	offsetX, offsetY int
	scale            int
	maxSteps         int
	trace            bool
	format           string
	verbosity        int
}

func (rf *renderFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&rf.width, "width", 0, "canvas width (0 measures the drawing)")
	fs.IntVar(&rf.height, "height", 0, "canvas height (0 measures the drawing)")
	fs.IntVar(&rf.offsetX, "offset-x", 0, "x offset of the origin on a pinned canvas")
	fs.IntVar(&rf.offsetY, "offset-y", 0, "y offset of the origin on a pinned canvas")
	fs.IntVar(&rf.scale, "scale", 1, "nearest-neighbor output scale factor")
	fs.IntVar(&rf.maxSteps, "max-steps", 0, "stop after this many instructions (0 is unlimited)")
	fs.BoolVar(&rf.trace, "trace", false, "log every executed instruction (shown with -v 2)")
	fs.StringVar(&rf.format, "format", "", "output format: png, jpeg, gif, tiff, bmp (default from extension)")
	fs.IntVar(&rf.verbosity, "v", 0, "log verbosity (0 quiet, 1 info, 2 debug)")
}

// apply merges the flags over the manifest settings.
func (rf *renderFlags) apply(m *manifest.Manifest, set map[string]bool) (render.Options, render.Format, error) {
	opts := render.Options{
		Width:    m.Canvas.Width,
		Height:   m.Canvas.Height,
		OffsetX:  m.Canvas.OffsetX,
		OffsetY:  m.Canvas.OffsetY,
		Scale:    m.Output.Scale,
		MaxSteps: m.Run.MaxSteps,
		Trace:    m.Run.Trace,
	}
	if set["width"] {
		opts.Width = rf.width
	}
	if set["height"] {
		opts.Height = rf.height
	}
	if set["offset-x"] {
		opts.OffsetX = rf.offsetX
	}
	if set["offset-y"] {
		opts.OffsetY = rf.offsetY
	}
	if set["scale"] {
		opts.Scale = rf.scale
	}
	if set["max-steps"] {
		opts.MaxSteps = rf.maxSteps
	}
	if set["trace"] {
		opts.Trace = rf.trace
	}

	if opts.Width < 0 || opts.Height < 0 {
		return opts, render.None, fmt.Errorf("canvas size must not be negative")
	}
	if opts.MaxSteps < 0 {
		return opts, render.None, fmt.Errorf("-max-steps must not be negative")
	}

	name := m.Output.Format
	if set["format"] {
		name = rf.format
	}
	format := render.None
	if name != "" {
		f, err := render.ParseFormat(name)
		if err != nil {
			return opts, render.None, err
		}
		format = f
	}
	return opts, format, nil
}

func (rf *renderFlags) logLevel(m *manifest.Manifest, set map[string]bool) int {
	if set["v"] {
		return rf.verbosity
	}
	return m.Log.Verbosity
}

// draw renders p and writes the image to path.
func draw(p vm.Program, opts render.Options, format render.Format, path string) error {
	pc, err := render.Render(p, opts)
	if err != nil {
		return err
	}
	if err := render.Save(path, render.Image(pc, opts.Scale), format); err != nil {
		return err
	}
	w, h := pc.Size()
	log.Infof("wrote %s (%dx%d, scale %d)", path, w, h, max(opts.Scale, 1))
	return nil
}

func handleRunCommand(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var rf renderFlags
	rf.register(fs)
	input := fs.String("i", "", "program file (default: manifest entry, then stdin)")
	output := fs.String("o", "", "output image (default: manifest output, then out.png)")
	check := fs.Bool("check", false, "only parse and dry-run, write no image")
	watch := fs.Bool("watch", false, "render again whenever the program file changes")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: penplot run [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Render a program to an image. With no file, the manifest entry\n")
		fmt.Fprintf(os.Stderr, "or standard input is read.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	m, err := loadManifest()
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	set := setFlags(fs)
	setupLogging(rf.logLevel(m, set))

	path := *input
	if fs.NArg() > 1 {
		return fmt.Errorf("run takes at most one file, got %d", fs.NArg())
	}
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}
	if path == "" {
		path = m.EntryPath()
	}

	opts, format, err := rf.apply(m, set)
	if err != nil {
		return err
	}

	out := *output
	if out == "" {
		out = m.OutputPath()
	}

	once := func() error {
		source, err := readInput(path, stdin)
		if err != nil {
			return err
		}
		p, _, err := compiler.CompileProgram(source)
		if err != nil {
			return prefixed(path, err)
		}

		if *check {
			b, err := render.Measure(p, opts)
			if err != nil {
				return prefixed(path, err)
			}
			fmt.Fprintf(stdout, "ok: %d instructions, %dx%d\n", len(p), b.Width, b.Height)
			return nil
		}
		if err := draw(p, opts, format, out); err != nil {
			return prefixed(path, err)
		}
		return nil
	}

	if !*watch {
		return once()
	}
	if path == "" || path == "-" {
		return fmt.Errorf("-watch needs a program file")
	}
	ctx, stop := interruptContext()
	defer stop()
	return watchFile(ctx, path, once)
}

// prefixed names the input file in err. Standard input is left unnamed.
func prefixed(path string, err error) error {
	if path == "" || path == "-" {
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}
