package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chazu/penplot/compiler"
	"github.com/chazu/penplot/lsystem"
)

func handleFractalCommand(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("fractal", flag.ContinueOnError)
	var rf renderFlags
	rf.register(fs)
	input := fs.String("i", "", "L-system spec, .lsys text or .yaml (default: manifest fractal.spec, then stdin)")
	iterations := fs.Int("n", 0, "number of rewriting passes")
	koch := fs.String("koch", "", "use the built-in Koch curve, as LENGTH,ANGLE")
	output := fs.String("o", "", "write the expanded program to this file")
	image := fs.String("render", "", "render the expanded program to this image")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: penplot fractal [options]\n\n")
		fmt.Fprintf(os.Stderr, "Expand an L-system and print the resulting program. With -render\n")
		fmt.Fprintf(os.Stderr, "the program is drawn instead of printed, unless -o is also given.\n")
		fmt.Fprintf(os.Stderr, "With no -i, -koch or manifest spec, the text form is read from\n")
		fmt.Fprintf(os.Stderr, "standard input.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	m, err := loadManifest()
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	set := setFlags(fs)
	setupLogging(rf.logLevel(m, set))

	n := m.Fractal.Iterations
	if set["n"] {
		n = *iterations
	}
	if n < 0 {
		return fmt.Errorf("-n must not be negative")
	}

	var ls *lsystem.LSystem
	path := *input
	switch {
	case *koch != "":
		length, angle, err := parseKoch(*koch)
		if err != nil {
			return err
		}
		ls = lsystem.Koch(length, angle)
	default:
		if path == "" {
			path = m.SpecPath()
		}
		source, err := readInput(path, stdin)
		if err != nil {
			return err
		}
		if ls, err = loadLSystem(path, source); err != nil {
			return prefixed(path, err)
		}
	}

	p := ls.Iterate(n, func(pass, length int) {
		log.Infof("pass %d: %d instructions", pass, length)
	})

	switch {
	case *output != "":
		if err := os.WriteFile(*output, []byte(p.String()), 0644); err != nil {
			return err
		}
		log.Infof("wrote %s (%d instructions)", *output, len(p))
	case *image == "":
		if _, err := io.WriteString(stdout, p.String()); err != nil {
			return err
		}
	}

	if *image != "" {
		opts, format, err := rf.apply(m, set)
		if err != nil {
			return err
		}
		return draw(p, opts, format, *image)
	}
	return nil
}

// loadLSystem parses the text form, or the YAML form for .yaml and .yml files.
func loadLSystem(path, source string) (*lsystem.LSystem, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return compiler.DecodeLSystemYAML(strings.NewReader(source))
	}
	return compiler.CompileLSystem(source)
}

// parseKoch reads "LENGTH,ANGLE".
func parseKoch(s string) (length, angle int, err error) {
	lenStr, angleStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("-koch: expected LENGTH,ANGLE, got %q", s)
	}
	if length, err = strconv.Atoi(strings.TrimSpace(lenStr)); err != nil {
		return 0, 0, fmt.Errorf("-koch: bad length %q", lenStr)
	}
	if angle, err = strconv.Atoi(strings.TrimSpace(angleStr)); err != nil {
		return 0, 0, fmt.Errorf("-koch: bad angle %q", angleStr)
	}
	return length, angle, nil
}
