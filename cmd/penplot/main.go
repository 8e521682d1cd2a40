// penplot CLI - draws pseudo-assembly turtle programs and L-system fractals
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/penplot/manifest"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("penplot.cli")

// errUsage signals that usage was already printed.
var errUsage = errors.New("usage")

func main() {
	if err := dispatch(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: penplot <command> [options] [args]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  run      Render a program to an image\n")
	fmt.Fprintf(w, "  fractal  Expand an L-system into a program, optionally rendering it\n")
	fmt.Fprintf(w, "  fmt      Rewrite programs in canonical form\n")
	fmt.Fprintf(w, "  disasm   Print an addressed listing of a program\n")
	fmt.Fprintf(w, "  init     Write a penplot.toml in the current directory\n")
	fmt.Fprintf(w, "  lsp      Start the language server on stdio\n")
	fmt.Fprintf(w, "  version  Print the version\n")
	fmt.Fprintf(w, "\nRun 'penplot <command> -h' for command options.\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  penplot run -o square.png square.plot\n")
	fmt.Fprintf(w, "  penplot run -width 512 -height 512 -offset-x 256 -offset-y 256 spiral.plot\n")
	fmt.Fprintf(w, "  penplot fractal -koch 5,90 -n 3 -render koch.png\n")
	fmt.Fprintf(w, "  penplot fractal -i snowflake.lsys -n 4 -o snowflake.plot\n")
}

func dispatch(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "run":
		return handleRunCommand(rest, stdin, stdout)
	case "fractal":
		return handleFractalCommand(rest, stdin, stdout)
	case "fmt":
		return handleFmtCommand(rest, stdout)
	case "disasm":
		return handleDisasmCommand(rest, stdin, stdout)
	case "init":
		return handleInitCommand(rest, stdout)
	case "lsp":
		return handleLspCommand(rest)
	case "version", "-version", "--version":
		fmt.Fprintf(stdout, "penplot %s\n", version)
		return nil
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	}

	usage(os.Stderr)
	return fmt.Errorf("unknown command %q", cmd)
}

// setupLogging configures commonlog on stderr. 1 adds info, 2 adds debug.
func setupLogging(verbosity int) {
	commonlog.Configure(verbosity, nil)
}

// loadManifest finds penplot.toml from the working directory. A missing
// manifest yields the defaults.
func loadManifest() (*manifest.Manifest, error) {
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if m == nil {
		return manifest.Default(), nil
	}
	log.Debugf("using %s", m.Resolve(manifest.FileName))
	return m, nil
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
