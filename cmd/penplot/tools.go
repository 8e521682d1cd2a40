package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/penplot/compiler"
	"github.com/chazu/penplot/manifest"
	"github.com/chazu/penplot/server"
	"github.com/chazu/penplot/vm"
)

// ---------------------------------------------------------------------------
// penplot disasm
// ---------------------------------------------------------------------------

func handleDisasmCommand(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("disasm", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: penplot disasm [file]\n\n")
		fmt.Fprintf(os.Stderr, "Print one line per instruction with its address. Jump targets\n")
		fmt.Fprintf(os.Stderr, "are marked with '>' and labels are shown next to their address.\n")
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("disasm takes at most one file, got %d", fs.NArg())
	}

	path := fs.Arg(0)
	if path == "" {
		m, err := loadManifest()
		if err != nil {
			return fmt.Errorf("loading manifest: %w", err)
		}
		path = m.EntryPath()
	}

	source, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	f, err := compiler.ParseProgram(source)
	if err != nil {
		return prefixed(path, err)
	}

	_, err = io.WriteString(stdout, vm.Disassemble(f.Program(), f.Symbols))
	return err
}

// ---------------------------------------------------------------------------
// penplot init
// ---------------------------------------------------------------------------

const starterProgram = `; a 10x10 square drawn by a subroutine
CALL square
HALT
RGB 0 0 0 @square
LOOP side 4
RTRN
WALK 10 @side
TURN 90
RTRN
`

func handleInitCommand(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	name := fs.String("name", "", "project name (default: directory name)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: penplot init [options] [dir]\n\n")
		fmt.Fprintf(os.Stderr, "Write %s and a starter main%s.\n\n", manifest.FileName, programExt)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}

	m := manifest.Default()
	m.Project.Name = *name
	if m.Project.Name == "" {
		m.Project.Name = filepath.Base(abs)
	}
	m.Source.Entry = "main" + programExt

	if err := manifest.Write(abs, m); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	fmt.Fprintf(stdout, "created: %s\n", filepath.Join(abs, manifest.FileName))

	entry := filepath.Join(abs, m.Source.Entry)
	if _, err := os.Stat(entry); err == nil {
		return nil
	}
	if err := os.WriteFile(entry, []byte(starterProgram), 0644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "created: %s\n", entry)
	return nil
}

// ---------------------------------------------------------------------------
// penplot lsp
// ---------------------------------------------------------------------------

func handleLspCommand(args []string) error {
	fs := flag.NewFlagSet("lsp", flag.ContinueOnError)
	verbosity := fs.Int("v", 0, "log verbosity; logs go to stderr")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	setupLogging(*verbosity)

	return server.NewLSP(version).Run()
}
