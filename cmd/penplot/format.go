package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/penplot/compiler"
)

// ---------------------------------------------------------------------------
// penplot fmt - canonical formatter for program files
// ---------------------------------------------------------------------------

const programExt = ".plot"

// errNeedsFormat is returned by fmt --check when a file is not canonical.
var errNeedsFormat = errors.New("some files need formatting")

func handleFmtCommand(args []string, stdout io.Writer) error {
	checkMode := false
	var files []string

	for _, arg := range args {
		if arg == "--check" || arg == "-check" {
			checkMode = true
		} else if arg == "--help" || arg == "-h" {
			fmt.Fprintf(os.Stderr, "Usage: penplot fmt [--check] <files or directories...>\n\n")
			fmt.Fprintf(os.Stderr, "Rewrite programs in canonical form: one upper-case instruction\n")
			fmt.Fprintf(os.Stderr, "per line, single spaces, labels kept, blank lines dropped.\n\n")
			fmt.Fprintf(os.Stderr, "Options:\n")
			fmt.Fprintf(os.Stderr, "  --check   Check formatting without modifying files.\n")
			fmt.Fprintf(os.Stderr, "            Exits with code 1 if any files need formatting.\n\n")
			fmt.Fprintf(os.Stderr, "If no files are given, formats all %s files under the current directory.\n", programExt)
			return nil
		} else {
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		files = []string{"."}
	}

	plotFiles, err := collectPlotFiles(files)
	if err != nil {
		return err
	}
	if len(plotFiles) == 0 {
		fmt.Fprintf(os.Stderr, "No %s files found\n", programExt)
		return nil
	}

	anyChanged := false
	for _, path := range plotFiles {
		changed, err := formatFile(path, checkMode, stdout)
		if err != nil {
			return fmt.Errorf("formatting %s: %w", path, err)
		}
		if changed {
			anyChanged = true
		}
	}

	if checkMode && anyChanged {
		return errNeedsFormat
	}
	return nil
}

// formatFile formats a single program file.
// In check mode, returns true if the file would be changed.
// Otherwise, rewrites the file in place and returns true if it changed.
func formatFile(path string, checkMode bool, out io.Writer) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	original := string(content)
	formatted, err := compiler.Format(original)
	if err != nil {
		return false, fmt.Errorf("parse error: %w", err)
	}

	if original == formatted {
		return false, nil
	}

	if checkMode {
		fmt.Fprintf(out, "would format: %s\n", path)
		return true, nil
	}

	if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
		return false, err
	}

	fmt.Fprintf(out, "formatted: %s\n", path)
	return true, nil
}

// collectPlotFiles resolves paths to a flat list of program files.
func collectPlotFiles(paths []string) ([]string, error) {
	var result []string

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", p, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("cannot access %q: %w", abs, err)
		}

		if info.IsDir() {
			err := filepath.Walk(abs, func(path string, fi os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !fi.IsDir() && strings.HasSuffix(path, programExt) {
					result = append(result, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			if strings.HasSuffix(abs, programExt) {
				result = append(result, abs)
			} else {
				return nil, fmt.Errorf("%q is not a %s file", abs, programExt)
			}
		}
	}

	return result, nil
}
