package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stylekit/css"
	"github.com/stylekit/css/internal/config"
	"github.com/stylekit/css/internal/log"
	"github.com/stylekit/css/parser"
)

// expandInputs returns the files matched by patterns, pattern by pattern,
// leaving out those matched by an exclude pattern. A file is listed once.
// A pattern without glob syntax must name an existing file.
func expandInputs(patterns, exclude []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			if !hasMeta(pattern) {
				return nil, fmt.Errorf("%s: %w", pattern, fs.ErrNotExist)
			}
			log.Warn("no files match %s", pattern)
			continue
		}
		sort.Strings(matches)

		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			skip, err := isExcluded(path, exclude)
			if err != nil {
				return nil, err
			}
			if skip {
				log.Debug("excluded %s", path)
				continue
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func isExcluded(path string, exclude []string) (bool, error) {
	for _, pattern := range exclude {
		ok, err := doublestar.PathMatch(filepath.Clean(pattern), path)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// inputFiles expands the inputs of c, failing when nothing is left.
func inputFiles(c config.Config) ([]string, error) {
	if len(c.Inputs) == 0 {
		return nil, NewExitError(ExitCommandError, "no inputs: pass file patterns or set inputs in "+config.DefaultFile)
	}
	paths, err := expandInputs(c.Inputs, c.Exclude)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to expand inputs", err)
	}
	if len(paths) == 0 {
		return nil, NewExitError(ExitCommandError, "no input files")
	}
	log.Debug("%d input file(s)", len(paths))
	return paths, nil
}

// parseOptions returns the options for reading path. Dropped declarations
// go to onDropped with their location.
func parseOptions(c config.Config, path string, onDropped func(loc string, err error)) css.ParseOptions {
	return css.ParseOptions{
		Path:                path,
		AllowUnitlessLength: c.AllowUnitlessLengths,
		OnDroppedDeclaration: func(err error) {
			onDropped(location(path, err), err)
		},
	}
}

func location(path string, err error) string {
	if pos, ok := parser.PositionOf(err); ok {
		return fmt.Sprintf("%s:%s", path, pos)
	}
	return path
}
