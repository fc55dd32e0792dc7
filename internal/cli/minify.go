package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylekit/css"
	"github.com/stylekit/css/internal/config"
	"github.com/stylekit/css/internal/log"
)

// NewMinifyCommand creates the minify command.
func NewMinifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minify [patterns...]",
		Short: "Write stylesheets in canonical minimal form",
		Long: `Parse the stylesheets matched by the patterns and write their canonical
minimal form. Patterns may use ** to match any number of directories.

Several files are concatenated, in pattern order, into one stylesheet, so
@import and @namespace rules are only valid in the first files. Without
patterns or configured inputs the stylesheet is read from stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMinify(rootOpts, cmd, args)
		},
	}

	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().StringSlice("exclude", nil, "glob patterns of files to skip")
	cmd.Flags().Bool("source-urls", false, "keep the sourceURL and sourceMappingURL comments")
	cmd.Flags().Bool("allow-unitless-lengths", false, "read unitless numbers as pixel lengths")

	return cmd
}

func runMinify(opts *RootOptions, cmd *cobra.Command, args []string) error {
	c := opts.settings(cmd, args)

	var ss *css.Stylesheet
	var err error
	if len(c.Inputs) == 0 {
		ss, err = css.ParseReader(cmd.InOrStdin(), parseOptions(c, "<stdin>", warnDropped))
	} else {
		var paths []string
		if paths, err = inputFiles(c); err != nil {
			return err
		}
		ss, err = minifyFiles(c, paths)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "minify failed", err)
	}

	if c.Output == "" {
		if err := ss.ToCSS(cmd.OutOrStdout(), c.SourceURLs); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return nil
	}
	if err := ss.ToFilePath(c.Output, c.SourceURLs); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	log.Info("wrote %s", c.Output)
	return nil
}

// minifyFiles parses every file on its own, so errors name the file, then
// parses their concatenation.
func minifyFiles(c config.Config, paths []string) (*css.Stylesheet, error) {
	if len(paths) == 1 {
		return css.FromFilePathWithOptions(paths[0], parseOptions(c, paths[0], warnDropped))
	}

	var buf bytes.Buffer
	for _, path := range paths {
		ss, err := css.FromFilePathWithOptions(path, parseOptions(c, path, warnDropped))
		if err != nil {
			return nil, err
		}
		if c.SourceURLs && (ss.SourceURL != "" || ss.SourceMapURL != "") {
			log.Warn("%s: source comments are not kept when concatenating files", path)
		}
		buf.Write(ss.ToBytes(false))
	}

	return css.ParseReader(&buf, css.ParseOptions{
		Path:                fmt.Sprintf("<%d concatenated files>", len(paths)),
		AllowUnitlessLength: c.AllowUnitlessLengths,
	})
}

func warnDropped(loc string, err error) {
	log.Warn("%s: dropped declaration: %s", loc, err)
}
