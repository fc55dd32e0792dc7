package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylekit/css"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Report errors and dropped declarations",
		Long: `Parse each stylesheet matched by the patterns and report, one line each,
the error that stops it and the declarations that are dropped from it.

The command fails when a stylesheet has an error, or with --strict when a
declaration is dropped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd, args, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on dropped declarations")
	cmd.Flags().StringSlice("exclude", nil, "glob patterns of files to skip")
	cmd.Flags().Bool("allow-unitless-lengths", false, "read unitless numbers as pixel lengths")

	return cmd
}

func runCheck(opts *RootOptions, cmd *cobra.Command, args []string, strict bool) error {
	c := opts.settings(cmd, args)
	paths, err := inputFiles(c)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	var failed, warnings int
	for _, path := range paths {
		_, err := css.FromFilePathWithOptions(path, parseOptions(c, path, func(loc string, err error) {
			warnings++
			fmt.Fprintf(w, "%s: dropped: %s\n", loc, err)
		}))
		if err != nil {
			failed++
			fmt.Fprintln(w, err)
		}
	}
	fmt.Fprintf(w, "checked %d file(s): %d error(s), %d dropped declaration(s)\n", len(paths), failed, warnings)

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) failed", failed, len(paths)))
	}
	if strict && warnings > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d declaration(s) dropped", warnings))
	}
	return nil
}
