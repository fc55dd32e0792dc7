package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylekit/css"
)

// NewSelectorsCommand creates the selectors command.
func NewSelectorsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selectors <selector-list>...",
		Short: "Parse selector lists",
		Long: `Parse each argument as a selector list and print its canonical form,
followed by one line per selector telling whether it only uses descendant
combinators and no pseudo-element, as keyframe-style selectors must.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelectors(cmd, args)
		},
	}
	return cmd
}

func runSelectors(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	var failed int
	for _, text := range args {
		list, err := css.ParseCSSSelector(text)
		if err != nil {
			failed++
			fmt.Fprintf(w, "%q: %s\n", text, err)
			continue
		}

		fmt.Fprintln(w, list)
		for _, sel := range list {
			kind := "complex"
			if sel.IsSimpleDescendantOnly() {
				kind = "descendant-only"
			}
			fmt.Fprintf(w, "\t%s\t%s\n", sel, kind)
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d selector list(s) are invalid", failed, len(args)))
	}
	return nil
}
