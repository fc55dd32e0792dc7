package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stylekit/css"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/rules"
)

// NewColorsCommand creates the colors command.
func NewColorsCommand(rootOpts *RootOptions) *cobra.Command {
	var unique bool

	cmd := &cobra.Command{
		Use:   "colors [patterns...]",
		Short: "List the colors used by property declarations",
		Long: `List every property declaration whose value is a single color: a named
color, a hex color or a color function such as rgb() or hsl(). Colors are
printed as hex.

With --unique each distinct color is printed once with its use count,
most used first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColors(rootOpts, cmd, args, unique)
		},
	}

	cmd.Flags().BoolVarP(&unique, "unique", "u", false, "print each color once with its count")
	cmd.Flags().StringSlice("exclude", nil, "glob patterns of files to skip")

	return cmd
}

// colorUse is a declaration with a color value.
type colorUse struct {
	Location string
	Property string
	Hex      string
}

func runColors(opts *RootOptions, cmd *cobra.Command, args []string, unique bool) error {
	c := opts.settings(cmd, args)
	paths, err := inputFiles(c)
	if err != nil {
		return err
	}

	var uses []colorUse
	for _, path := range paths {
		ss, err := css.FromFilePathWithOptions(path, parseOptions(c, path, warnDropped))
		if err != nil {
			return WrapExitError(ExitFailure, "colors failed", err)
		}
		walkDeclarations(ss.Rules, func(d *properties.Declaration) {
			v, ok := d.Value.(*properties.SpecifiedValue)
			if !ok {
				return
			}
			if color, ok := v.Color(); ok {
				uses = append(uses, colorUse{
					Location: fmt.Sprintf("%s:%s", path, d.Pos),
					Property: d.FullName(),
					Hex:      color.HexString(),
				})
			}
		})
	}

	w := cmd.OutOrStdout()
	if !unique {
		for _, u := range uses {
			fmt.Fprintf(w, "%s\t%s\t%s\n", u.Location, u.Property, u.Hex)
		}
		return nil
	}

	counts := make(map[string]int)
	var hexes []string
	for _, u := range uses {
		if counts[u.Hex] == 0 {
			hexes = append(hexes, u.Hex)
		}
		counts[u.Hex]++
	}
	sort.SliceStable(hexes, func(i, j int) bool { return counts[hexes[i]] > counts[hexes[j]] })
	for _, hex := range hexes {
		fmt.Fprintf(w, "%s\t%d\n", hex, counts[hex])
	}
	return nil
}

// walkDeclarations calls fn for the property declarations of style, page
// and keyframe rules, descending into conditional group rules.
func walkDeclarations(a rules.Rules, fn func(d *properties.Declaration)) {
	each := func(decls properties.Declarations) {
		for _, d := range decls {
			fn(d)
		}
	}
	for _, r := range a {
		switch r := r.(type) {
		case *rules.StyleRule:
			each(r.Declarations)
		case *rules.PageRule:
			each(r.Declarations)
		case *rules.KeyframesRule:
			for _, k := range r.Keyframes {
				each(k.Declarations)
			}
		case *rules.MediaRule:
			walkDeclarations(r.Rules, fn)
		case *rules.SupportsRule:
			walkDeclarations(r.Rules, fn)
		case *rules.DocumentRule:
			walkDeclarations(r.Rules, fn)
		}
	}
}
