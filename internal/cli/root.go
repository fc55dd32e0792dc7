// Package cli implements the cssmin command line tool.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/stylekit/css/internal/config"
	"github.com/stylekit/css/internal/log"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	// Config is loaded before a subcommand runs. Flags of the subcommand
	// override its values.
	Config *config.Config
}

// NewRootCommand creates the root command for cssmin.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cssmin",
		Short: "cssmin - parse, check and minify CSS",
		Long: `Parse CSS stylesheets into their typed rule tree and write them back
in canonical minimal form.

Settings are read from cssmin.yaml in the working directory, or from the
file named by --config. Command line flags override the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./"+config.DefaultFile+")")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewMinifyCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewSelectorsCommand(opts))
	cmd.AddCommand(NewColorsCommand(opts))

	return cmd
}

func (opts *RootOptions) load(cmd *cobra.Command) error {
	log.SetOutput(cmd.ErrOrStderr())

	var c *config.Config
	var err error
	if opts.ConfigPath != "" {
		c, err = config.Load(opts.ConfigPath)
	} else {
		c, err = config.LoadDefault(".")
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if opts.LogLevel != "" {
		c.LogLevel = opts.LogLevel
		if err := c.Validate(); err != nil {
			return WrapExitError(ExitCommandError, "invalid --log-level", err)
		}
	}
	log.SetLevel(c.Level())
	opts.Config = c
	return nil
}

// settings returns the configuration of a run: the loaded file, then the
// positional patterns and the flags set on cmd.
func (opts *RootOptions) settings(cmd *cobra.Command, args []string) config.Config {
	c := *config.Default()
	if opts.Config != nil {
		c = *opts.Config
	}
	if len(args) > 0 {
		c.Inputs = args
	}

	flags := cmd.Flags()
	if flags.Changed("exclude") {
		c.Exclude, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("output") {
		c.Output, _ = flags.GetString("output")
	}
	if flags.Changed("source-urls") {
		c.SourceURLs, _ = flags.GetBool("source-urls")
	}
	if flags.Changed("allow-unitless-lengths") {
		c.AllowUnitlessLengths, _ = flags.GetBool("allow-unitless-lengths")
	}
	return c
}
