package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilewall/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose   bool
		logFormat string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "Tilewall animates a dataset as a wall of tiles",
		Long: `Tilewall lays out one tile per dataset row and animates the tiles between
four arrangements: table, sphere, double helix and grid.

Run it interactively in the terminal (play), serve the live scene over HTTP
and websockets (serve), or record a transition to image frames (record).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := setLogFormat(c.Logger, logFormat); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", logFormatText, "log output: text, json, logfmt")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./tilewall.toml, then user config dir)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.recordCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the command line with args and returns the first error.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
