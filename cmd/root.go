package cmd

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	app, err := wireApp()
	if err != nil {
		rootCmd := baseRootCmd()
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd.Execute()
	}

	return executeRoot(app, buildRootCmd(app))
}

// executeRoot flushes the logger after every run, failed ones included.
func executeRoot(app *app, rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	_ = app.logger.Sync()
	return err
}

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "ow",
		Short:         "Odoo worksheet CLI (ow): sync worksheet templates over XML-RPC",
		Long:          "ow connects to an Odoo server over XML-RPC, discovers the field service models it offers and synchronizes worksheet template fields and form layouts from a JSON or YAML template document.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
}

func buildRootCmd(app *app) *cobra.Command {
	rootCmd := baseRootCmd()

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "Config file (default: ./config.{toml,json,yaml} or ~/.config/ow/config.*)")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log remote calls at debug level")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		app.logger = newLogger(cmd.ErrOrStderr(), app.verbose)
		return nil
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(app),
		newAuthCmd(app),
		newCheckCmd(app),
		newDiscoverCmd(app),
		newSyncCmd(app),
		newLayoutsCmd(app),
		newRenderCmd(app),
	)

	return rootCmd
}
