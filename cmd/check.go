package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCheckCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Authenticate against the configured server and print its version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, settings, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSession(app, sess)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "connected to %s (database %s)\n", settings.URL, settings.Database)
			fmt.Fprintf(out, "user: %s (uid %d)\n", settings.Username, sess.UID())

			serverVersion, err := sess.ServerVersion(cmd.Context())
			if err != nil {
				app.logger.Warn("server version unavailable", zap.Error(err))
				serverVersion = "unknown"
			}
			_, err = fmt.Fprintf(out, "server version: %s\n", serverVersion)
			return err
		},
	}
}

func closeSession(app *app, sess session) {
	if err := sess.Close(); err != nil {
		app.logger.Debug("close session", zap.Error(err))
	}
}
