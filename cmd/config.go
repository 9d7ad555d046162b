package cmd

import (
	"fmt"

	configadapter "github.com/bnema/odoo-worksheet-cli/internal/adapters/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect the configuration file",
	}

	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(app))

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config.toml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := path
			if target == "" {
				defaultPath, err := configadapter.DefaultPath()
				if err != nil {
					return err
				}
				target = defaultPath
			}

			if err := configadapter.WriteDefault(target, force); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
			return err
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Destination file (default: ~/.config/ow/config.toml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings with the password masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.loadSettings()
			if err != nil {
				return err
			}

			source := settings.Path
			if source == "" {
				source = "(no file, environment only)"
			}
			password := "(not set)"
			if settings.Password != "" {
				password = "********"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file: %s\n", source)
			fmt.Fprintf(out, "odoo_url: %s\n", settings.URL)
			fmt.Fprintf(out, "odoo_db: %s\n", settings.Database)
			fmt.Fprintf(out, "odoo_username: %s\n", settings.Username)
			fmt.Fprintf(out, "odoo_password: %s\n", password)
			fmt.Fprintf(out, "secret key: %s\n", settings.SecretKey())
			fmt.Fprintf(out, "template_file: %s\n", settings.TemplateFile)
			_, err = fmt.Fprintf(out, "timeout: %s\n", settings.Timeout)
			return err
		},
	}
}
