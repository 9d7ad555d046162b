package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored Odoo password",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var secretKey string
	var secretValue string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the Odoo password in pass, or in a file when pass is unavailable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := resolveSecretKey(app, secretKey)
			if err != nil {
				return err
			}
			if secretValue == "" {
				return errors.New("secret value is empty")
			}

			if err := app.secretStore.Put(cmd.Context(), key, secretValue); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stored secret %s\n", key)
			return err
		},
	}

	cmd.Flags().StringVar(&secretKey, "key", "", "Secret-store key (default: odoo_password_ref or odoo/<db>/<username>)")
	cmd.Flags().StringVar(&secretValue, "value", "", "Secret value")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	var secretKey string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored Odoo password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := resolveSecretKey(app, secretKey)
			if err != nil {
				return err
			}

			if err := app.secretStore.Delete(cmd.Context(), key); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed secret %s\n", key)
			return err
		},
	}

	cmd.Flags().StringVar(&secretKey, "key", "", "Secret-store key (default: odoo_password_ref or odoo/<db>/<username>)")

	return cmd
}

func resolveSecretKey(app *app, flagValue string) (string, error) {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, nil
	}

	settings, err := app.loadSettings()
	if err != nil {
		return "", err
	}
	if settings.PasswordRef == "" && (settings.Database == "" || settings.Username == "") {
		return "", errors.New("no secret key: pass --key or configure odoo_db and odoo_username")
	}

	return settings.SecretKey(), nil
}
