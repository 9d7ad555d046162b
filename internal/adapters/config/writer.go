package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	configFileMode  = 0o600
	configDirMode   = 0o700
	configFile      = "config.toml"
	tempFilePattern = ".config-*.toml.tmp"
)

type fileSchema struct {
	URL         string `toml:"odoo_url" comment:"Base URL of the Odoo server, without /xmlrpc"`
	Database    string `toml:"odoo_db"`
	Username    string `toml:"odoo_username"`
	Password    string `toml:"odoo_password" comment:"Leave empty to read the password from the secret store"`
	PasswordRef string `toml:"odoo_password_ref" comment:"Secret store key, defaults to odoo/<db>/<username>"`
	Template    string `toml:"template_file"`
	Timeout     string `toml:"timeout"`
}

func starterSchema() fileSchema {
	return fileSchema{
		URL:      "https://example.odoo.com",
		Database: "example",
		Username: "admin@example.com",
		Template: "worksheet.yaml",
		Timeout:  defaultTimeout.String(),
	}
}

// DefaultPath is DefaultDir/config.toml.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, configFile), nil
}

// WriteDefault writes a starter config file through a temp file and rename.
// An existing file is kept unless force is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		return errors.New("config path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	if !force {
		if _, err := os.Stat(absPath); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, absPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(starterSchema())
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(absPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}

	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tempName, absPath); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}

	cleanup = false

	return nil
}
