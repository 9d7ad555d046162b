package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/bnema/odoo-worksheet-cli/internal/ports"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	envPrefix  = "OW"
	appDir     = "ow"

	keyConfig      = "config"
	keyURL         = "odoo_url"
	keyDatabase    = "odoo_db"
	keyUsername    = "odoo_username"
	keyPassword    = "odoo_password"
	keyPasswordRef = "odoo_password_ref"
	keyTemplate    = "template_file"
	keyTimeout     = "timeout"

	defaultTimeout = 30 * time.Second
)

var (
	ErrMissingSetting  = errors.New("missing required setting")
	ErrMissingPassword = errors.New("no password configured")
	ErrConfigExists    = errors.New("config file already exists")
)

var settingKeys = []string{
	keyConfig,
	keyURL,
	keyDatabase,
	keyUsername,
	keyPassword,
	keyPasswordRef,
	keyTemplate,
	keyTimeout,
}

// Settings is the process configuration after file, default and
// environment sources are merged.
type Settings struct {
	URL          string
	Database     string
	Username     string
	Password     string
	PasswordRef  string
	TemplateFile string
	Timeout      time.Duration
	// Path is the config file that was read, empty when none was found.
	Path string
}

// DefaultDir is $HOME/.config/ow.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", appDir), nil
}

// DefaultSearchDirs lists the working directory then DefaultDir.
func DefaultSearchDirs() ([]string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}

	return []string{".", dir}, nil
}

// Load reads settings. An explicit path, or OW_CONFIG, must exist; otherwise
// config.{toml,json,yaml} is searched in searchDirs and may be absent.
func Load(cfg *viper.Viper, explicitPath string, searchDirs ...string) (Settings, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetEnvPrefix(envPrefix)
	for _, key := range settingKeys {
		if err := cfg.BindEnv(key); err != nil {
			return Settings{}, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	cfg.SetDefault(keyTimeout, defaultTimeout.String())

	path := strings.TrimSpace(explicitPath)
	if path == "" {
		path = strings.TrimSpace(cfg.GetString(keyConfig))
	}

	if path != "" {
		cfg.SetConfigFile(path)
		if err := cfg.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else {
		cfg.SetConfigName(configName)
		for _, dir := range searchDirs {
			cfg.AddConfigPath(dir)
		}
		if err := cfg.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	timeout, err := parseTimeout(cfg.Get(keyTimeout))
	if err != nil {
		return Settings{}, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return Settings{
		URL:          strings.TrimRight(strings.TrimSpace(cfg.GetString(keyURL)), "/"),
		Database:     strings.TrimSpace(cfg.GetString(keyDatabase)),
		Username:     strings.TrimSpace(cfg.GetString(keyUsername)),
		Password:     cfg.GetString(keyPassword),
		PasswordRef:  strings.TrimSpace(cfg.GetString(keyPasswordRef)),
		TemplateFile: strings.TrimSpace(cfg.GetString(keyTemplate)),
		Timeout:      timeout,
		Path:         cfg.ConfigFileUsed(),
	}, nil
}

// parseTimeout accepts a duration string ("45s", "2m") or a bare number of
// seconds, which is how older config.json files spell it.
func parseTimeout(raw any) (time.Duration, error) {
	if text, ok := raw.(string); ok {
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, nil
		}
		if seconds, err := strconv.ParseFloat(text, 64); err == nil {
			return time.Duration(seconds * float64(time.Second)), nil
		}
		timeout, err := time.ParseDuration(text)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", keyTimeout, text, err)
		}
		return timeout, nil
	}

	seconds, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %v: %w", keyTimeout, raw, err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// Validate checks the connection settings every remote command needs.
func (s Settings) Validate() error {
	var missing []string
	if s.URL == "" {
		missing = append(missing, keyURL)
	}
	if s.Database == "" {
		missing = append(missing, keyDatabase)
	}
	if s.Username == "" {
		missing = append(missing, keyUsername)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}

	return nil
}

// TemplatePath prefers the flag value over the configured template_file.
func (s Settings) TemplatePath(flagValue string) (string, error) {
	if path := strings.TrimSpace(flagValue); path != "" {
		return path, nil
	}
	if s.TemplateFile != "" {
		return s.TemplateFile, nil
	}

	return "", fmt.Errorf("%w: %s (or --template)", ErrMissingSetting, keyTemplate)
}

// SecretKey is odoo_password_ref, or odoo/<db>/<username> when unset.
func (s Settings) SecretKey() string {
	if s.PasswordRef != "" {
		return s.PasswordRef
	}

	return DefaultSecretKey(s.Database, s.Username)
}

func DefaultSecretKey(database string, username string) string {
	return fmt.Sprintf("odoo/%s/%s", database, username)
}

// ResolvePassword returns the inline password or looks up SecretKey.
func (s Settings) ResolvePassword(ctx context.Context, store ports.SecretStore) (string, error) {
	if s.Password != "" {
		return s.Password, nil
	}
	if store == nil {
		return "", ErrMissingPassword
	}

	key := s.SecretKey()
	secret, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", fmt.Errorf("%w: set %s or run `ow auth set --key %s`: %w", ErrMissingPassword, keyPassword, key, err)
		}
		return "", fmt.Errorf("read secret %q: %w", key, err)
	}
	if secret == "" {
		return "", fmt.Errorf("%w: secret %q is empty", ErrMissingPassword, key)
	}

	return secret, nil
}
