package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore map[string]string

func (m mapStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m[key]
	if !ok {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return value, nil
}

func (m mapStore) Put(_ context.Context, key string, value string) error {
	m[key] = value
	return nil
}

func (m mapStore) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range settingKeys {
		t.Setenv("OW_"+strings.ToUpper(key), "")
	}
}

func writeFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadLegacyJSONConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "config.json", `{
  "odoo_url": "https://erp.example.com/",
  "odoo_db": "prod",
  "odoo_username": "tech@example.com",
  "odoo_password": "s3cret",
  "template_file": "worksheet.json"
}`)

	settings, err := Load(viper.New(), "", dir)
	require.NoError(t, err)

	assert.Equal(t, "https://erp.example.com", settings.URL)
	assert.Equal(t, "prod", settings.Database)
	assert.Equal(t, "tech@example.com", settings.Username)
	assert.Equal(t, "s3cret", settings.Password)
	assert.Equal(t, "worksheet.json", settings.TemplateFile)
	assert.Equal(t, 30*time.Second, settings.Timeout)
	assert.Equal(t, filepath.Join(dir, "config.json"), settings.Path)
	require.NoError(t, settings.Validate())
}

func TestLoadReadsBareTimeoutAsSeconds(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		env     string
		want    time.Duration
	}{
		{name: "json integer", file: "config.json", content: `{"timeout": 30}`, want: 30 * time.Second},
		{name: "json fraction", file: "config.json", content: `{"timeout": 1.5}`, want: 1500 * time.Millisecond},
		{name: "toml integer", file: "config.toml", content: "timeout = 45\n", want: 45 * time.Second},
		{name: "yaml duration", file: "config.yaml", content: "timeout: 2m\n", want: 2 * time.Minute},
		{name: "env integer", file: "config.toml", content: "timeout = \"5s\"\n", env: "12", want: 12 * time.Second},
		{name: "zero falls back to default", file: "config.json", content: `{"timeout": 0}`, want: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.env != "" {
				t.Setenv("OW_TIMEOUT", tt.env)
			}
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			settings, err := Load(viper.New(), "", dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, settings.Timeout)
		})
	}
}

func TestLoadRejectsMalformedTimeout(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", "timeout = \"soon\"\n")

	_, err := Load(viper.New(), "", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid timeout "soon"`)
}

func TestLoadSearchesDirsInOrder(t *testing.T) {
	clearEnv(t)
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, first, "config.yaml", "odoo_db: first\n")
	writeFile(t, second, "config.toml", "odoo_db = \"second\"\n")

	settings, err := Load(viper.New(), "", first, second)
	require.NoError(t, err)
	assert.Equal(t, "first", settings.Database)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "ow.toml", "odoo_url = \"https://file.example.com\"\nodoo_db = \"file\"\ntimeout = \"5s\"\n")

	t.Setenv("OW_ODOO_DB", "env")
	t.Setenv("OW_TIMEOUT", "2m")

	settings, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", settings.URL)
	assert.Equal(t, "env", settings.Database)
	assert.Equal(t, 2*time.Minute, settings.Timeout)
}

func TestLoadUsesConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", "odoo_username: from-env-file\n")
	t.Setenv("OW_CONFIG", path)

	settings, err := Load(viper.New(), "", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "from-env-file", settings.Username)
	assert.Equal(t, path, settings.Path)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadWithoutFileIsAllowed(t *testing.T) {
	clearEnv(t)

	settings, err := Load(nil, "", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, settings.Path)

	err = settings.Validate()
	require.ErrorIs(t, err, ErrMissingSetting)
	assert.Contains(t, err.Error(), "odoo_url, odoo_db, odoo_username")
}

func TestTemplatePath(t *testing.T) {
	t.Parallel()

	settings := Settings{TemplateFile: "from-config.yaml"}

	path, err := settings.TemplatePath(" from-flag.yaml ")
	require.NoError(t, err)
	assert.Equal(t, "from-flag.yaml", path)

	path, err = settings.TemplatePath("")
	require.NoError(t, err)
	assert.Equal(t, "from-config.yaml", path)

	_, err = Settings{}.TemplatePath("")
	require.ErrorIs(t, err, ErrMissingSetting)
}

func TestResolvePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("inline password wins", func(t *testing.T) {
		t.Parallel()
		secret, err := Settings{Password: "inline", Database: "db", Username: "u"}.ResolvePassword(ctx, mapStore{"odoo/db/u": "stored"})
		require.NoError(t, err)
		assert.Equal(t, "inline", secret)
	})

	t.Run("default key", func(t *testing.T) {
		t.Parallel()
		secret, err := Settings{Database: "db", Username: "u"}.ResolvePassword(ctx, mapStore{"odoo/db/u": "stored"})
		require.NoError(t, err)
		assert.Equal(t, "stored", secret)
	})

	t.Run("explicit ref", func(t *testing.T) {
		t.Parallel()
		settings := Settings{Database: "db", Username: "u", PasswordRef: "team/odoo"}
		assert.Equal(t, "team/odoo", settings.SecretKey())
		secret, err := settings.ResolvePassword(ctx, mapStore{"team/odoo": "shared"})
		require.NoError(t, err)
		assert.Equal(t, "shared", secret)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Parallel()
		_, err := Settings{Database: "db", Username: "u"}.ResolvePassword(ctx, mapStore{})
		require.ErrorIs(t, err, ErrMissingPassword)
		require.ErrorIs(t, err, domain.ErrSecretNotFound)
		assert.Contains(t, err.Error(), "ow auth set --key odoo/db/u")
	})

	t.Run("no store", func(t *testing.T) {
		t.Parallel()
		_, err := Settings{}.ResolvePassword(ctx, nil)
		require.ErrorIs(t, err, ErrMissingPassword)
	})
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, WriteDefault(path, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, "600", strconv.FormatUint(uint64(info.Mode().Perm()), 8))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "odoo_password_ref")
	assert.Contains(t, string(data), "# Leave empty to read the password from the secret store")

	settings, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.odoo.com", settings.URL)
	assert.Equal(t, "example", settings.Database)
	assert.Equal(t, "worksheet.yaml", settings.TemplateFile)
	assert.Equal(t, 30*time.Second, settings.Timeout)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "config.toml", "odoo_db = \"keep\"\n")

	err := WriteDefault(path, false)
	require.ErrorIs(t, err, ErrConfigExists)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "odoo_db = \"keep\"\n", string(data))

	require.NoError(t, WriteDefault(path, true))
	data, readErr = os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "example.odoo.com")
}
