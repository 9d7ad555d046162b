package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	configadapter "github.com/bnema/odoo-worksheet-cli/internal/adapters/config"
	"github.com/bnema/odoo-worksheet-cli/internal/adapters/layouts/catalog"
	"github.com/bnema/odoo-worksheet-cli/internal/adapters/remote/xmlrpc"
	"github.com/bnema/odoo-worksheet-cli/internal/adapters/render/arch"
	chainstore "github.com/bnema/odoo-worksheet-cli/internal/adapters/secrets/chain"
	"github.com/bnema/odoo-worksheet-cli/internal/adapters/template/document"
	"github.com/bnema/odoo-worksheet-cli/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const passPrefix = "ow"

// session is an authenticated connection to the ERP.
type session interface {
	ports.RemoteCaller
	UID() int64
	ServerVersion(ctx context.Context) (string, error)
	Close() error
}

type dialFunc func(ctx context.Context, settings configadapter.Settings, secret string, logger *zap.Logger) (session, error)

type app struct {
	secretStore ports.SecretStore
	loader      *document.Loader
	catalog     *catalog.Catalog
	renderer    arch.Renderer
	clock       ports.Clock
	dial        dialFunc
	searchDirs  func() ([]string, error)
	spinner     bool

	configPath string
	verbose    bool
	logger     *zap.Logger
}

func wireApp() (*app, error) {
	configDir, err := configadapter.DefaultDir()
	if err != nil {
		return nil, err
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(passPrefix, filepath.Join(configDir, "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return newApp(secretStore, dialXMLRPC)
}

func newApp(secretStore ports.SecretStore, dial dialFunc) (*app, error) {
	loader, err := document.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("wire template loader: %w", err)
	}

	layouts, err := catalog.New(loader)
	if err != nil {
		return nil, fmt.Errorf("wire layout catalog: %w", err)
	}

	return &app{
		secretStore: secretStore,
		loader:      loader,
		catalog:     layouts,
		renderer:    arch.New(),
		clock:       ports.SystemClock{},
		dial:        dial,
		searchDirs:  configadapter.DefaultSearchDirs,
		spinner:     true,
		logger:      zap.NewNop(),
	}, nil
}

func dialXMLRPC(ctx context.Context, settings configadapter.Settings, secret string, logger *zap.Logger) (session, error) {
	client, err := xmlrpc.Dial(ctx, xmlrpc.Endpoint{
		URL:      settings.URL,
		Database: settings.Database,
		Login:    settings.Username,
		Secret:   secret,
		Timeout:  settings.Timeout,
	}, xmlrpc.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return client, nil
}

// newLogger writes production JSON logs to w, at debug level when verbose.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg.EncoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)

	return zap.New(core, zap.AddCaller())
}

func (a *app) loadSettings() (configadapter.Settings, error) {
	dirs, err := a.searchDirs()
	if err != nil {
		return configadapter.Settings{}, err
	}

	settings, err := configadapter.Load(viper.New(), a.configPath, dirs...)
	if err != nil {
		return configadapter.Settings{}, err
	}
	if settings.Path != "" {
		a.logger.Debug("config loaded", zap.String("path", settings.Path))
	}

	return settings, nil
}

func (a *app) connect(ctx context.Context) (session, configadapter.Settings, error) {
	settings, err := a.loadSettings()
	if err != nil {
		return nil, configadapter.Settings{}, err
	}

	sess, err := a.connectWith(ctx, settings)
	if err != nil {
		return nil, settings, err
	}

	return sess, settings, nil
}

func (a *app) connectWith(ctx context.Context, settings configadapter.Settings) (session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	secret, err := settings.ResolvePassword(ctx, a.secretStore)
	if err != nil {
		return nil, err
	}

	sess, err := a.dial(ctx, settings, secret, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", settings.URL, err)
	}

	return sess, nil
}
