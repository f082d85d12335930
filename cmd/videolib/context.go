package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
	"github.com/gabeoland-surg/video-library-metadata/internal/config"
	"github.com/gabeoland-surg/video-library-metadata/internal/logging"
	"github.com/gabeoland-surg/video-library-metadata/internal/s3store"
	"github.com/gabeoland-surg/video-library-metadata/internal/services/explorer"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// explorerClient builds an Explorer API client from the loaded config.
// Commands that hit the API call this after RequireExplorerCredentials.
func (c *commandContext) explorerClient() (*explorer.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireExplorerCredentials(); err != nil {
		return nil, err
	}
	opts := []explorer.Option{}
	if cfg.Explorer.AuthURL != "" {
		opts = append(opts, explorer.WithAuthURL(cfg.Explorer.AuthURL))
	}
	if cfg.Explorer.APIURL != "" {
		opts = append(opts, explorer.WithExportURL(cfg.Explorer.APIURL))
	}
	if cfg.Explorer.TokenTTLMinutes > 0 {
		opts = append(opts, explorer.WithTokenTTL(time.Duration(cfg.Explorer.TokenTTLMinutes)*time.Minute))
	}
	return explorer.NewClient(cfg.Explorer.ClientID, cfg.Explorer.ClientSecret, opts...), nil
}

func (c *commandContext) openCatalog() (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Open(cfg)
}

func (c *commandContext) withCatalog(fn func(*catalog.Store) error) error {
	store, err := c.openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) s3Store(ctx context.Context) (*s3store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return s3store.New(ctx, cfg, logger)
}
