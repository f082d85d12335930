package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Credentials are not
// required here; commands that need the Explorer API or S3 fail with a
// targeted message when the relevant fields are empty.
func (c *Config) Validate() error {
	if err := c.validateExplorer(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExplorer() error {
	if !strings.HasPrefix(c.Explorer.AuthURL, "http") {
		return fmt.Errorf("explorer.auth_url %q is not an http(s) URL", c.Explorer.AuthURL)
	}
	if !strings.HasPrefix(c.Explorer.APIURL, "http") {
		return fmt.Errorf("explorer.api_url %q is not an http(s) URL", c.Explorer.APIURL)
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.DaysBack <= 0 {
		return errors.New("export.days_back must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if len(c.Catalog.VideoExtensions) == 0 {
		return errors.New("catalog.video_extensions must not be empty")
	}
	for _, ext := range c.Catalog.VideoExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("catalog.video_extensions entry %q must start with a dot", ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

// RequireExplorerCredentials returns an error naming the missing Explorer
// credential, for commands that call the vendor API.
func (c *Config) RequireExplorerCredentials() error {
	if c.Explorer.ClientID == "" || c.Explorer.ClientSecret == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/videolib/config.toml"
		}
		return fmt.Errorf("explorer credentials missing: set explorer.client_id and explorer.client_secret in %s, or CLIENT_ID/CLIENT_SECRET in the environment", defaultPath)
	}
	return nil
}
