package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExplorer()
	c.normalizeS3()
	c.normalizeExport()
	c.normalizeCatalog()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ManifestDir) == "" {
		c.Paths.ManifestDir = defaultManifestDir
	}
	if c.Paths.ManifestDir, err = expandPath(c.Paths.ManifestDir); err != nil {
		return fmt.Errorf("paths.manifest_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DownloadDir) != "" {
		if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
			return fmt.Errorf("paths.download_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExplorer() {
	c.Explorer.AuthURL = strings.TrimSpace(c.Explorer.AuthURL)
	c.Explorer.APIURL = strings.TrimSpace(c.Explorer.APIURL)
	c.Explorer.ClientID = strings.TrimSpace(c.Explorer.ClientID)
	c.Explorer.ClientSecret = strings.TrimSpace(c.Explorer.ClientSecret)

	applyEnvFallback(&c.Explorer.AuthURL, "AUTH_URL")
	applyEnvFallback(&c.Explorer.APIURL, "EXPLORER_API_URL")
	applyEnvFallback(&c.Explorer.ClientID, "CLIENT_ID")
	applyEnvFallback(&c.Explorer.ClientSecret, "CLIENT_SECRET")

	if c.Explorer.AuthURL == "" {
		c.Explorer.AuthURL = defaultAuthURL
	}
	if c.Explorer.APIURL == "" {
		c.Explorer.APIURL = defaultExplorerAPIURL
	}
	if c.Explorer.TokenTTLMinutes <= 0 {
		c.Explorer.TokenTTLMinutes = defaultTokenTTLMinutes
	}
}

func (c *Config) normalizeS3() {
	c.S3.Bucket = strings.TrimSpace(c.S3.Bucket)
	c.S3.Region = strings.TrimSpace(c.S3.Region)

	applyEnvFallback(&c.S3.Bucket, "S3_BUCKET_NAME")
	applyEnvFallback(&c.S3.AccessKeyID, "AWS_ACCESS_KEY_ID")
	applyEnvFallback(&c.S3.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")

	if c.S3.Bucket == "" {
		c.S3.Bucket = defaultS3Bucket
	}
	if c.S3.Region == "" {
		c.S3.Region = defaultS3Region
	}
}

func (c *Config) normalizeExport() {
	if c.Export.DaysBack <= 0 {
		c.Export.DaysBack = defaultExportDaysBack
	}
	if c.Export.MinFreeGiB < 0 {
		c.Export.MinFreeGiB = 0
	}
	trimmed := c.Export.SurgeonFilter[:0]
	for _, id := range c.Export.SurgeonFilter {
		if id = strings.TrimSpace(id); id != "" {
			trimmed = append(trimmed, id)
		}
	}
	c.Export.SurgeonFilter = trimmed
}

func (c *Config) normalizeCatalog() {
	if len(c.Catalog.VideoExtensions) == 0 {
		c.Catalog.VideoExtensions = defaultVideoExtensions()
		return
	}
	normalized := c.Catalog.VideoExtensions[:0]
	for _, ext := range c.Catalog.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Catalog.VideoExtensions = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func applyEnvFallback(field *string, key string) {
	if *field != "" {
		return
	}
	if value, ok := os.LookupEnv(key); ok {
		*field = strings.TrimSpace(value)
	}
}
