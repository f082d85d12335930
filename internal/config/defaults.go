package config

const (
	defaultDataDir     = "~/.local/share/videolib"
	defaultManifestDir = "~/.local/share/videolib/manifests"
	defaultExportDir   = "~/.local/share/videolib/exports"
	defaultLogDir      = "~/.local/share/videolib/logs"

	defaultAuthURL         = "https://api.accounts.surgicalsafety.com/oauth/v1/token"
	defaultExplorerAPIURL  = "https://api.blackbox.surgicalsafety.com/api/explorer/v2/export"
	defaultTokenTTLMinutes = 30

	defaultS3Bucket = "insights-prod-media-bucket"
	defaultS3Region = "us-east-1"

	defaultExportDaysBack = 7
	defaultMinFreeGiB     = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

func defaultVideoExtensions() []string {
	return []string{".mp4", ".mov", ".m4v", ".avi", ".mkv"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			ManifestDir: defaultManifestDir,
			ExportDir:   defaultExportDir,
			LogDir:      defaultLogDir,
		},
		Explorer: Explorer{
			AuthURL:         defaultAuthURL,
			APIURL:          defaultExplorerAPIURL,
			TokenTTLMinutes: defaultTokenTTLMinutes,
		},
		S3: S3{
			Bucket: defaultS3Bucket,
			Region: defaultS3Region,
		},
		Export: Export{
			DaysBack:    defaultExportDaysBack,
			UseCaseDate: true,
			MinFreeGiB:  defaultMinFreeGiB,
		},
		Catalog: Catalog{
			VideoExtensions: defaultVideoExtensions(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
