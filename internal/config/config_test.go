package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gabeoland-surg/video-library-metadata/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Export.DaysBack != 7 {
		t.Fatalf("default days_back = %d, want 7", cfg.Export.DaysBack)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if len(cfg.Catalog.VideoExtensions) == 0 {
		t.Fatal("expected default video extensions")
	}
}

func TestLoadParsesAndExpands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `/data"

[explorer]
client_id = "id-1"
client_secret = " sec-1 "

[export]
days_back = 14
surgeon_filter = ["EMR1", " ", "EMR2"]

[catalog]
video_extensions = ["MP4", ".mov"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Explorer.ClientSecret != "sec-1" {
		t.Fatalf("client secret not trimmed: %q", cfg.Explorer.ClientSecret)
	}
	if cfg.Export.DaysBack != 14 {
		t.Fatalf("days_back = %d", cfg.Export.DaysBack)
	}
	if len(cfg.Export.SurgeonFilter) != 2 {
		t.Fatalf("surgeon_filter = %v", cfg.Export.SurgeonFilter)
	}
	want := []string{".mp4", ".mov"}
	for i, ext := range want {
		if cfg.Catalog.VideoExtensions[i] != ext {
			t.Fatalf("video_extensions = %v, want %v", cfg.Catalog.VideoExtensions, want)
		}
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("data_dir not absolute: %q", cfg.Paths.DataDir)
	}
}

func TestLoadEnvFallbacks(t *testing.T) {
	t.Setenv("CLIENT_ID", "env-id")
	t.Setenv("CLIENT_SECRET", "env-secret")
	t.Setenv("S3_BUCKET_NAME", "env-bucket")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Explorer.ClientID != "env-id" || cfg.Explorer.ClientSecret != "env-secret" {
		t.Fatalf("env fallback not applied: %+v", cfg.Explorer)
	}
	if cfg.S3.Bucket != "env-bucket" {
		t.Fatalf("bucket = %q", cfg.S3.Bucket)
	}
}

func TestLoadRejectsBadLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestRequireExplorerCredentials(t *testing.T) {
	cfg := config.Default()
	err := cfg.RequireExplorerCredentials()
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if !strings.Contains(err.Error(), "client_id") {
		t.Fatalf("error should name the missing field: %v", err)
	}

	cfg.Explorer.ClientID = "id"
	cfg.Explorer.ClientSecret = "secret"
	if err := cfg.RequireExplorerCredentials(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[explorer]") {
		t.Fatal("sample config missing explorer section")
	}
}
