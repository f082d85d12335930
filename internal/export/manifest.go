package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
)

// ManifestOptions controls which catalog rows land in a manifest.
type ManifestOptions struct {
	// Tag restricts the manifest to videos carrying the tag. Empty means
	// every video.
	Tag string
	// IncludeSuspected keeps videos whose PHI review flagged them as
	// suspected. They are excluded by default.
	IncludeSuspected bool
}

// ManifestVideo is one catalog entry in a sharing manifest.
type ManifestVideo struct {
	Filename  string   `json:"filename"`
	Path      string   `json:"path"`
	Bytes     int64    `json:"size_bytes"`
	ModTime   float64  `json:"modified_at"`
	PHIStatus string   `json:"phi_status"`
	Tags      []string `json:"tags"`
}

// CatalogManifest is the JSON document handed to collaborators who need
// to know which local videos are shareable.
type CatalogManifest struct {
	CreatedAt           string          `json:"created_at"`
	FilterTag           string          `json:"filter_tag,omitempty"`
	ExcludeSuspectedPHI bool            `json:"exclude_suspected_phi"`
	Count               int             `json:"count"`
	Videos              []ManifestVideo `json:"videos"`
}

// BuildCatalogManifest assembles a manifest from the catalog store,
// applying the tag filter and dropping suspected-PHI videos unless the
// caller opts in.
func BuildCatalogManifest(ctx context.Context, store *catalog.Store, opts ManifestOptions) (*CatalogManifest, error) {
	videos, err := store.List(ctx, catalog.ListFilter{Tag: opts.Tag})
	if err != nil {
		return nil, fmt.Errorf("list catalog videos: %w", err)
	}

	manifest := &CatalogManifest{
		CreatedAt:           time.Now().UTC().Format(time.RFC3339),
		FilterTag:           opts.Tag,
		ExcludeSuspectedPHI: !opts.IncludeSuspected,
		Videos:              []ManifestVideo{},
	}

	for _, video := range videos {
		if !opts.IncludeSuspected && video.PHIStatus == catalog.PHISuspected {
			continue
		}
		tags, err := store.Tags(ctx, video.ID)
		if err != nil {
			return nil, fmt.Errorf("load tags for %s: %w", video.Filename, err)
		}
		manifest.Videos = append(manifest.Videos, ManifestVideo{
			Filename:  video.Filename,
			Path:      video.Path,
			Bytes:     video.Bytes,
			ModTime:   video.ModTime,
			PHIStatus: string(video.PHIStatus),
			Tags:      tags,
		})
	}
	manifest.Count = len(manifest.Videos)
	return manifest, nil
}

// WriteManifest stores the manifest under dir as
// manifest_YYYYMMDD_HHMMSS.json and returns the path.
func WriteManifest(manifest *CatalogManifest, dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("manifest_%s.json", time.Now().Format("20060102_150405")))
	if err := writeJSONFile(path, manifest); err != nil {
		return "", err
	}
	return path, nil
}

// writeJSONFile marshals v with indentation and writes it atomically.
func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure export directory: %w", err)
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	payload = append(payload, '\n')
	if err := renameio.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
