package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
	"github.com/gabeoland-surg/video-library-metadata/internal/export"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	var (
		tag              string
		includeSuspected bool
		preview          bool
	)

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Export a sharing manifest from the catalog",
		Long:  "Writes a JSON manifest of shareable videos. Videos whose PHI review flagged them as suspected are excluded unless --include-suspected is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				manifest, err := export.BuildCatalogManifest(cmd.Context(), store, export.ManifestOptions{
					Tag:              tag,
					IncludeSuspected: includeSuspected,
				})
				if err != nil {
					return err
				}

				if preview {
					return writeJSON(cmd, manifest)
				}

				path, err := export.WriteManifest(manifest, cfg.Paths.ManifestDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote manifest with %d videos to %s\n", manifest.Count, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only include videos carrying the tag")
	cmd.Flags().BoolVar(&includeSuspected, "include-suspected", false, "Include videos with suspected PHI")
	cmd.Flags().BoolVar(&preview, "preview", false, "Print the manifest instead of writing it")

	return cmd
}
