package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
	"github.com/gabeoland-surg/video-library-metadata/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Index local video files into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				summary, err := scanner.New(cfg, store, logger).Scan(cmd.Context(), args[0])
				if err != nil {
					if errors.Is(err, scanner.ErrScanInProgress) {
						return fmt.Errorf("scan of %s skipped: %w", args[0], err)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d videos under %s (%d skipped, %d failed)\n",
					summary.Indexed, summary.Root, summary.Skipped, summary.Failed)
				return nil
			})
		},
	}
	return cmd
}
