package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
)

func newPHICommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phi <video-id> <unknown|suspected|cleared>",
		Short: "Record the PHI review status of a video",
		Long:  "Marks whether a cataloged video has been reviewed for protected health information. Suspected videos are excluded from sharing manifests by default.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			status, ok := catalog.ParsePHIStatus(args[1])
			if !ok {
				return fmt.Errorf("invalid phi status %q (expected unknown, suspected, or cleared)", args[1])
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				if err := store.SetPHIStatus(cmd.Context(), id, status); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Video %d marked %s\n", id, status)
				return nil
			})
		},
	}
	return cmd
}
