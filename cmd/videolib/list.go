package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		search  string
		tag     string
		phi     string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := catalog.ListFilter{Search: search, Tag: tag}
			if phi != "" {
				status, ok := catalog.ParsePHIStatus(phi)
				if !ok {
					return fmt.Errorf("invalid phi status %q (expected unknown, suspected, or cleared)", phi)
				}
				filter.PHIStatus = status
			}

			return ctx.withCatalog(func(store *catalog.Store) error {
				videos, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}

				if jsonOut {
					type listEntry struct {
						catalog.Video
						Tags []string `json:"tags"`
					}
					entries := make([]listEntry, 0, len(videos))
					for _, video := range videos {
						tags, err := store.Tags(cmd.Context(), video.ID)
						if err != nil {
							return err
						}
						entries = append(entries, listEntry{Video: video, Tags: tags})
					}
					return writeJSON(cmd, entries)
				}

				if len(videos) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No videos match.")
					return nil
				}

				rows := make([][]string, 0, len(videos))
				for _, video := range videos {
					tags, err := store.Tags(cmd.Context(), video.ID)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", video.ID),
						truncate(video.Filename, 48),
						fmtBytes(video.Bytes),
						string(video.PHIStatus),
						strings.Join(tags, ", "),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Filename", "Size", "PHI", "Tags"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
				))

				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d videos (%d unknown, %d suspected, %d cleared)\n",
					len(videos), stats[catalog.PHIUnknown], stats[catalog.PHISuspected], stats[catalog.PHICleared])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive filename search")
	cmd.Flags().StringVar(&tag, "tag", "", "Only videos carrying the tag")
	cmd.Flags().StringVar(&phi, "phi", "", "Only videos with the PHI status (unknown|suspected|cleared)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the listing as JSON")

	return cmd
}
