package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage catalog tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newTagSetCommand(ctx))
	cmd.AddCommand(newTagClearCommand(ctx))
	cmd.AddCommand(newTagListCommand(ctx))

	return cmd
}

func newTagSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <video-id> <tag>...",
		Short: "Replace a video's tags",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				if err := store.SetTags(cmd.Context(), id, args[1:]); err != nil {
					return err
				}
				tags, err := store.Tags(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Video %d tagged: %s\n", id, strings.Join(tags, ", "))
				return nil
			})
		},
	}
}

func newTagClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <video-id>",
		Short: "Remove all tags from a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				if err := store.SetTags(cmd.Context(), id, nil); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Video %d tags cleared\n", id)
				return nil
			})
		},
	}
}

func newTagListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every tag in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				tags, err := store.AllTags(cmd.Context())
				if err != nil {
					return err
				}
				if len(tags) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tags defined.")
					return nil
				}
				for _, tag := range tags {
					fmt.Fprintln(cmd.OutOrStdout(), tag)
				}
				return nil
			})
		},
	}
}

func parseVideoID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid video id %q", value)
	}
	return id, nil
}
