package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabeoland-surg/video-library-metadata/internal/weekly"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		days       int
		start      string
		end        string
		surgeons   []string
		uploadDate bool
		download   bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run the weekly metadata export workflow",
		Long:  "Pulls the configured window of cases, writes the flattened metadata and consolidated operation exports, and optionally downloads the footage from S3.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, err := ctx.explorerClient()
			if err != nil {
				return err
			}

			var downloader weekly.Downloader
			if download {
				store, err := ctx.s3Store(cmd.Context())
				if err != nil {
					return err
				}
				downloader = store
			}

			if days > 0 {
				cfg.Export.DaysBack = days
			}
			if len(surgeons) == 0 {
				surgeons = cfg.Export.SurgeonFilter
			}

			runner := weekly.NewRunner(cfg, client, downloader, logger)
			summary, err := runner.Run(cmd.Context(), weekly.Options{
				Start:         start,
				End:           end,
				Surgeons:      surgeons,
				UseUploadDate: uploadDate,
				Download:      download,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, summary)
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Number of days back to export (default from config)")
	cmd.Flags().StringVar(&start, "start", "", "Window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Window end date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&surgeons, "surgeon", nil, "Restrict to records involving the surgeon id (repeatable)")
	cmd.Flags().BoolVar(&uploadDate, "upload-date", false, "Filter on upload date instead of case date")
	cmd.Flags().BoolVar(&download, "download", false, "Download the filtered footage from S3")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run summary as JSON")

	return cmd
}

func printSummary(cmd *cobra.Command, summary weekly.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Export window: %s to %s\n", summary.DateRange.Start, summary.DateRange.End)
	fmt.Fprintf(out, "Videos: %d fetched, %d after filters, %d operations\n",
		summary.TotalVideos, summary.FilteredVideos, summary.Operations)
	fmt.Fprintf(out, "Metadata export: %s\n", summary.MetadataPath)
	fmt.Fprintf(out, "Operations export: %s\n", summary.OperationsPath)
	if summary.Downloaded > 0 || summary.Failed > 0 {
		fmt.Fprintf(out, "Downloads: %d ok, %d failed\n", summary.Downloaded, summary.Failed)
	}
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var (
		days     int
		start    string
		end      string
		surgeons []string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download footage for a date window from S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, err := ctx.explorerClient()
			if err != nil {
				return err
			}
			store, err := ctx.s3Store(cmd.Context())
			if err != nil {
				return err
			}

			if days > 0 {
				cfg.Export.DaysBack = days
			}

			runner := weekly.NewRunner(cfg, client, store, logger)
			summary, err := runner.Run(cmd.Context(), weekly.Options{
				Start:    start,
				End:      end,
				Surgeons: surgeons,
				Download: true,
			})
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Number of days back to download (default from config)")
	cmd.Flags().StringVar(&start, "start", "", "Window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Window end date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&surgeons, "surgeon", nil, "Restrict to records involving the surgeon id (repeatable)")

	return cmd
}
