package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gabeoland-surg/video-library-metadata/internal/filters"
	"github.com/gabeoland-surg/video-library-metadata/internal/grouping"
	"github.com/gabeoland-surg/video-library-metadata/internal/services/explorer"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var (
		days     int
		start    string
		end      string
		surgeons []string
		search   string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch case metadata and show consolidated operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.explorerClient()
			if err != nil {
				return err
			}

			startDate, endDate := resolveWindow(start, end, days, cfg.Export.DaysBack)
			cases, err := client.Export(cmd.Context(), startDate, endDate)
			if err != nil {
				return err
			}

			records := explorer.FlattenCases(cases)
			records = filters.ByDateRange(records, startDate, endDate, cfg.Export.UseCaseDate)
			records = filters.BySurgeon(records, surgeons)
			records = filters.Search(records, search)

			operations, err := grouping.Group(records)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, operations)
			}

			if len(operations) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No operations between %s and %s.\n", startDate, endDate)
				return nil
			}

			rows := make([][]string, 0, len(operations))
			for _, op := range operations {
				rows = append(rows, []string{
					op.CaseDate,
					truncate(titleCase(op.ProcedureName), 40),
					op.Room,
					explorer.DisplayClock(op.StartTime),
					explorer.DisplayClock(op.EndTime),
					fmtDuration(op.DurationSeconds),
					strconv.Itoa(op.SegmentCount),
					strings.Join(op.Users, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Date", "Procedure", "Room", "Start", "End", "Duration", "Feeds", "Surgeons"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d operations from %d videos (%s to %s)\n",
				len(operations), len(records), startDate, endDate)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Number of days back to fetch (default from config)")
	cmd.Flags().StringVar(&start, "start", "", "Window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Window end date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&surgeons, "surgeon", nil, "Restrict to operations involving the surgeon id (repeatable)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive search over filename, procedure, and room")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit operations as JSON")

	return cmd
}

// resolveWindow turns flag values into an inclusive date range ending
// today unless overridden.
func resolveWindow(start, end string, days, defaultDays int) (string, string) {
	if end == "" {
		end = time.Now().UTC().Format("2006-01-02")
	}
	if start == "" {
		back := days
		if back <= 0 {
			back = defaultDays
		}
		if back <= 0 {
			back = 7
		}
		endDate, err := time.Parse("2006-01-02", end)
		if err != nil {
			endDate = time.Now().UTC()
		}
		start = endDate.AddDate(0, 0, -back).Format("2006-01-02")
	}
	return start, end
}
