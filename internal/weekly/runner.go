// Package weekly drives the end-to-end batch that used to be run by
// hand each week: pull the last window of cases from the Explorer API,
// flatten them to per-video records, filter, consolidate into
// operations, write the JSON artifacts, and optionally download the
// footage.
package weekly

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gabeoland-surg/video-library-metadata/internal/config"
	"github.com/gabeoland-surg/video-library-metadata/internal/export"
	"github.com/gabeoland-surg/video-library-metadata/internal/filters"
	"github.com/gabeoland-surg/video-library-metadata/internal/grouping"
	"github.com/gabeoland-surg/video-library-metadata/internal/s3store"
	"github.com/gabeoland-surg/video-library-metadata/internal/services/explorer"
)

// CaseExporter pulls raw cases for an inclusive date range.
type CaseExporter interface {
	Export(ctx context.Context, startDate, endDate string) ([]explorer.Case, error)
}

// Downloader fetches video objects for a batch of records.
type Downloader interface {
	DownloadAll(ctx context.Context, records []grouping.VideoRecord, destDir string) (s3store.BatchResult, error)
}

// Options adjusts one run. Zero values fall back to configuration.
type Options struct {
	// Start and End bound the export window as YYYY-MM-DD dates. When
	// empty the window ends today and spans the configured days_back.
	Start string
	End   string
	// Surgeons restricts the run to records involving any listed user.
	Surgeons []string
	// UseUploadDate filters on upload date instead of case date.
	UseUploadDate bool
	// Download pulls the filtered footage from S3 after the exports are
	// written.
	Download bool
}

// Summary reports what one run produced.
type Summary struct {
	DateRange      export.DateRange `json:"date_range"`
	TotalVideos    int              `json:"total_videos"`
	FilteredVideos int              `json:"filtered_videos"`
	Operations     int              `json:"operations"`
	MetadataPath   string           `json:"metadata_path"`
	OperationsPath string           `json:"operations_path"`
	Downloaded     int              `json:"downloaded"`
	Failed         int              `json:"failed"`
}

// Runner wires the weekly batch together.
type Runner struct {
	cfg        *config.Config
	exporter   CaseExporter
	downloader Downloader
	log        *slog.Logger
	now        func() time.Time
}

// NewRunner constructs a Runner. The downloader may be nil when runs
// never request downloads.
func NewRunner(cfg *config.Config, exporter CaseExporter, downloader Downloader, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:        cfg,
		exporter:   exporter,
		downloader: downloader,
		log:        logger,
		now:        time.Now,
	}
}

// Run executes the batch and returns its summary. Artifacts written
// before a failure stay on disk.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	summary := Summary{}

	start, end := r.dateWindow(opts)
	summary.DateRange = export.DateRange{Start: start, End: end}
	r.log.Info("starting weekly run", "start", start, "end", end, "surgeons", len(opts.Surgeons))

	cases, err := r.exporter.Export(ctx, start, end)
	if err != nil {
		return summary, fmt.Errorf("export cases: %w", err)
	}

	records := explorer.FlattenCases(cases)
	summary.TotalVideos = len(records)

	useCaseDate := r.cfg.Export.UseCaseDate && !opts.UseUploadDate
	records = filters.ByDateRange(records, start, end, useCaseDate)
	records = filters.BySurgeon(records, opts.Surgeons)
	summary.FilteredVideos = len(records)
	r.log.Info("filtered records", "total", summary.TotalVideos, "kept", summary.FilteredVideos)

	metadata := export.NewMetadataExport(records, summary.DateRange, opts.Surgeons, useCaseDate)
	metadataPath, err := export.WriteMetadata(metadata, r.cfg.Paths.ExportDir)
	if err != nil {
		return summary, fmt.Errorf("write metadata export: %w", err)
	}
	summary.MetadataPath = metadataPath

	operations, err := grouping.Group(records)
	if err != nil {
		return summary, fmt.Errorf("consolidate operations: %w", err)
	}
	summary.Operations = len(operations)

	operationsPath, err := export.WriteOperations(export.NewOperationsExport(operations, len(records)), r.cfg.Paths.ExportDir)
	if err != nil {
		return summary, fmt.Errorf("write operations export: %w", err)
	}
	summary.OperationsPath = operationsPath

	if opts.Download {
		if r.downloader == nil {
			return summary, fmt.Errorf("downloads requested but no downloader is configured")
		}
		if err := s3store.CheckDownloadDir(r.cfg.Paths.DownloadDir, r.cfg.Export.MinFreeGiB); err != nil {
			return summary, err
		}
		result, err := r.downloader.DownloadAll(ctx, records, r.cfg.Paths.DownloadDir)
		if err != nil {
			return summary, fmt.Errorf("download batch: %w", err)
		}
		summary.Downloaded = len(result.Downloaded)
		summary.Failed = len(result.Failed)
	}

	r.log.Info("weekly run complete",
		"videos", summary.FilteredVideos,
		"operations", summary.Operations,
		"downloaded", summary.Downloaded,
		"failed", summary.Failed,
	)
	return summary, nil
}

// dateWindow resolves the run's inclusive date range.
func (r *Runner) dateWindow(opts Options) (string, string) {
	start, end := opts.Start, opts.End
	if end == "" {
		end = r.now().UTC().Format("2006-01-02")
	}
	if start == "" {
		daysBack := r.cfg.Export.DaysBack
		if daysBack <= 0 {
			daysBack = 7
		}
		endDate, err := time.Parse("2006-01-02", end)
		if err != nil {
			endDate = r.now().UTC()
		}
		start = endDate.AddDate(0, 0, -daysBack).Format("2006-01-02")
	}
	return start, end
}
