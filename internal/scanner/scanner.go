// Package scanner walks a directory tree and indexes video files into the
// local catalog. A lock file serializes scans so two invocations cannot
// race on the same database.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
	"github.com/gabeoland-surg/video-library-metadata/internal/config"
)

// ErrScanInProgress is returned when another scan holds the lock.
var ErrScanInProgress = errors.New("another scan is already running")

// Summary reports the outcome of one scan.
type Summary struct {
	Root    string `json:"root"`
	Indexed int    `json:"indexed"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

// Scanner indexes filesystem trees into a catalog store.
type Scanner struct {
	store      *catalog.Store
	lockPath   string
	extensions map[string]struct{}
	log        *slog.Logger
}

// New constructs a Scanner using the configured video extensions.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	extensions := make(map[string]struct{}, len(cfg.Catalog.VideoExtensions))
	for _, ext := range cfg.Catalog.VideoExtensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	return &Scanner{
		store:      store,
		lockPath:   filepath.Join(cfg.Paths.DataDir, "scan.lock"),
		extensions: extensions,
		log:        logger,
	}
}

// Scan walks root and upserts every video file found. Per-file failures
// are logged and counted; only the lock, a missing root, or context
// cancellation abort the walk.
func (s *Scanner) Scan(ctx context.Context, root string) (Summary, error) {
	summary := Summary{}

	root, err := config.ExpandPath(root)
	if err != nil {
		return summary, err
	}
	summary.Root = root

	info, err := os.Stat(root)
	if err != nil {
		return summary, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return summary, fmt.Errorf("scan root %q is not a directory", root)
	}

	lock := flock.New(s.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !locked {
		return summary, ErrScanInProgress
	}
	defer func() { _ = lock.Unlock() }()

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("walk error", "path", path, "error", err)
			summary.Failed++
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := s.extensions[ext]; !ok {
			summary.Skipped++
			return nil
		}

		fileInfo, err := entry.Info()
		if err != nil {
			s.log.Warn("stat failed", "path", path, "error", err)
			summary.Failed++
			return nil
		}
		absolute, err := filepath.Abs(path)
		if err != nil {
			s.log.Warn("resolve path failed", "path", path, "error", err)
			summary.Failed++
			return nil
		}

		_, err = s.store.Upsert(ctx, catalog.Video{
			Path:     absolute,
			Filename: entry.Name(),
			Ext:      ext,
			Bytes:    fileInfo.Size(),
			ModTime:  float64(fileInfo.ModTime().UnixNano()) / 1e9,
		})
		if err != nil {
			s.log.Warn("index failed", "path", path, "error", err)
			summary.Failed++
			return nil
		}
		summary.Indexed++
		return nil
	})
	if walkErr != nil {
		return summary, walkErr
	}

	s.log.Info("scan complete",
		"root", root,
		"indexed", summary.Indexed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
	)
	return summary, nil
}
