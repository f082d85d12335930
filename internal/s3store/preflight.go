package s3store

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CheckDownloadDir verifies the download directory exists, is writable,
// and has at least minFreeGiB of headroom before a batch starts.
func CheckDownloadDir(dir string, minFreeGiB int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure download directory: %w", err)
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return fmt.Errorf("download directory %s is not writable: %w", dir, err)
	}
	if minFreeGiB <= 0 {
		return nil
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return fmt.Errorf("statfs %s: %w", dir, err)
	}
	freeBytes := stat.Bavail * uint64(stat.Bsize)
	required := uint64(minFreeGiB) << 30
	if freeBytes < required {
		return fmt.Errorf("insufficient disk space in %s: %.1f GiB free, %d GiB required",
			dir, float64(freeBytes)/(1<<30), minFreeGiB)
	}
	return nil
}
