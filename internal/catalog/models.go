package catalog

import "strings"

// PHIStatus tracks the Protected Health Information review state of a video.
type PHIStatus string

const (
	PHIUnknown   PHIStatus = "unknown"
	PHISuspected PHIStatus = "suspected"
	PHICleared   PHIStatus = "cleared"
)

var allPHIStatuses = []PHIStatus{PHIUnknown, PHISuspected, PHICleared}

// ParsePHIStatus validates a user-supplied status string.
func ParsePHIStatus(value string) (PHIStatus, bool) {
	status := PHIStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range allPHIStatuses {
		if status == known {
			return status, true
		}
	}
	return "", false
}

// PHIStatuses returns the accepted status values in display order.
func PHIStatuses() []PHIStatus {
	return append([]PHIStatus(nil), allPHIStatuses...)
}

// Video is one indexed file in the local library.
type Video struct {
	ID        int64     `json:"video_id"`
	Path      string    `json:"path"`
	Filename  string    `json:"filename"`
	Ext       string    `json:"ext"`
	Bytes     int64     `json:"bytes"`
	ModTime   float64   `json:"mtime"`
	PHIStatus PHIStatus `json:"phi_status"`
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	// Search matches filename or path, case-insensitively.
	Search string
	// Tag keeps only videos carrying the named tag.
	Tag string
	// PHIStatus keeps only videos in the given review state.
	PHIStatus PHIStatus
}
