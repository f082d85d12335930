package explorer

import (
	"net/url"
	"strings"

	"github.com/gabeoland-surg/video-library-metadata/internal/grouping"
)

// FlattenCases expands each case into one VideoRecord per media file.
// Every media file of a case shares the case-level fields; the S3 locator
// is broken into key, video id (second-to-last path segment), and
// filename. Absent scalar values become the "N/A" placeholder so they
// still participate in grouping equality.
//
// Start and end timestamps are kept as full instants when the API provides
// them; the grouper needs the date component to measure feed gaps. Display
// layers trim them to time of day with DisplayClock.
func FlattenCases(cases []Case) []grouping.VideoRecord {
	var records []grouping.VideoRecord
	for _, cs := range cases {
		procedureName := joinOrPlaceholder(cs.Procedures)
		specialties := joinOrPlaceholder(cs.Specialties)
		room := orPlaceholder(cs.Room)
		caseDate := orPlaceholder(cs.CaseDate)
		uploadDate := orPlaceholder(cs.UploadDate)
		surgeonIDs := joinOrPlaceholder(cs.Users)

		for _, media := range cs.MediaFiles {
			key, videoID, filename := parseS3Location(media.S3Location)
			records = append(records, grouping.VideoRecord{
				Filename:        filename,
				VideoID:         videoID,
				S3Key:           key,
				S3Location:      media.S3Location,
				ProcedureName:   procedureName,
				Specialties:     specialties,
				Room:            room,
				CaseDate:        caseDate,
				UploadDate:      uploadDate,
				SurgeonIDs:      surgeonIDs,
				Users:           cs.Users,
				StartTime:       orPlaceholder(media.StartTime),
				EndTime:         orPlaceholder(media.EndTime),
				DurationSeconds: cs.VideoDurationSeconds,
			})
		}
	}
	return records
}

// parseS3Location splits an S3 object URL into key, video id, and filename.
// Locators look like https://bucket.s3.amazonaws.com/exports/<video-id>/<file>.
func parseS3Location(location string) (key, videoID, filename string) {
	if strings.TrimSpace(location) == "" {
		return "", "unknown", "unknown.mp4"
	}
	parsed, err := url.Parse(location)
	if err != nil {
		return "", "unknown", "unknown.mp4"
	}
	key = strings.TrimPrefix(parsed.Path, "/")
	segments := strings.Split(key, "/")
	videoID = "unknown"
	filename = "unknown.mp4"
	if len(segments) > 1 {
		videoID = segments[len(segments)-2]
	}
	if len(segments) > 0 && segments[len(segments)-1] != "" {
		filename = segments[len(segments)-1]
	}
	return key, videoID, filename
}

// DisplayClock trims a full instant to its time-of-day component for table
// and export display. Values without a date component pass through.
func DisplayClock(timestamp string) string {
	if idx := strings.Index(timestamp, "T"); idx >= 0 {
		return timestamp[idx+1:]
	}
	return timestamp
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return grouping.Placeholder
	}
	return value
}

func joinOrPlaceholder(values []string) string {
	if len(values) == 0 {
		return grouping.Placeholder
	}
	return strings.Join(values, ", ")
}
