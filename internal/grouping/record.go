package grouping

// Placeholder is the literal used for absent scalar fields. Two records that
// both lack a value compare equal on it, which is intentional: two feeds
// with no recorded room still belong to the same room for grouping purposes.
const Placeholder = "N/A"

// VideoRecord describes one media file belonging to one case, as flattened
// from the Explorer export. All media files of a case share the same
// procedure, room, case date, and user list. Records are value types and
// are never mutated by this package.
type VideoRecord struct {
	Filename        string   `json:"filename"`
	VideoID         string   `json:"video_id"`
	S3Key           string   `json:"s3_key"`
	S3Location      string   `json:"s3_location"`
	ProcedureName   string   `json:"procedure_name"`
	Specialties     string   `json:"specialties"`
	Room            string   `json:"room"`
	CaseDate        string   `json:"case_date"`
	UploadDate      string   `json:"upload_date"`
	SurgeonIDs      string   `json:"surgeon_ids"`
	Users           []string `json:"users"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	DurationSeconds float64  `json:"duration_seconds"`
}

// usersEqual reports order-sensitive equality of the user lists. Two cases
// whose surgeon lists contain the same identifiers in a different order do
// not compare equal and will not merge.
func usersEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Operation is the grouper's output unit. A single-feed operation embeds
// the original record untouched with SegmentCount 1. A consolidated
// operation carries the first segment's scalar fields as representative
// values, the merged segments in sort order, and aggregate timing.
type Operation struct {
	VideoRecord

	Consolidated bool          `json:"consolidated,omitempty"`
	SegmentCount int           `json:"segment_count"`
	Segments     []VideoRecord `json:"segments,omitempty"`
	FeedLabels   []string      `json:"feed_labels,omitempty"`
	DisplayName  string        `json:"display_name,omitempty"`
}
