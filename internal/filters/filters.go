// Package filters narrows flattened video record lists before grouping and
// export. All filters are pure functions that return fresh slices.
package filters

import (
	"strings"

	"github.com/gabeoland-surg/video-library-metadata/internal/grouping"
)

// BySurgeon keeps records whose user list contains any of the given EMR
// identifiers. An empty filter keeps everything.
func BySurgeon(records []grouping.VideoRecord, emrIDs []string) []grouping.VideoRecord {
	if len(emrIDs) == 0 {
		return append([]grouping.VideoRecord(nil), records...)
	}
	wanted := make(map[string]struct{}, len(emrIDs))
	for _, id := range emrIDs {
		if id = strings.TrimSpace(id); id != "" {
			wanted[id] = struct{}{}
		}
	}
	var out []grouping.VideoRecord
	for _, r := range records {
		for _, user := range r.Users {
			if _, ok := wanted[user]; ok {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// ByDateRange keeps records whose case date (or upload date, when
// useCaseDate is false) falls inside the inclusive range. Dates are
// YYYY-MM-DD strings, so plain string comparison orders them; "N/A"
// placeholders fall outside every range.
func ByDateRange(records []grouping.VideoRecord, startDate, endDate string, useCaseDate bool) []grouping.VideoRecord {
	var out []grouping.VideoRecord
	for _, r := range records {
		date := r.CaseDate
		if !useCaseDate {
			date = r.UploadDate
		}
		if startDate <= date && date <= endDate {
			out = append(out, r)
		}
	}
	return out
}

// Search keeps records whose filename, procedure, room, or surgeon list
// contains the query, case-insensitively. An empty query keeps everything.
func Search(records []grouping.VideoRecord, query string) []grouping.VideoRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]grouping.VideoRecord(nil), records...)
	}
	var out []grouping.VideoRecord
	for _, r := range records {
		haystack := strings.ToLower(strings.Join([]string{
			r.Filename, r.ProcedureName, r.Room, r.SurgeonIDs,
		}, " "))
		if strings.Contains(haystack, query) {
			out = append(out, r)
		}
	}
	return out
}
