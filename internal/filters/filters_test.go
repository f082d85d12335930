package filters_test

import (
	"testing"

	"github.com/gabeoland-surg/video-library-metadata/internal/filters"
	"github.com/gabeoland-surg/video-library-metadata/internal/grouping"
)

func sampleRecords() []grouping.VideoRecord {
	return []grouping.VideoRecord{
		{
			Filename:      "caseA_V1.mp4",
			ProcedureName: "Appendectomy",
			Room:          "OR-1",
			CaseDate:      "2025-01-05",
			UploadDate:    "2025-01-06",
			SurgeonIDs:    "EMR1",
			Users:         []string{"EMR1"},
		},
		{
			Filename:      "caseB_V1.mp4",
			ProcedureName: "Cholecystectomy",
			Room:          "OR-2",
			CaseDate:      "2025-01-10",
			UploadDate:    "2025-01-12",
			SurgeonIDs:    "EMR2, EMR3",
			Users:         []string{"EMR2", "EMR3"},
		},
		{
			Filename:      "caseC_V1.mp4",
			ProcedureName: "Appendectomy",
			Room:          "OR-1",
			CaseDate:      "N/A",
			UploadDate:    "N/A",
			SurgeonIDs:    "N/A",
		},
	}
}

func TestBySurgeon(t *testing.T) {
	records := sampleRecords()

	all := filters.BySurgeon(records, nil)
	if len(all) != len(records) {
		t.Fatalf("empty filter should keep all records, got %d", len(all))
	}

	got := filters.BySurgeon(records, []string{"EMR3"})
	if len(got) != 1 || got[0].Filename != "caseB_V1.mp4" {
		t.Fatalf("unexpected surgeon filter result: %#v", got)
	}

	none := filters.BySurgeon(records, []string{"EMR99"})
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %d", len(none))
	}
}

func TestByDateRangeCaseDate(t *testing.T) {
	records := sampleRecords()
	got := filters.ByDateRange(records, "2025-01-01", "2025-01-07", true)
	if len(got) != 1 || got[0].CaseDate != "2025-01-05" {
		t.Fatalf("unexpected case-date filter result: %#v", got)
	}
}

func TestByDateRangeUploadDate(t *testing.T) {
	records := sampleRecords()
	got := filters.ByDateRange(records, "2025-01-11", "2025-01-31", false)
	if len(got) != 1 || got[0].UploadDate != "2025-01-12" {
		t.Fatalf("unexpected upload-date filter result: %#v", got)
	}
}

func TestByDateRangeExcludesPlaceholder(t *testing.T) {
	records := sampleRecords()
	got := filters.ByDateRange(records, "2025-01-01", "2025-12-31", true)
	for _, r := range got {
		if r.CaseDate == "N/A" {
			t.Fatal("placeholder dates must not satisfy a range")
		}
	}
}

func TestSearch(t *testing.T) {
	records := sampleRecords()

	if got := filters.Search(records, ""); len(got) != len(records) {
		t.Fatalf("empty query should keep all records, got %d", len(got))
	}
	if got := filters.Search(records, "appendectomy"); len(got) != 2 {
		t.Fatalf("procedure search expected 2 records, got %d", len(got))
	}
	if got := filters.Search(records, "or-2"); len(got) != 1 {
		t.Fatalf("room search expected 1 record, got %d", len(got))
	}
	if got := filters.Search(records, "caseC"); len(got) != 1 {
		t.Fatalf("filename search expected 1 record, got %d", len(got))
	}
}
