package grouping

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrInvalidInput marks records that are structurally malformed: required
// fields missing entirely rather than carrying the "N/A" placeholder.
var ErrInvalidInput = errors.New("invalid video record")

const (
	// mergeWindowMinutes is the largest gap between one feed ending and the
	// next starting that still counts as the same procedure. Negative gaps
	// (overlapping feeds) always count as close.
	mergeWindowMinutes = 60.0

	// displayNameLimit truncates the procedure name inside a consolidated
	// operation's display name.
	displayNameLimit = 40
)

// Group partitions records into operations. Records that share procedure,
// room, case date, and user list, and whose timestamps sit within the merge
// window of the immediately preceding record in sort order, collapse into a
// consolidated operation; everything else passes through unchanged.
//
// The comparison is against the previous record, not the group's first
// member, so a chain of pairwise-close feeds merges even when the ends of
// the chain are more than the window apart.
func Group(records []VideoRecord) ([]Operation, error) {
	if err := validate(records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Operation{}, nil
	}

	sorted := make([]VideoRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return recordLess(sorted[i], sorted[j])
	})

	operations := make([]Operation, 0, len(sorted))
	group := []VideoRecord{sorted[0]}
	for _, cur := range sorted[1:] {
		prev := group[len(group)-1]
		if extendsGroup(prev, cur) {
			group = append(group, cur)
			continue
		}
		operations = append(operations, closeGroup(group))
		group = []VideoRecord{cur}
	}
	operations = append(operations, closeGroup(group))
	return operations, nil
}

func validate(records []VideoRecord) error {
	for i, r := range records {
		switch {
		case strings.TrimSpace(r.ProcedureName) == "":
			return fmt.Errorf("%w: record %d missing procedure_name", ErrInvalidInput, i)
		case strings.TrimSpace(r.Room) == "":
			return fmt.Errorf("%w: record %d missing room", ErrInvalidInput, i)
		case strings.TrimSpace(r.CaseDate) == "":
			return fmt.Errorf("%w: record %d missing case_date", ErrInvalidInput, i)
		case r.DurationSeconds < 0:
			return fmt.Errorf("%w: record %d has negative duration", ErrInvalidInput, i)
		}
	}
	return nil
}

func recordLess(a, b VideoRecord) bool {
	if a.CaseDate != b.CaseDate {
		return a.CaseDate < b.CaseDate
	}
	if a.ProcedureName != b.ProcedureName {
		return a.ProcedureName < b.ProcedureName
	}
	if a.Room != b.Room {
		return a.Room < b.Room
	}
	return a.StartTime < b.StartTime
}

func extendsGroup(prev, cur VideoRecord) bool {
	return cur.ProcedureName == prev.ProcedureName &&
		cur.Room == prev.Room &&
		cur.CaseDate == prev.CaseDate &&
		usersEqual(cur.Users, prev.Users) &&
		timeClose(prev.EndTime, cur.StartTime)
}

// timeClose reports whether cur starts within the merge window of prev
// ending. Ambiguous timing never blocks a merge: a missing value, a
// time-of-day without a date component, or an unparseable timestamp all
// yield true.
func timeClose(prevEnd, curStart string) bool {
	prev, ok := parseInstant(prevEnd)
	if !ok {
		return true
	}
	cur, ok := parseInstant(curStart)
	if !ok {
		return true
	}
	return cur.Sub(prev).Minutes() <= mergeWindowMinutes
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseInstant(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	// A bare time of day carries no date component and cannot anchor a gap
	// computation.
	if value == "" || !strings.Contains(value, "T") {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func closeGroup(group []VideoRecord) Operation {
	if len(group) == 1 {
		return Operation{VideoRecord: group[0], SegmentCount: 1}
	}

	segments := make([]VideoRecord, len(group))
	copy(segments, group)

	labels := make([]string, len(segments))
	start := segments[0].StartTime
	end := segments[0].EndTime
	duration := segments[0].DurationSeconds
	for i, seg := range segments {
		labels[i] = feedLabel(seg.Filename)
		if seg.StartTime < start {
			start = seg.StartTime
		}
		if seg.EndTime > end {
			end = seg.EndTime
		}
		// Feeds overlap in wall-clock time, so the operation lasts as long
		// as its longest feed rather than the sum of all of them.
		if seg.DurationSeconds > duration {
			duration = seg.DurationSeconds
		}
	}

	rep := segments[0]
	rep.StartTime = start
	rep.EndTime = end
	rep.DurationSeconds = duration

	return Operation{
		VideoRecord:  rep,
		Consolidated: true,
		SegmentCount: len(segments),
		Segments:     segments,
		FeedLabels:   labels,
		DisplayName:  displayName(rep.ProcedureName, labels),
	}
}

// feedLabel derives a short camera-feed identifier from a filename. Vendor
// recordings end in a feed marker such as "V1" or "V2" just before the
// extension; anything without one labels as "?".
func feedLabel(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	if !strings.Contains(filename, "V") {
		return "?"
	}
	runes := []rune(stem)
	if len(runes) < 2 {
		return stem
	}
	return string(runes[len(runes)-2:])
}

func displayName(procedure string, labels []string) string {
	runes := []rune(procedure)
	if len(runes) > displayNameLimit {
		procedure = string(runes[:displayNameLimit]) + "…"
	}
	return fmt.Sprintf("%s [%s]", procedure, strings.Join(labels, "+"))
}
