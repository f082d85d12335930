package catalog_test

import (
	"context"
	"testing"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
	"github.com/gabeoland-surg/video-library-metadata/internal/testsupport"
)

func sampleVideo(path string) catalog.Video {
	return catalog.Video{
		Path:     path,
		Filename: "caseA_V1.mp4",
		Ext:      ".mp4",
		Bytes:    1024,
		ModTime:  1736500000,
	}
}

func TestUpsertInsertAndUpdate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	id, err := store.Upsert(ctx, sampleVideo("/library/caseA_V1.mp4"))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected assigned id")
	}

	// Same path again with new size: must update in place, not duplicate.
	updated := sampleVideo("/library/caseA_V1.mp4")
	updated.Bytes = 2048
	id2, err := store.Upsert(ctx, updated)
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if id2 != id {
		t.Fatalf("upsert created a new row: %d vs %d", id2, id)
	}

	fetched, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.Bytes != 2048 {
		t.Fatalf("unexpected video: %#v", fetched)
	}
	if fetched.PHIStatus != catalog.PHIUnknown {
		t.Fatalf("new video should default to unknown, got %s", fetched.PHIStatus)
	}
}

func TestUpsertPreservesPHIStatusAndTags(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	id := testsupport.IndexVideo(t, store, sampleVideo("/library/a.mp4"))
	if err := store.SetPHIStatus(ctx, id, catalog.PHICleared); err != nil {
		t.Fatalf("SetPHIStatus failed: %v", err)
	}
	if err := store.SetTags(ctx, id, []string{"training"}); err != nil {
		t.Fatalf("SetTags failed: %v", err)
	}

	testsupport.IndexVideo(t, store, sampleVideo("/library/a.mp4"))

	video, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if video.PHIStatus != catalog.PHICleared {
		t.Fatalf("re-index reset phi status: %s", video.PHIStatus)
	}
	tags, err := store.Tags(ctx, id)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if len(tags) != 1 || tags[0] != "training" {
		t.Fatalf("re-index lost tags: %v", tags)
	}
}

func TestListFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	a := catalog.Video{Path: "/library/lap_chole_V1.mp4", Filename: "lap_chole_V1.mp4", ModTime: 100}
	b := catalog.Video{Path: "/library/appendectomy_V1.mp4", Filename: "appendectomy_V1.mp4", ModTime: 200}
	idA := testsupport.IndexVideo(t, store, a)
	idB := testsupport.IndexVideo(t, store, b)

	if err := store.SetTags(ctx, idA, []string{"teaching", "robotic"}); err != nil {
		t.Fatalf("SetTags failed: %v", err)
	}
	if err := store.SetPHIStatus(ctx, idB, catalog.PHISuspected); err != nil {
		t.Fatalf("SetPHIStatus failed: %v", err)
	}

	all, err := store.List(ctx, catalog.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(all))
	}
	if all[0].ID != idB {
		t.Fatal("expected newest-first ordering")
	}

	bySearch, err := store.List(ctx, catalog.ListFilter{Search: "chole"})
	if err != nil {
		t.Fatalf("List by search failed: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].ID != idA {
		t.Fatalf("unexpected search result: %#v", bySearch)
	}

	byTag, err := store.List(ctx, catalog.ListFilter{Tag: "robotic"})
	if err != nil {
		t.Fatalf("List by tag failed: %v", err)
	}
	if len(byTag) != 1 || byTag[0].ID != idA {
		t.Fatalf("unexpected tag result: %#v", byTag)
	}

	byStatus, err := store.List(ctx, catalog.ListFilter{PHIStatus: catalog.PHISuspected})
	if err != nil {
		t.Fatalf("List by status failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != idB {
		t.Fatalf("unexpected status result: %#v", byStatus)
	}
}

func TestSetTagsReplacesAndDeduplicates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	id := testsupport.IndexVideo(t, store, sampleVideo("/library/a.mp4"))
	if err := store.SetTags(ctx, id, []string{"one", "two"}); err != nil {
		t.Fatalf("SetTags failed: %v", err)
	}
	if err := store.SetTags(ctx, id, []string{"two", "two ", " three", ""}); err != nil {
		t.Fatalf("SetTags failed: %v", err)
	}

	tags, err := store.Tags(ctx, id)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	want := []string{"three", "two"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", tags, want)
		}
	}

	all, err := store.AllTags(ctx)
	if err != nil {
		t.Fatalf("AllTags failed: %v", err)
	}
	// "one" stays in the tag table even though no video carries it.
	if len(all) != 3 {
		t.Fatalf("all tags = %v", all)
	}
}

func TestSetPHIStatusUnknownVideo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	if err := store.SetPHIStatus(context.Background(), 999, catalog.PHICleared); err == nil {
		t.Fatal("expected error for missing video")
	}
}

func TestStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	idA := testsupport.IndexVideo(t, store, sampleVideo("/library/a.mp4"))
	testsupport.IndexVideo(t, store, sampleVideo("/library/b.mp4"))
	if err := store.SetPHIStatus(ctx, idA, catalog.PHISuspected); err != nil {
		t.Fatalf("SetPHIStatus failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[catalog.PHISuspected] != 1 || stats[catalog.PHIUnknown] != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}
}

func TestParsePHIStatus(t *testing.T) {
	if status, ok := catalog.ParsePHIStatus(" Cleared "); !ok || status != catalog.PHICleared {
		t.Fatalf("ParsePHIStatus = %q, %v", status, ok)
	}
	if _, ok := catalog.ParsePHIStatus("redacted"); ok {
		t.Fatal("expected rejection of unknown status")
	}
}
