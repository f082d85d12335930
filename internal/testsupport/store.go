package testsupport

import (
	"context"
	"testing"

	"github.com/gabeoland-surg/video-library-metadata/internal/catalog"
	"github.com/gabeoland-surg/video-library-metadata/internal/config"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// IndexVideo upserts a video for tests using the provided store.
func IndexVideo(t testing.TB, store *catalog.Store, v catalog.Video) int64 {
	t.Helper()

	id, err := store.Upsert(context.Background(), v)
	if err != nil {
		t.Fatalf("store.Upsert: %v", err)
	}
	return id
}
