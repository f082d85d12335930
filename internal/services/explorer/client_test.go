package explorer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gabeoland-surg/video-library-metadata/internal/services/explorer"
)

func newAuthServer(t *testing.T, token string, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.Method != http.MethodPost {
			t.Errorf("auth method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostFormValue("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostFormValue("client_id"); got != "id-1" {
			t.Errorf("client_id = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": token})
	}))
}

func TestAuthenticate(t *testing.T) {
	srv := newAuthServer(t, "tok-123", nil)
	defer srv.Close()

	client := explorer.NewClient("id-1", "sec-1", explorer.WithAuthURL(srv.URL))
	token, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("token = %q, want tok-123", token)
	}
}

func TestAuthenticateRequiresCredentials(t *testing.T) {
	client := explorer.NewClient("", "")
	if _, err := client.Authenticate(context.Background()); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestExportSendsDateRangeAndBearer(t *testing.T) {
	auth := newAuthServer(t, "tok-abc", nil)
	defer auth.Close()

	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Errorf("Authorization = %q", got)
		}
		var req struct {
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.StartDate != "2025-01-01" || req.EndDate != "2025-01-08" {
			t.Errorf("unexpected range %q..%q", req.StartDate, req.EndDate)
		}
		_ = json.NewEncoder(w).Encode([]explorer.Case{
			{
				Procedures: []string{"Appendectomy"},
				Room:       "OR-1",
				CaseDate:   "2025-01-03",
				Users:      []string{"EMR1"},
				MediaFiles: []explorer.MediaFile{
					{S3Location: "https://bucket.s3.amazonaws.com/exports/vid-1/rec_V1.mp4"},
				},
			},
		})
	}))
	defer export.Close()

	client := explorer.NewClient("id-1", "sec-1",
		explorer.WithAuthURL(auth.URL),
		explorer.WithExportURL(export.URL),
	)
	cases, err := client.Export(context.Background(), "2025-01-01", "2025-01-08")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(cases) != 1 || cases[0].Room != "OR-1" {
		t.Fatalf("unexpected cases: %#v", cases)
	}
}

func TestExportReusesCachedToken(t *testing.T) {
	var authCalls atomic.Int64
	auth := newAuthServer(t, "tok-cache", &authCalls)
	defer auth.Close()

	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]explorer.Case{})
	}))
	defer export.Close()

	client := explorer.NewClient("id-1", "sec-1",
		explorer.WithAuthURL(auth.URL),
		explorer.WithExportURL(export.URL),
	)
	for i := 0; i < 3; i++ {
		if _, err := client.Export(context.Background(), "2025-01-01", "2025-01-08"); err != nil {
			t.Fatalf("Export %d failed: %v", i, err)
		}
	}
	if got := authCalls.Load(); got != 1 {
		t.Fatalf("auth calls = %d, want 1", got)
	}
}

func TestExportRefreshesExpiredToken(t *testing.T) {
	var authCalls atomic.Int64
	auth := newAuthServer(t, "tok-fresh", &authCalls)
	defer auth.Close()

	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]explorer.Case{})
	}))
	defer export.Close()

	current := time.Now()
	client := explorer.NewClient("id-1", "sec-1",
		explorer.WithAuthURL(auth.URL),
		explorer.WithExportURL(export.URL),
		explorer.WithTokenTTL(10*time.Minute),
		explorer.WithClock(func() time.Time { return current }),
	)
	if _, err := client.Export(context.Background(), "2025-01-01", "2025-01-08"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	current = current.Add(11 * time.Minute)
	if _, err := client.Export(context.Background(), "2025-01-01", "2025-01-08"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got := authCalls.Load(); got != 2 {
		t.Fatalf("auth calls = %d, want 2", got)
	}
}

func TestExportRetriesOnUnauthorized(t *testing.T) {
	var authCalls atomic.Int64
	auth := newAuthServer(t, "tok-retry", &authCalls)
	defer auth.Close()

	var exportCalls atomic.Int64
	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if exportCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]explorer.Case{})
	}))
	defer export.Close()

	client := explorer.NewClient("id-1", "sec-1",
		explorer.WithAuthURL(auth.URL),
		explorer.WithExportURL(export.URL),
	)
	if _, err := client.Export(context.Background(), "2025-01-01", "2025-01-08"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got := exportCalls.Load(); got != 2 {
		t.Fatalf("export calls = %d, want 2", got)
	}
	if got := authCalls.Load(); got != 2 {
		t.Fatalf("auth calls = %d, want 2", got)
	}
}

func TestExportSurfacesHTTPError(t *testing.T) {
	auth := newAuthServer(t, "tok-err", nil)
	defer auth.Close()

	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer export.Close()

	client := explorer.NewClient("id-1", "sec-1",
		explorer.WithAuthURL(auth.URL),
		explorer.WithExportURL(export.URL),
	)
	if _, err := client.Export(context.Background(), "2025-01-01", "2025-01-08"); err == nil {
		t.Fatal("expected error from 500 response")
	}
}
