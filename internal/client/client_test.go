package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetSnapshot(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"battery_percent":"76%","power_status":"Plugged In"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	snapshot, err := c.GetSnapshot(true)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if gotPath != "/v1/battery" {
		t.Fatalf("path = %q, want /v1/battery", gotPath)
	}
	if gotQuery != "" {
		t.Fatalf("query = %q, want empty", gotQuery)
	}
	if snapshot["battery_percent"] != "76%" {
		t.Fatalf("percent = %q, want 76%%", snapshot["battery_percent"])
	}

	if _, err := c.GetSnapshot(false); err != nil {
		t.Fatalf("GetSnapshot(no cache): %v", err)
	}
	if gotQuery != "cache=false" {
		t.Fatalf("query = %q, want cache=false", gotQuery)
	}
}

func TestGetSnapshotServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).GetSnapshot(true); err == nil {
		t.Fatal("expected an error on HTTP 500")
	}
}

func TestGetSnapshotUnreachable(t *testing.T) {
	// A closed server port.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).GetSnapshot(true)
	if !errors.Is(err, ErrServerUnreachable) {
		t.Fatalf("err = %v, want ErrServerUnreachable", err)
	}
}
