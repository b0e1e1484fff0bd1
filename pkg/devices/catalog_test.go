package devices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRefreshPopulatesByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/devices" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"items":[{"id":"d1","name":"客厅灯"},{"id":"","name":"ignored"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byID := c.ByID()
	if len(byID) != 1 {
		t.Fatalf("expected 1 device (empty id skipped), got %d", len(byID))
	}
	if byID["d1"].Name != "客厅灯" {
		t.Fatalf("got %+v", byID["d1"])
	}
}

func TestRefreshSendsAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("expected X-API-Key header, got %q", r.Header.Get("X-API-Key"))
		}
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefreshNonOKStatusReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
