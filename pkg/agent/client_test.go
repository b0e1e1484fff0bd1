package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTurnSendsExpectedPayload(t *testing.T) {
	var gotBody turnRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/agent/turn" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"type":"answer","message":"好的"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	out, err := c.Turn(context.Background(), "sess1", "打开客厅灯", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody.Input != "打开客厅灯" || gotBody.SessionID != "sess1" || gotBody.Confirm != false {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
	if out.Type != "answer" || out.Message != "好的" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestTurnNonOKStatusReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Turn(context.Background(), "sess1", "text", false); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
