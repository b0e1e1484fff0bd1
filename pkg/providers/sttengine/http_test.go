package sttengine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFloatToInt16LESizesAndClampsOutput(t *testing.T) {
	pcm := []float32{1.0, -1.0, 0.0}
	out := floatToInt16LE(pcm)
	if len(out) != 6 {
		t.Fatalf("expected 6 bytes, got %d", len(out))
	}
	// first sample should clamp to the max positive int16
	v := int16(out[0]) | int16(out[1])<<8
	if v != 32767 {
		t.Fatalf("got %d, want 32767", v)
	}
}

func TestHTTPTranscribeSendsMultipartAndDecodesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("model") == "" {
			t.Error("expected model field")
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"text":"你好"}`))
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, "secret", "")
	text, err := h.Transcribe(context.Background(), []float32{0.1, 0.2, -0.1}, 16000, "zh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "你好" {
		t.Fatalf("got %q", text)
	}
}

func TestHTTPTranscribeNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad audio"}`))
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, "", "")
	if _, err := h.Transcribe(context.Background(), []float32{0}, 16000, ""); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
