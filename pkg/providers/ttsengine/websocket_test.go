package ttsengine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

type fakePlayer struct {
	pcm        []byte
	sampleRate int
	calls      int
}

func (f *fakePlayer) Play(pcm []byte, sampleRate int) error {
	f.pcm = pcm
	f.sampleRate = sampleRate
	f.calls++
	return nil
}

func TestWebSocketSayPlaysConcatenatedChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "closing")

		var req map[string]interface{}
		if err := wsjson.Read(r.Context(), conn, &req); err != nil {
			return
		}
		if req["text"] != "你好" {
			t.Errorf("unexpected request text: %v", req["text"])
		}

		conn.Write(r.Context(), websocket.MessageBinary, []byte{1, 2, 3})
		conn.Write(r.Context(), websocket.MessageBinary, []byte{4, 5, 6})
		conn.Write(r.Context(), websocket.MessageText, []byte("EOS"))
	}))
	defer server.Close()

	player := &fakePlayer{}
	tts := NewWebSocket(strings.TrimPrefix(server.URL, "http://"), "test-key", "default", "zh", 16000, player)
	tts.scheme = "ws"

	if err := tts.Say(context.Background(), "你好"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if player.calls != 1 {
		t.Fatalf("expected 1 playback, got %d", player.calls)
	}
	if len(player.pcm) != 6 {
		t.Fatalf("expected 6 bytes of pcm, got %d", len(player.pcm))
	}
	if player.sampleRate != 16000 {
		t.Fatalf("expected sample rate 16000, got %d", player.sampleRate)
	}

	if err := tts.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestWebSocketSayEmptyTextIsNoOp(t *testing.T) {
	player := &fakePlayer{}
	tts := NewWebSocket("unused.invalid", "key", "default", "zh", 16000, player)

	if err := tts.Say(context.Background(), "   "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if player.calls != 0 {
		t.Fatalf("expected no playback for empty text, got %d", player.calls)
	}
}

func TestWebSocketSayPropagatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "closing")

		var req map[string]interface{}
		if err := wsjson.Read(r.Context(), conn, &req); err != nil {
			return
		}
		conn.Write(r.Context(), websocket.MessageText, []byte("ERR:synthesis failed"))
	}))
	defer server.Close()

	player := &fakePlayer{}
	tts := NewWebSocket(strings.TrimPrefix(server.URL, "http://"), "test-key", "default", "zh", 16000, player)
	tts.scheme = "ws"

	err := tts.Say(context.Background(), "你好")
	if err == nil {
		t.Fatal("expected an error")
	}
	if player.calls != 0 {
		t.Fatalf("expected no playback on error, got %d", player.calls)
	}
}
