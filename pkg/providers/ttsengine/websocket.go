package ttsengine

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/liangz-zzz/voice-satellite/pkg/audio"
)

// WebSocket streams synthesis over a persistent websocket connection: a
// JSON synthesis request followed by a response stream of binary PCM
// chunks terminated by a text "EOS" (or "ERR:..." on failure). Host, voice
// and language are configurable fields rather than hardcoded against one
// hosted service, and the result plays through an audio.Player instead of
// being returned as raw bytes.
type WebSocket struct {
	host       string
	scheme     string
	apiKey     string
	voice      string
	lang       string
	sampleRate int
	player     audio.Player

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocket configures a streaming TTS adapter against host (no scheme,
// e.g. "api.example.com"). player receives the concatenated PCM once
// synthesis completes.
func NewWebSocket(host, apiKey, voice, lang string, sampleRate int, player audio.Player) *WebSocket {
	return &WebSocket{
		host:       host,
		scheme:     "wss",
		apiKey:     apiKey,
		voice:      voice,
		lang:       lang,
		sampleRate: sampleRate,
		player:     player,
	}
}

func (t *WebSocket) getConn(ctx context.Context) (*websocket.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		return t.conn, nil
	}
	u := url.URL{Scheme: t.scheme, Host: t.host, Path: "/ws", RawQuery: "api_key=" + t.apiKey}
	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ttsengine: connect websocket: %w", err)
	}
	t.conn = conn
	return conn, nil
}

// Say synthesizes text over the persistent connection and plays the result.
// Empty (after trimming) text is a silent no-op.
func (t *WebSocket) Say(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	conn, err := t.getConn(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	req := map[string]interface{}{
		"text":  trimmed,
		"voice": t.voice,
		"lang":  t.lang,
	}
	if err := wsjson.Write(ctx, conn, req); err != nil {
		t.conn = nil
		conn.Close(websocket.StatusAbnormalClosure, "failed to write json")
		return fmt.Errorf("ttsengine: send synthesis request: %w", err)
	}

	var pcm []byte
	for {
		messageType, payload, err := conn.Read(ctx)
		if err != nil {
			t.conn = nil
			conn.Close(websocket.StatusAbnormalClosure, "failed to read")
			return fmt.Errorf("ttsengine: read synthesis stream: %w", err)
		}
		switch messageType {
		case websocket.MessageBinary:
			pcm = append(pcm, payload...)
		case websocket.MessageText:
			msg := string(payload)
			if msg == "EOS" {
				return t.player.Play(pcm, t.sampleRate)
			}
			if strings.HasPrefix(msg, "ERR:") {
				return fmt.Errorf("ttsengine: synthesis error: %s", msg)
			}
		}
	}
}

// Close terminates the persistent connection, if open.
func (t *WebSocket) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		err := t.conn.Close(websocket.StatusNormalClosure, "")
		t.conn = nil
		return err
	}
	return nil
}
