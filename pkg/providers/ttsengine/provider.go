// Package ttsengine synthesizes speech for the session controller's spoken
// replies. Piper is the primary, fully offline backend; a websocket
// streaming backend is kept for hosted voice services.
package ttsengine

import "context"

// Provider synthesizes text and plays it through the given audio.Player
// (or an equivalent sink), blocking until playback completes.
type Provider interface {
	Say(ctx context.Context, text string) error
}
