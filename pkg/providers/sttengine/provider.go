// Package sttengine adapts speech-to-text backends into the single-shot
// Transcribe call the session controller needs: the VadSegmenter has
// already bounded and normalized the utterance, so no streaming/session
// scaffolding is required here.
package sttengine

import "context"

// Provider transcribes one already-segmented utterance of mono float32 PCM
// (normalized to roughly [-1, 1], as emitted by pkg/vad.Segmenter) sampled
// at sampleRate.
type Provider interface {
	Transcribe(ctx context.Context, pcm []float32, sampleRate int, language string) (string, error)
}
