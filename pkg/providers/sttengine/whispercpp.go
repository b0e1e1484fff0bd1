// This file implements the Provider backed by the whisper.cpp CGO bindings.
// The whisper.cpp static library and headers must be available at link time
// via LIBRARY_PATH and C_INCLUDE_PATH, matching how glyphoxa's native whisper
// provider is built.
package sttengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// WhisperCpp wraps a shared whisper.cpp model. Each Transcribe call creates
// a fresh context: contexts are not thread-safe, but the underlying model is
// shareable across concurrent calls.
type WhisperCpp struct {
	model whisperlib.Model
	mu    sync.Mutex
}

// NewWhisperCpp loads the GGML model at modelPath once; the returned
// provider can be reused for every utterance for the life of the process.
func NewWhisperCpp(modelPath string) (*WhisperCpp, error) {
	if modelPath == "" {
		return nil, errors.New("sttengine: model path must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("sttengine: load model %q: %w", modelPath, err)
	}
	return &WhisperCpp{model: model}, nil
}

// Close releases the whisper model.
func (w *WhisperCpp) Close() error {
	if w.model != nil {
		return w.model.Close()
	}
	return nil
}

// Transcribe runs a one-shot inference over the already-segmented utterance.
func (w *WhisperCpp) Transcribe(ctx context.Context, pcm []float32, sampleRate int, language string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("sttengine: context already cancelled: %w", err)
	}

	// whisper.cpp contexts are not safe for concurrent Process calls against
	// the same model handle's bookkeeping; serialize inference.
	w.mu.Lock()
	defer w.mu.Unlock()

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("sttengine: create context: %w", err)
	}
	if language != "" {
		if err := wctx.SetLanguage(language); err != nil {
			return "", fmt.Errorf("sttengine: set language %q: %w", language, err)
		}
	}

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", fmt.Errorf("sttengine: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("sttengine: read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
