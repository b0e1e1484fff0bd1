// Package audio implements the capture/playback backends, beep synthesis
// and WAV helpers that sit beneath the session controller.
package audio

import (
	"errors"
	"time"
)

// PcmBlock is a fixed-length vector of signed 16-bit mono samples tagged
// with the sample rate it was captured at.
type PcmBlock struct {
	Samples    []int16
	SampleRate int
}

// ErrDeviceUnavailable is returned by Start when the capture device cannot
// be opened or the capture subprocess cannot be spawned.
var ErrDeviceUnavailable = errors.New("audio: device unavailable")

// Source delivers fixed-size mono PCM blocks from a capture backend with a
// bounded-queue producer/consumer contract: the producer (callback or
// reader goroutine) never blocks, and drops the newest block on overflow.
type Source interface {
	// Start begins capture. Returns ErrDeviceUnavailable on failure.
	Start() error
	// Stop is idempotent and releases all OS resources.
	Stop()
	// Read returns the next block, or ok=false if none arrived within
	// timeout.
	Read(timeout time.Duration) (block PcmBlock, ok bool)
	// Clear drains all pending blocks without blocking.
	Clear()
}

// Player accepts raw mono 16-bit PCM at the given sample rate and plays it
// to completion (blocking). Used for both the beep and TTS output paths.
type Player interface {
	Play(pcm []byte, sampleRate int) error
}
