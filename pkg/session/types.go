// Package session implements the top-level IDLE/LISTEN/SPEAK controller:
// the state machine that binds AudioSource, WakeGate, VadSegmenter, STT,
// TTS, the device catalog and the agent client into a single loop, exactly
// matching the voice-assistant wake/listen/speak lifecycle.
package session

import (
	"context"
	"time"

	"github.com/liangz-zzz/voice-satellite/pkg/audio"
	"github.com/liangz-zzz/voice-satellite/pkg/speech"
)

// State is one of IDLE, LISTEN or SPEAK.
type State int

const (
	StateIdle State = iota
	StateListen
	StateSpeak
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateListen:
		return "LISTEN"
	case StateSpeak:
		return "SPEAK"
	default:
		return "UNKNOWN"
	}
}

// AudioSource is the subset of audio.Source the controller drives.
type AudioSource interface {
	Start() error
	Stop()
	Read(timeout time.Duration) (audio.PcmBlock, bool)
	Clear()
}

// WakeGate is the subset of wake.Gate the controller drives.
type WakeGate interface {
	Feed(pcm []byte) (bool, error)
	Reset() error
}

// Segmenter is the subset of vad.Segmenter the controller drives.
type Segmenter interface {
	Feed(block []int16) ([]float32, error)
	SpeechStarted() bool
	Reset()
}

// STT transcribes one already-segmented utterance; satisfied by
// pkg/providers/sttengine.Provider.
type STT interface {
	Transcribe(ctx context.Context, pcm []float32, sampleRate int, language string) (string, error)
}

// TTS synthesizes and plays a spoken reply; satisfied by
// pkg/providers/ttsengine.Provider.
type TTS interface {
	Say(ctx context.Context, text string) error
}

// AgentClient forwards one turn to the upstream conversational agent;
// satisfied by pkg/agent.Client.
type AgentClient interface {
	Turn(ctx context.Context, sessionID, text string, confirm bool) (speech.AgentOutput, error)
}

// DeviceCatalog is the best-effort-refreshed device cache; satisfied by
// pkg/devices.Catalog.
type DeviceCatalog interface {
	Refresh(ctx context.Context) error
	ByID() map[string]speech.Device
}

// Beeper plays raw PCM; satisfied by audio.Player. Optional: a nil Beeper
// disables the confirmation tone.
type Beeper interface {
	Play(pcm []byte, sampleRate int) error
}

// Logger is the minimal structured-logging contract the controller needs;
// satisfied by pkg/satlog.Logger.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Config bundles the runtime-tunable parameters the controller needs from
// config.AppConfig, already resolved to concrete values (ms durations,
// normalized phrase sets are derived by New from the raw phrase lists).
type Config struct {
	// ProcessingRate/ProcessingBlock describe the geometry WakeGate/
	// Segmenter/STT expect (16kHz/512 samples).
	ProcessingRate  int
	ProcessingBlock int

	CooldownMs           int
	WakeTimeoutMs        int
	SessionIdleTimeoutMs int

	Language string

	ConfirmPhrases []string
	CancelPhrases  []string
	ExitPhrases    []string

	// MaxExtraChars bounds the short-phrase match; 0 means the default of 4.
	MaxExtraChars int

	BeepEnabled     bool
	BeepFrequencyHz int
	BeepDurationMs  int
	BeepVolume      float64
}

func (c Config) maxExtraChars() int {
	if c.MaxExtraChars > 0 {
		return c.MaxExtraChars
	}
	return 4
}
