package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/liangz-zzz/voice-satellite/pkg/audio"
	"github.com/liangz-zzz/voice-satellite/pkg/resample"
	"github.com/liangz-zzz/voice-satellite/pkg/speech"
)

// Controller is the top-level IDLE/LISTEN/SPEAK state machine.
// It owns all session state (state, session id, timestamps,
// awaiting-first-utterance flag); the AudioSource it reads from owns only
// its own capture queue.
type Controller struct {
	audio    AudioSource
	wake     WakeGate
	seg      Segmenter
	stt      STT
	tts      TTS
	agent    AgentClient
	catalog  DeviceCatalog
	beep     Beeper
	log      Logger
	cfg      Config
	now      func() time.Time
	beepPCM  []byte

	confirmSet map[string]struct{}
	cancelSet  map[string]struct{}
	exitSet    map[string]struct{}

	state                  State
	sessionID              string
	wakeStartedAt          time.Time
	lastTurnAt             time.Time
	ignoreUntil            time.Time
	awaitingFirstUtterance bool
}

// Option configures a Controller beyond its required collaborators.
type Option func(*Controller)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock overrides the clock Run reads each iteration's time from. Step
// takes its time as an argument and does not consult this clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithBeeper supplies the player used for the wake confirmation tone; a nil
// or unset Beeper simply skips the tone.
func WithBeeper(b Beeper) Option {
	return func(c *Controller) { c.beep = b }
}

// New builds a Controller. audioSrc, wake, seg, stt, tts, agent and catalog
// must all be non-nil.
func New(audioSrc AudioSource, wake WakeGate, seg Segmenter, stt STT, tts TTS, agentClient AgentClient, catalog DeviceCatalog, cfg Config, opts ...Option) (*Controller, error) {
	if audioSrc == nil || wake == nil || seg == nil || stt == nil || tts == nil || agentClient == nil || catalog == nil {
		return nil, ErrNilDependency
	}
	c := &Controller{
		audio:      audioSrc,
		wake:       wake,
		seg:        seg,
		stt:        stt,
		tts:        tts,
		agent:      agentClient,
		catalog:    catalog,
		log:        noopLogger{},
		cfg:        cfg,
		now:        time.Now,
		confirmSet: normalizePhraseSet(cfg.ConfirmPhrases),
		cancelSet:  normalizePhraseSet(cfg.CancelPhrases),
		exitSet:    normalizePhraseSet(cfg.ExitPhrases),
		state:      StateIdle,
	}
	if cfg.BeepEnabled {
		c.beepPCM = audio.GenerateBeepPCM(cfg.ProcessingRate, cfg.BeepFrequencyHz, cfg.BeepDurationMs, cfg.BeepVolume)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State reports the controller's current state, for tests/observability.
func (c *Controller) State() State { return c.state }

// SessionID reports the current session id, empty when IDLE.
func (c *Controller) SessionID() string { return c.sessionID }

// Run drives the main loop until ctx is cancelled, reading blocks from the
// AudioSource with a 1s timeout. It starts the
// AudioSource and guarantees Stop() runs on the way out.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.audio.Start(); err != nil {
		return err
	}
	defer c.audio.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		block, ok := c.audio.Read(time.Second)
		// Step only ever returns non-fatal errors (e.g. *TransientAgentError);
		// only startup config/device errors are fatal, so the
		// loop logs and keeps listening rather than exiting.
		if err := c.Step(ctx, c.now(), block, ok); err != nil {
			c.log.Warn("session.step_error", "error", err.Error())
		}
	}
}

// Step processes one read result (ok=false means the 1s read timed out).
// It is the unit the controller's behavior is tested against: Run is a
// thin loop around it with a real clock and a real AudioSource.
func (c *Controller) Step(ctx context.Context, now time.Time, block audio.PcmBlock, ok bool) error {
	if !ok {
		if c.state == StateListen && !c.lastTurnAt.IsZero() && now.Sub(c.lastTurnAt) > durationMs(c.cfg.SessionIdleTimeoutMs) {
			c.log.Info("session.timeout", "session_id", c.sessionID)
			c.toIdle()
		}
		return nil
	}

	samples := c.resampleToProcessing(block)

	if now.Before(c.ignoreUntil) {
		return nil
	}

	switch c.state {
	case StateIdle:
		return c.handleIdle(ctx, samples, now)
	case StateListen:
		return c.handleListen(ctx, samples, now)
	case StateSpeak:
		// Transient: no blocks are processed while SPEAK is active (§4.5).
		return nil
	}
	return nil
}

func (c *Controller) handleIdle(ctx context.Context, block []int16, now time.Time) error {
	matched, err := c.wake.Feed(int16ToBytes(block))
	if err != nil {
		c.log.Error("wake.feed_failed", "error", err.Error())
		return nil
	}
	if !matched {
		return nil
	}

	c.sessionID = "voice-" + uuid.New().String()[:8]
	c.wakeStartedAt = now
	c.lastTurnAt = now
	c.ignoreUntil = now.Add(durationMs(c.cfg.CooldownMs))
	c.awaitingFirstUtterance = true
	c.seg.Reset()

	if err := c.catalog.Refresh(ctx); err != nil {
		c.log.Warn("devices.refresh_failed", "error", err.Error())
	}

	if c.beep != nil && len(c.beepPCM) > 0 {
		if err := c.beep.Play(c.beepPCM, c.cfg.ProcessingRate); err != nil {
			c.log.Warn("beep.failed", "error", err.Error())
		}
	}

	c.log.Info("wake.detected", "session_id", c.sessionID)
	c.state = StateListen
	return nil
}

func (c *Controller) handleListen(ctx context.Context, block []int16, now time.Time) error {
	if c.awaitingFirstUtterance && !c.seg.SpeechStarted() && !c.wakeStartedAt.IsZero() &&
		now.Sub(c.wakeStartedAt) > durationMs(c.cfg.WakeTimeoutMs) {
		c.log.Info("wake.timeout", "session_id", c.sessionID)
		c.toIdle()
		return nil
	}

	emitted, err := c.seg.Feed(block)
	if err != nil {
		c.log.Error("vad.feed_failed", "error", err.Error())
		return nil
	}
	if c.awaitingFirstUtterance && c.seg.SpeechStarted() {
		c.awaitingFirstUtterance = false
	}
	if emitted == nil {
		return nil
	}

	c.audio.Clear()
	c.state = StateSpeak
	defer func() {
		if c.state == StateSpeak {
			c.state = StateListen
		}
	}()

	text, err := c.stt.Transcribe(ctx, emitted, c.cfg.ProcessingRate, c.cfg.Language)
	if err != nil {
		c.log.Error("stt.failed", "error", err.Error())
		c.seg.Reset()
		return nil
	}
	text = cleanUserText(text)
	c.log.Info("stt.done", "text", text)

	if text == "" {
		c.seg.Reset()
		return nil
	}

	normalized := normalizeForMatch(text)
	confirm := contains(c.confirmSet, normalized)
	cancel := contains(c.cancelSet, normalized)
	exitRequested := shortPhraseMatch(normalized, c.exitSet, c.cfg.maxExtraChars())

	if exitRequested {
		c.log.Info("session.exit", "session_id", c.sessionID, "text", text)
		if err := c.tts.Say(ctx, "好的，再见。"); err != nil {
			c.log.Error("tts.failed", "error", err.Error())
		}
		c.toIdle()
		return nil
	}

	if cancel {
		confirm = false
	}

	out, err := c.agent.Turn(ctx, c.sessionID, text, confirm)
	if err != nil {
		c.log.Error("agent.turn_failed", "error", err.Error())
		if sayErr := c.tts.Say(ctx, "抱歉，出现了错误，请稍后再试。"); sayErr != nil {
			c.log.Error("tts.failed", "error", sayErr.Error())
		}
		c.seg.Reset()
		return &TransientAgentError{Err: err}
	}

	reply := speech.Compose(out, c.catalog.ByID())
	c.log.Info("agent.reply", "type", out.Type, "speech", reply)

	if err := c.tts.Say(ctx, reply); err != nil {
		c.log.Error("tts.failed", "error", err.Error())
	}

	c.lastTurnAt = c.now()
	c.seg.Reset()
	return nil
}

// toIdle clears all session state and resets WakeGate/Segmenter, matching
// every IDLE-bound transition (idle-timeout, wake-timeout,
// exit shortcut).
func (c *Controller) toIdle() {
	c.state = StateIdle
	c.sessionID = ""
	c.awaitingFirstUtterance = false
	c.wakeStartedAt = time.Time{}
	c.ignoreUntil = time.Time{}
	if err := c.wake.Reset(); err != nil {
		c.log.Warn("wake.reset_failed", "error", err.Error())
	}
	c.seg.Reset()
}

// resampleToProcessing adapts a captured block to the canonical processing
// block size: the resampler is keyed purely on length (capture block length
// to ProcessingBlock), matching _build_resampler(capture_block,
// process_block)'s length-based contract so every downstream consumer sees
// a fixed-length block regardless of the capture device's rate or block size.
func (c *Controller) resampleToProcessing(block audio.PcmBlock) []int16 {
	return resample.Int16(block.Samples, c.cfg.ProcessingBlock)
}

func durationMs(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func int16ToBytes(in []int16) []byte {
	out := make([]byte, len(in)*2)
	for i, v := range in {
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}

func contains(set map[string]struct{}, s string) bool {
	_, ok := set[s]
	return ok
}
