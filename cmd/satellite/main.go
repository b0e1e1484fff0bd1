// Command satellite is the offline voice satellite entrypoint: it wires
// capture/playback, the wake-word gate, VAD segmentation, STT, TTS, the
// device catalog and the agent client into pkg/session.Controller and runs
// the IDLE/LISTEN/SPEAK loop until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/spf13/cobra"

	"github.com/liangz-zzz/voice-satellite/pkg/agent"
	"github.com/liangz-zzz/voice-satellite/pkg/audio"
	"github.com/liangz-zzz/voice-satellite/pkg/config"
	"github.com/liangz-zzz/voice-satellite/pkg/devices"
	"github.com/liangz-zzz/voice-satellite/pkg/providers/recognizer"
	"github.com/liangz-zzz/voice-satellite/pkg/providers/sttengine"
	"github.com/liangz-zzz/voice-satellite/pkg/providers/ttsengine"
	"github.com/liangz-zzz/voice-satellite/pkg/providers/vadengine"
	"github.com/liangz-zzz/voice-satellite/pkg/satlog"
	"github.com/liangz-zzz/voice-satellite/pkg/session"
	"github.com/liangz-zzz/voice-satellite/pkg/vad"
	"github.com/liangz-zzz/voice-satellite/pkg/wake"
)

// processingSampleRate/processingBlockSize are the fixed geometry the
// wake/VAD/STT pipeline expects, mirroring original_source/app.py's
// PROCESS_SAMPLE_RATE/PROCESS_BLOCK_SIZE constants. Capture geometry
// (audio.sample_rate/audio.block_size) is configurable and adapted to this
// fixed geometry by pkg/resample; it must never be wired in directly.
const (
	processingSampleRate = 16000
	processingBlockSize  = 512
)

func main() {
	var configPath string
	var listDevices bool

	root := &cobra.Command{
		Use:   "satellite",
		Short: "Offline voice satellite: wake word, capture, STT, agent, TTS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listDevices {
				return runListDevices()
			}
			if configPath == "" {
				return fmt.Errorf("satellite: --config is required")
			}
			return runSatellite(configPath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to the satellite YAML config")
	root.Flags().BoolVar(&listDevices, "list-devices", false, "list capture/playback devices and exit")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "satellite:", err)
		os.Exit(1)
	}
}

func runListDevices() error {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("satellite: init audio context: %w", err)
	}
	defer mctx.Uninit()

	captures, err := audio.ListCaptureDevices(mctx)
	if err != nil {
		return fmt.Errorf("satellite: list capture devices: %w", err)
	}
	playbacks, err := audio.ListPlaybackDevices(mctx)
	if err != nil {
		return fmt.Errorf("satellite: list playback devices: %w", err)
	}

	fmt.Println("Capture devices:")
	for _, d := range captures {
		fmt.Printf("  [%d] %s\n", d.Index, d.Name)
	}
	fmt.Println("Playback devices:")
	for _, d := range playbacks {
		fmt.Printf("  [%d] %s\n", d.Index, d.Name)
	}
	return nil
}

func runSatellite(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := satlog.New(cfg.Runtime.LogLevel)

	if cfg.Audio.SampleRate != processingSampleRate || cfg.Audio.BlockSize != processingBlockSize {
		log.Warn("audio.resample.enabled",
			"capture_rate", cfg.Audio.SampleRate, "capture_block", cfg.Audio.BlockSize,
			"processing_rate", processingSampleRate, "processing_block", processingBlockSize)
	}

	source, player, closeAudio, err := buildAudio(cfg, log)
	if err != nil {
		return err
	}
	defer closeAudio()

	rec := recognizer.NewSubprocess("vosk-recognizer",
		"--model", cfg.Wake.Recognizer.ModelPath,
		"--rate", strconv.Itoa(processingSampleRate))
	wakeGate, err := wake.New(rec, cfg.Wake.Phrases)
	if err != nil {
		return fmt.Errorf("satellite: build wake gate: %w", err)
	}

	vadProvider, err := vadengine.NewEngine(cfg.Vad.Threshold)
	if err != nil {
		return fmt.Errorf("satellite: build vad engine: %w", err)
	}
	defer vadProvider.Close()

	segmenter := vad.New(vadProvider, vad.Config{
		Threshold:       cfg.Vad.Threshold,
		EndSilenceMs:    cfg.Vad.EndSilenceMs,
		PreRollMs:       cfg.Vad.PreRollMs,
		MaxUtteranceMs:  cfg.Vad.MaxUtteranceMs,
		MinUtteranceMs:  cfg.Vad.MinUtteranceMs,
		ProcessingRate:  processingSampleRate,
		ProcessingBlock: processingBlockSize,
	})

	sttProvider, closeSTT, err := buildSTT(cfg)
	if err != nil {
		return err
	}
	defer closeSTT()

	ttsProvider, closeTTS, err := buildTTS(cfg, player)
	if err != nil {
		return err
	}
	defer closeTTS()

	agentClient := agent.New(cfg.Agent.BaseURL, time.Duration(cfg.Agent.TimeoutS)*time.Second)
	catalog := devices.New(cfg.ApiGateway.BaseURL, cfg.ApiGateway.APIKey)

	sessionCfg := session.Config{
		ProcessingRate:       processingSampleRate,
		ProcessingBlock:      processingBlockSize,
		CooldownMs:           cfg.Wake.CooldownMs,
		WakeTimeoutMs:        cfg.Wake.TimeoutMs,
		SessionIdleTimeoutMs: cfg.Runtime.SessionIdleTimeoutMs,
		Language:             cfg.Stt.Language,
		ConfirmPhrases:       cfg.Agent.ConfirmPhrases,
		CancelPhrases:        cfg.Agent.CancelPhrases,
		ExitPhrases:          cfg.Agent.ExitPhrases,
		BeepEnabled:          cfg.Audio.Beep.Enabled,
		BeepFrequencyHz:      cfg.Audio.Beep.FrequencyHz,
		BeepDurationMs:       cfg.Audio.Beep.DurationMs,
		BeepVolume:           cfg.Audio.Beep.Volume,
	}

	controller, err := session.New(source, wakeGate, segmenter, sttProvider, ttsProvider, agentClient, catalog, sessionCfg,
		session.WithLogger(log), session.WithBeeper(player))
	if err != nil {
		return fmt.Errorf("satellite: build session controller: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("satellite.starting", "config", configPath)
	return controller.Run(ctx)
}

// buildAudio resolves the configured input/output backends into a single
// session.AudioSource plus a shared audio.Player. "auto" follows
// original_source/app.py's convention: prefer the subprocess (ffmpeg/
// PulseAudio) backend when PULSE_SERVER is set in the environment, direct
// (malgo) otherwise. Input and output may resolve independently; a direct
// duplex device is built whenever either side resolves to direct, and it
// backs only the side(s) that did.
func buildAudio(cfg *config.AppConfig, log satlog.Logger) (session.AudioSource, audio.Player, func(), error) {
	inputBackend := resolveBackend(cfg.Audio.InputBackend)
	outputBackend := resolveBackend(cfg.Audio.OutputBackend)

	if inputBackend == "subprocess" {
		src := audio.NewSubprocessSource(cfg.Audio.SourceName, cfg.Audio.SampleRate, cfg.Audio.BlockSize)
		var player audio.Player
		closers := []func(){func() { src.Stop() }}
		if outputBackend == "subprocess" {
			player = audio.NewSubprocessPlayer()
		} else {
			dev, closeDev, err := openDuplexDevice(cfg)
			if err != nil {
				return nil, nil, nil, err
			}
			player = dev
			closers = append(closers, closeDev)
		}
		return src, player, joinClosers(closers), nil
	}

	dev, closeDev, err := openDuplexDevice(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	var player audio.Player = dev
	closers := []func(){closeDev}
	if outputBackend == "subprocess" {
		player = audio.NewSubprocessPlayer()
		log.Debug("audio.mixed_backend", "input", "direct", "output", "subprocess")
	}
	return dev, player, joinClosers(closers), nil
}

func openDuplexDevice(cfg *config.AppConfig) (*audio.DuplexDevice, func(), error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("satellite: init audio context: %w", err)
	}
	captureIdx := -1
	playbackIdx := -1
	if caps, derr := audio.ListCaptureDevices(mctx); derr == nil {
		if idx, rerr := audio.ResolveDevice(caps, cfg.Audio.InputDevice); rerr == nil {
			captureIdx = idx
		}
	}
	if outs, derr := audio.ListPlaybackDevices(mctx); derr == nil {
		if idx, rerr := audio.ResolveDevice(outs, cfg.Audio.OutputDevice); rerr == nil {
			playbackIdx = idx
		}
	}
	mctx.Uninit()

	dev, err := audio.NewDuplexDevice(cfg.Audio.SampleRate, cfg.Audio.BlockSize, captureIdx, playbackIdx)
	if err != nil {
		return nil, nil, err
	}
	return dev, func() { dev.Stop() }, nil
}

func resolveBackend(configured string) string {
	if configured != "auto" {
		return configured
	}
	if os.Getenv("PULSE_SERVER") != "" {
		return "subprocess"
	}
	return "direct"
}

func joinClosers(fns []func()) func() {
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

// buildSTT selects the whisper.cpp in-process backend when stt.model_ref
// names a local model file, or the HTTP multipart backend (keyed off the
// STT_API_KEY env var) when it names an http:// or https:// endpoint.
func buildSTT(cfg *config.AppConfig) (sttengine.Provider, func(), error) {
	if strings.HasPrefix(cfg.Stt.ModelRef, "http://") || strings.HasPrefix(cfg.Stt.ModelRef, "https://") {
		p := sttengine.NewHTTP(cfg.Stt.ModelRef, os.Getenv("STT_API_KEY"), "")
		return p, func() {}, nil
	}
	p, err := sttengine.NewWhisperCpp(cfg.Stt.ModelRef)
	if err != nil {
		return nil, nil, fmt.Errorf("satellite: build whisper.cpp stt: %w", err)
	}
	return p, func() { p.Close() }, nil
}

// buildTTS selects the websocket streaming backend (TTS_WS_HOST/TTS_WS_API_KEY
// env vars, for a hosted voice service) when tts.bin is set to "websocket",
// and piper otherwise.
func buildTTS(cfg *config.AppConfig, player audio.Player) (ttsengine.Provider, func(), error) {
	if cfg.Tts.Bin == "websocket" {
		host := os.Getenv("TTS_WS_HOST")
		if host == "" {
			return nil, nil, fmt.Errorf("satellite: TTS_WS_HOST must be set for the websocket tts backend")
		}
		p := ttsengine.NewWebSocket(host, os.Getenv("TTS_WS_API_KEY"), "default", cfg.Stt.Language, cfg.Audio.SampleRate, player)
		return p, func() { p.Close() }, nil
	}
	p := ttsengine.NewPiper(cfg.Tts.Bin, cfg.Tts.ModelPath, cfg.Tts.ConfigPath, cfg.Tts.Speaker, player)
	return p, func() {}, nil
}
