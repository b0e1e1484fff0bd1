// Package config loads the satellite's typed configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// BeepConfig controls the confirmation tone played on wake.
type BeepConfig struct {
	Enabled     bool    `yaml:"enabled"`
	FrequencyHz int     `yaml:"frequency_hz"`
	DurationMs  int     `yaml:"duration_ms"`
	Volume      float64 `yaml:"volume"`
}

// AudioConfig describes capture/playback geometry and backend selection.
type AudioConfig struct {
	SampleRate    int        `yaml:"sample_rate"`
	BlockSize     int        `yaml:"block_size"`
	InputDevice   string     `yaml:"input_device"`
	OutputDevice  string     `yaml:"output_device"`
	InputBackend  string     `yaml:"input_backend"`  // direct | subprocess | auto
	OutputBackend string     `yaml:"output_backend"` // direct | subprocess | auto
	SourceName    string     `yaml:"source_name"`
	Beep          BeepConfig `yaml:"beep"`
}

// RecognizerConfig points at the wake-word recognizer's model directory.
type RecognizerConfig struct {
	ModelPath string `yaml:"model_path"`
}

// WakeConfig configures the wake-word gate.
type WakeConfig struct {
	Phrases    []string         `yaml:"phrases"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
	CooldownMs int              `yaml:"cooldown_ms"`
	TimeoutMs  int              `yaml:"timeout_ms"`
}

// VadConfig configures the VAD segmenter's derived chunk counts.
type VadConfig struct {
	Threshold      float64 `yaml:"threshold"`
	EndSilenceMs   int     `yaml:"end_silence_ms"`
	PreRollMs      int     `yaml:"pre_roll_ms"`
	MaxUtteranceMs int     `yaml:"max_utterance_ms"`
	MinUtteranceMs int     `yaml:"min_utterance_ms"`
}

// SttConfig configures the speech-to-text engine.
type SttConfig struct {
	ModelRef string `yaml:"model_ref"`
	Language string `yaml:"language"`
	Device   string `yaml:"device"` // cpu | cuda
}

// TtsConfig configures the text-to-speech engine.
type TtsConfig struct {
	Bin        string `yaml:"bin"`
	ModelPath  string `yaml:"model_path"`
	ConfigPath string `yaml:"config_path"`
	Speaker    *int   `yaml:"speaker"`
}

// ApiGatewayConfig configures the device catalog HTTP client.
type ApiGatewayConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// AgentConfig configures the agent HTTP client and command-phrase sets.
type AgentConfig struct {
	BaseURL        string   `yaml:"base_url"`
	TimeoutS       int      `yaml:"timeout_s"`
	ConfirmPhrases []string `yaml:"confirm_phrases"`
	CancelPhrases  []string `yaml:"cancel_phrases"`
	ExitPhrases    []string `yaml:"exit_phrases"`
}

// RuntimeConfig configures housekeeping timeouts and logging.
type RuntimeConfig struct {
	SessionIdleTimeoutMs int    `yaml:"session_idle_timeout_ms"`
	LogLevel             string `yaml:"log_level"`
}

// AppConfig is the fully-resolved, defaulted and validated configuration tree.
type AppConfig struct {
	Audio      AudioConfig      `yaml:"audio"`
	Wake       WakeConfig       `yaml:"wake"`
	Vad        VadConfig        `yaml:"vad"`
	Stt        SttConfig        `yaml:"stt"`
	Tts        TtsConfig        `yaml:"tts"`
	ApiGateway ApiGatewayConfig `yaml:"api_gateway"`
	Agent      AgentConfig      `yaml:"agent"`
	Runtime    RuntimeConfig    `yaml:"runtime"`
}

// ConfigError is returned for missing required fields or invalid values;
// the CLI treats it as fatal.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// Load reads, defaults, and validates the YAML config at path. It also
// loads a ".env" file from the current working directory (best-effort)
// into the process environment; .env values never override or expand the
// YAML itself, they are only visible to code that reads the environment
// directly.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf("read config %q: %v", path, err)
	}

	var doc struct {
		Audio      AudioConfig      `yaml:"audio"`
		Wake       WakeConfig       `yaml:"wake"`
		Vad        VadConfig        `yaml:"vad"`
		Stt        SttConfig        `yaml:"stt"`
		Tts        TtsConfig        `yaml:"tts"`
		ApiGateway ApiGatewayConfig `yaml:"api_gateway"`
		Agent      AgentConfig      `yaml:"agent"`
		Runtime    RuntimeConfig    `yaml:"runtime"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, configErrorf("parse config %q: %v", path, err)
	}

	cfg := &AppConfig{
		Audio:      doc.Audio,
		Wake:       doc.Wake,
		Vad:        doc.Vad,
		Stt:        doc.Stt,
		Tts:        doc.Tts,
		ApiGateway: doc.ApiGateway,
		Agent:      doc.Agent,
		Runtime:    doc.Runtime,
	}
	applyDefaults(cfg)

	if cfg.Wake.Recognizer.ModelPath == "" {
		return nil, configErrorf("missing required config: wake.recognizer.model_path")
	}
	if cfg.Stt.ModelRef == "" {
		return nil, configErrorf("missing required config: stt.model_ref")
	}
	if cfg.Tts.ModelPath == "" || cfg.Tts.ConfigPath == "" {
		return nil, configErrorf("missing required config: tts.model_path / tts.config_path")
	}
	for _, backend := range []string{cfg.Audio.InputBackend, cfg.Audio.OutputBackend} {
		switch backend {
		case "direct", "subprocess", "auto":
		default:
			return nil, configErrorf("audio backend must be one of: direct | subprocess | auto, got %q", backend)
		}
	}

	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Audio.SampleRate == 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.BlockSize == 0 {
		cfg.Audio.BlockSize = 512
	}
	if cfg.Audio.InputBackend == "" {
		cfg.Audio.InputBackend = "direct"
	}
	if cfg.Audio.OutputBackend == "" {
		cfg.Audio.OutputBackend = "direct"
	}
	if cfg.Audio.SourceName == "" {
		cfg.Audio.SourceName = "default"
	}
	if !cfg.Audio.Beep.Enabled && cfg.Audio.Beep.FrequencyHz == 0 && cfg.Audio.Beep.DurationMs == 0 && cfg.Audio.Beep.Volume == 0 {
		// Beep block entirely absent from YAML: apply the documented defaults.
		cfg.Audio.Beep = BeepConfig{Enabled: true, FrequencyHz: 880, DurationMs: 120, Volume: 0.2}
	}

	if len(cfg.Wake.Phrases) == 0 {
		cfg.Wake.Phrases = []string{"老管家"}
	}
	if cfg.Wake.CooldownMs == 0 {
		cfg.Wake.CooldownMs = 350
	}
	if cfg.Wake.TimeoutMs == 0 {
		cfg.Wake.TimeoutMs = 8000
	}

	if cfg.Vad.Threshold == 0 {
		cfg.Vad.Threshold = 0.55
	}
	if cfg.Vad.EndSilenceMs == 0 {
		cfg.Vad.EndSilenceMs = 700
	}
	if cfg.Vad.PreRollMs == 0 {
		cfg.Vad.PreRollMs = 400
	}
	if cfg.Vad.MaxUtteranceMs == 0 {
		cfg.Vad.MaxUtteranceMs = 20000
	}
	if cfg.Vad.MinUtteranceMs == 0 {
		cfg.Vad.MinUtteranceMs = 300
	}

	if cfg.Stt.Language == "" {
		cfg.Stt.Language = "zh"
	}
	if cfg.Stt.Device == "" {
		cfg.Stt.Device = "cpu"
	}

	if cfg.Tts.Bin == "" {
		cfg.Tts.Bin = "piper"
	}

	if cfg.ApiGateway.BaseURL == "" {
		cfg.ApiGateway.BaseURL = "http://localhost:4000"
	}

	if cfg.Agent.BaseURL == "" {
		cfg.Agent.BaseURL = "http://localhost:6100"
	}
	if cfg.Agent.TimeoutS == 0 {
		cfg.Agent.TimeoutS = 30
	}
	if len(cfg.Agent.ConfirmPhrases) == 0 {
		cfg.Agent.ConfirmPhrases = []string{"确认", "执行", "是", "好的", "可以"}
	}
	if len(cfg.Agent.CancelPhrases) == 0 {
		cfg.Agent.CancelPhrases = []string{"取消", "不要", "算了", "停止"}
	}
	if len(cfg.Agent.ExitPhrases) == 0 {
		cfg.Agent.ExitPhrases = []string{"再见", "拜拜"}
	}

	if cfg.Runtime.SessionIdleTimeoutMs == 0 {
		cfg.Runtime.SessionIdleTimeoutMs = 30000
	}
	if cfg.Runtime.LogLevel == "" {
		cfg.Runtime.LogLevel = "info"
	}
}
