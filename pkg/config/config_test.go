package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
wake:
  recognizer:
    model_path: /models/wake
stt:
  model_ref: /models/stt.bin
tts:
  model_path: /models/tts.onnx
  config_path: /models/tts.json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 16000, cfg.Audio.SampleRate)
	require.Equal(t, 512, cfg.Audio.BlockSize)
	require.Equal(t, "direct", cfg.Audio.InputBackend)
	require.Equal(t, "direct", cfg.Audio.OutputBackend)
	require.True(t, cfg.Audio.Beep.Enabled)
	require.Equal(t, 880, cfg.Audio.Beep.FrequencyHz)

	require.Equal(t, []string{"老管家"}, cfg.Wake.Phrases)
	require.Equal(t, 350, cfg.Wake.CooldownMs)
	require.Equal(t, 8000, cfg.Wake.TimeoutMs)

	require.InDelta(t, 0.55, cfg.Vad.Threshold, 1e-9)
	require.Equal(t, 700, cfg.Vad.EndSilenceMs)
	require.Equal(t, 400, cfg.Vad.PreRollMs)
	require.Equal(t, 20000, cfg.Vad.MaxUtteranceMs)
	require.Equal(t, 300, cfg.Vad.MinUtteranceMs)

	require.Equal(t, "zh", cfg.Stt.Language)
	require.Equal(t, "cpu", cfg.Stt.Device)
	require.Equal(t, "piper", cfg.Tts.Bin)

	require.Equal(t, "http://localhost:4000", cfg.ApiGateway.BaseURL)
	require.Equal(t, "http://localhost:6100", cfg.Agent.BaseURL)
	require.Equal(t, 30, cfg.Agent.TimeoutS)
	require.Equal(t, []string{"确认", "执行", "是", "好的", "可以"}, cfg.Agent.ConfirmPhrases)
	require.Equal(t, []string{"取消", "不要", "算了", "停止"}, cfg.Agent.CancelPhrases)
	require.Equal(t, []string{"再见", "拜拜"}, cfg.Agent.ExitPhrases)

	require.Equal(t, 30000, cfg.Runtime.SessionIdleTimeoutMs)
	require.Equal(t, "info", cfg.Runtime.LogLevel)
}

func TestLoadMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing wake model path", `
stt:
  model_ref: /models/stt.bin
tts:
  model_path: /models/tts.onnx
  config_path: /models/tts.json
`},
		{"missing stt model ref", `
wake:
  recognizer:
    model_path: /models/wake
tts:
  model_path: /models/tts.onnx
  config_path: /models/tts.json
`},
		{"missing tts paths", `
wake:
  recognizer:
    model_path: /models/wake
stt:
  model_ref: /models/stt.bin
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempConfig(t, tc.body)
			_, err := Load(path)
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeTempConfig(t, `
audio:
  input_backend: carrier-pigeon
wake:
  recognizer:
    model_path: /models/wake
stt:
  model_ref: /models/stt.bin
tts:
  model_path: /models/tts.onnx
  config_path: /models/tts.json
`)
	_, err := Load(path)
	require.Error(t, err)
}
