package ttsengine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/liangz-zzz/voice-satellite/pkg/audio"
)

// Piper shells out to the piper binary to synthesize a WAV file, then plays
// it through an audio.Player, mirroring original_source/tts_piper.py.
type Piper struct {
	bin        string
	modelPath  string
	configPath string
	speaker    *int
	player     audio.Player
}

// NewPiper configures a Piper adapter. speaker may be nil (use the model's
// default speaker).
func NewPiper(bin, modelPath, configPath string, speaker *int, player audio.Player) *Piper {
	return &Piper{
		bin:        bin,
		modelPath:  modelPath,
		configPath: configPath,
		speaker:    speaker,
		player:     player,
	}
}

// Say synthesizes text to a temporary WAV file and plays it. Empty (after
// trimming) text is a silent no-op, matching tts_piper.py's say().
func (p *Piper) Say(ctx context.Context, text string) error {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}

	dir, err := os.MkdirTemp("", "satellite-tts-")
	if err != nil {
		return fmt.Errorf("ttsengine: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	wavPath := filepath.Join(dir, "tts.wav")
	if err := p.synthesize(ctx, t, wavPath); err != nil {
		return err
	}

	data, err := os.ReadFile(wavPath)
	if err != nil {
		return fmt.Errorf("ttsengine: read synthesized wav: %w", err)
	}
	pcm, sampleRate, _, err := audio.DecodeWav(data)
	if err != nil {
		return fmt.Errorf("ttsengine: decode synthesized wav: %w", err)
	}
	return p.player.Play(pcm, sampleRate)
}

func (p *Piper) synthesize(ctx context.Context, text, wavPath string) error {
	args := []string{"--model", p.modelPath, "--config", p.configPath, "--output_file", wavPath}
	if p.speaker != nil {
		args = append(args, "--speaker", strconv.Itoa(*p.speaker))
	}
	cmd := exec.CommandContext(ctx, p.bin, args...)
	cmd.Stdin = bytes.NewReader([]byte(text + "\n"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		snippet := stderr.Bytes()
		if len(snippet) > 300 {
			snippet = snippet[:300]
		}
		return fmt.Errorf("ttsengine: piper_failed: %s", snippet)
	}
	return nil
}
