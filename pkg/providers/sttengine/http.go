package sttengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/liangz-zzz/voice-satellite/pkg/audio"
)

// HTTP is a multipart-upload STT adapter for environments without a local
// whisper.cpp build: WAV-wrap the PCM, multipart POST, bearer auth, decode
// {"text": ...}.
type HTTP struct {
	apiKey string
	url    string
	model  string
	client *http.Client
}

// NewHTTP configures an HTTP STT adapter against url (e.g. Groq's
// /audio/transcriptions endpoint) using model as the request's model field.
func NewHTTP(url, apiKey, model string) *HTTP {
	if model == "" {
		model = "whisper-large-v3-turbo"
	}
	return &HTTP{
		apiKey: apiKey,
		url:    url,
		model:  model,
		client: http.DefaultClient,
	}
}

// Transcribe WAV-wraps pcm at sampleRate and uploads it for transcription.
func (h *HTTP) Transcribe(ctx context.Context, pcm []float32, sampleRate int, language string) (string, error) {
	pcm16 := floatToInt16LE(pcm)
	wavData := audio.NewWavBuffer(pcm16, sampleRate)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", h.model); err != nil {
		return "", err
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return "", err
		}
	}

	part, err := writer.CreateFormFile("file", "utterance.wav")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, bytes.NewReader(wavData)); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody interface{}
		json.NewDecoder(resp.Body).Decode(&errBody)
		return "", fmt.Errorf("sttengine: http stt error (status %d): %v", resp.StatusCode, errBody)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Text, nil
}

func floatToInt16LE(pcm []float32) []byte {
	out := make([]byte, len(pcm)*2)
	for i, f := range pcm {
		v := f * 32768.0
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		s := int16(v)
		out[2*i] = byte(s)
		out[2*i+1] = byte(s >> 8)
	}
	return out
}
