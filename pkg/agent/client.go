// Package agent implements the HTTP client used to forward a spoken turn to
// the upstream conversational agent and receive back a structured reply.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/liangz-zzz/voice-satellite/pkg/speech"
)

// Client posts turns to the agent's /v1/agent/turn endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// New builds a Client with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type turnRequest struct {
	Input     string `json:"input"`
	SessionID string `json:"sessionId"`
	Confirm   bool   `json:"confirm"`
}

// Turn sends one utterance for the given session and returns the agent's
// structured response.
func (c *Client) Turn(ctx context.Context, sessionID, text string, confirm bool) (speech.AgentOutput, error) {
	var out speech.AgentOutput

	payload, err := json.Marshal(turnRequest{Input: text, SessionID: sessionID, Confirm: confirm})
	if err != nil {
		return out, fmt.Errorf("agent: encode request: %w", err)
	}

	url := strings.TrimRight(c.baseURL, "/") + "/v1/agent/turn"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("agent: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("agent: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return out, fmt.Errorf("agent: agent_http_%d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("agent: decode response: %w", err)
	}
	return out, nil
}
