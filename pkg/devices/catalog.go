// Package devices maintains a locally cached copy of the device catalog
// fetched from the api gateway, used to resolve device ids to display names
// when composing spoken replies.
package devices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/liangz-zzz/voice-satellite/pkg/speech"
)

const refreshTimeout = 10 * time.Second

// Catalog holds the most recently fetched device records, keyed by id. A
// stale copy (by up to one wake cycle) is an accepted tradeoff; refresh is
// called best-effort on every wake match.
type Catalog struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu    sync.RWMutex
	byID  map[string]speech.Device
	count int
}

// New builds a catalog client against the api gateway's base URL.
func New(baseURL, apiKey string) *Catalog {
	return &Catalog{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: refreshTimeout},
		byID:    map[string]speech.Device{},
	}
}

type listResponse struct {
	Items []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"items"`
}

// Refresh fetches the current device list and replaces the cached copy.
func (c *Catalog) Refresh(ctx context.Context) error {
	url := strings.TrimRight(c.baseURL, "/") + "/devices"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("devices: build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("devices: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("devices: api_gateway_http_%d: %s", resp.StatusCode, body)
	}

	var parsed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("devices: decode response: %w", err)
	}

	out := make(map[string]speech.Device, len(parsed.Items))
	for _, d := range parsed.Items {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			continue
		}
		out[id] = speech.Device{ID: id, Name: d.Name}
	}

	c.mu.Lock()
	c.byID = out
	c.count = len(out)
	c.mu.Unlock()
	return nil
}

// ByID returns a snapshot of the cached device map, safe to hand to
// speech.Compose.
func (c *Catalog) ByID() map[string]speech.Device {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]speech.Device, len(c.byID))
	for k, v := range c.byID {
		out[k] = v
	}
	return out
}

// Count reports how many devices are currently cached, for logging.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}
