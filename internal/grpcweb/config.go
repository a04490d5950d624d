package grpcweb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ConfigSource yields the base URL of the fulfillment API.
// Implementations must be safe for concurrent use.
type ConfigSource interface {
	FulfillmentAPIURL(ctx context.Context) (string, error)
}

// StaticConfig is a ConfigSource that always returns itself.
type StaticConfig string

func (s StaticConfig) FulfillmentAPIURL(context.Context) (string, error) {
	return string(s), nil
}

// ConfigPath is where the console serves its runtime configuration.
const ConfigPath = "/api/config"

// HTTPConfigSource fetches the console's JSON configuration document and
// reads its fulfillmentApiUrl field.
type HTTPConfigSource struct {
	// URL of the configuration document, e.g. https://console.example.com/api/config.
	URL    string
	Client *http.Client
}

// NewHTTPConfigSource returns a source reading ConfigPath below consoleURL.
func NewHTTPConfigSource(consoleURL string, client *http.Client) *HTTPConfigSource {
	return &HTTPConfigSource{URL: strings.TrimRight(consoleURL, "/") + ConfigPath, Client: client}
}

type consoleConfig struct {
	FulfillmentAPIURL string `json:"fulfillmentApiUrl"`
}

func (s *HTTPConfigSource) FulfillmentAPIURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	var cfg consoleConfig
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&cfg); err != nil {
		return "", fmt.Errorf("grpcweb: decode console config: %w", err)
	}
	return cfg.FulfillmentAPIURL, nil
}
