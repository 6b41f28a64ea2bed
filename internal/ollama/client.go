// Package ollama is a minimal HTTP client for a local Ollama instance,
// covering model listing, pulling, and non-streaming chat completion.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GodReaper/PrashnaRachnaAI/internal/config"
)

// ErrProviderUnavailable marks an unreachable inference backend.
var ErrProviderUnavailable = errors.New("inference backend unavailable")

// ErrModelNotFound marks a model that is absent locally and could not be
// pulled, including its configured fallback.
var ErrModelNotFound = errors.New("model not found")

// Client communicates with an Ollama server over HTTP. All calls carry a
// timeout; a hung backend never blocks a batch indefinitely.
type Client struct {
	baseURL       string
	defaultModel  string
	fallbackModel string
	temperature   float64
	maxTokens     int
	timeout       time.Duration
	httpClient    *http.Client
}

func NewClient(cfg config.OllamaConfig) *Client {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 120
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		defaultModel:  cfg.DefaultModel,
		fallbackModel: cfg.FallbackModel,
		temperature:   cfg.Temperature,
		maxTokens:     cfg.MaxTokens,
		timeout:       cfg.Timeout(),
		httpClient:    &http.Client{},
	}
}

// CompleteRequest describes one inference call. Model may be empty, meaning
// the configured default. WantStructured requests JSON-formatted output from
// the backend; the response still goes through reconciliation regardless.
type CompleteRequest struct {
	Model          string
	Prompt         string
	System         string
	Temperature    float64
	MaxTokens      int
	WantStructured bool
}

// Completion is the raw model output plus the model that actually served it
// (which may be the fallback).
type Completion struct {
	Content string
	Model   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Complete ensures the requested model is usable and runs one non-streaming
// chat call. Transport failures map to ErrProviderUnavailable, unusable
// models to ErrModelNotFound.
func (c *Client) Complete(ctx context.Context, req CompleteRequest) (*Completion, error) {
	model, err := c.EnsureModel(ctx, req.Model)
	if err != nil {
		return nil, err
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	cr := chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: map[string]any{
			"temperature": temperature,
			"num_predict": maxTokens,
		},
	}
	if req.WantStructured {
		cr.Format = "json"
	}

	var result chatResponse
	if err := c.postJSON(ctx, "/api/chat", cr, &result, c.timeout); err != nil {
		return nil, err
	}
	return &Completion{Content: result.Message.Content, Model: model}, nil
}

// EnsureModel resolves the model to use as an explicit two-step state
// machine: primary (pull if missing) -> fallback (pull if missing) -> fail.
// The empty name means the configured default.
func (c *Client) EnsureModel(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = c.defaultModel
	}

	available, err := c.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("listing models: %w", errors.Join(ErrProviderUnavailable, err))
	}

	if hasModel(available, name) {
		return name, nil
	}

	log.Info().Str("model", name).Msg("model not available, pulling")
	if err := c.PullModel(ctx, name); err == nil {
		return name, nil
	} else if name == c.fallbackModel || c.fallbackModel == "" {
		return "", fmt.Errorf("model %s: %w", name, ErrModelNotFound)
	}

	log.Warn().Str("model", name).Str("fallback", c.fallbackModel).Msg("falling back")
	if hasModel(available, c.fallbackModel) {
		return c.fallbackModel, nil
	}
	if err := c.PullModel(ctx, c.fallbackModel); err == nil {
		return c.fallbackModel, nil
	}
	return "", fmt.Errorf("model %s and fallback %s: %w", name, c.fallbackModel, ErrModelNotFound)
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the names of the models present on the server.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting model list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model list: unexpected status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decoding model list: %w", err)
	}
	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// HasModel reports whether the named model is present on the server.
func (c *Client) HasModel(ctx context.Context, name string) bool {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false
	}
	return hasModel(models, name)
}

// hasModel matches with or without the tag suffix Ollama appends.
func hasModel(models []string, name string) bool {
	for _, m := range models {
		if m == name || strings.HasPrefix(m, name+":") {
			return true
		}
	}
	return false
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// PullModel downloads a model, reading the streamed progress to completion.
func (c *Client) PullModel(ctx context.Context, name string) error {
	body, err := json.Marshal(pullRequest{Name: name, Stream: true})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pulling model %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pull %s: unexpected status %d", name, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	for {
		var progress struct {
			Status string `json:"status"`
		}
		if err := dec.Decode(&progress); err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("reading pull progress: %w", err)
		}
	}
	return nil
}

// postJSON runs one JSON request/response cycle with a hard timeout.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, errors.Join(ErrProviderUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: status %d, %s", path, resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
