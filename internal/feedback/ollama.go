// Package feedback asks an LLM writing coach for structured craft feedback.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const ollamaBaseURL = "http://localhost:11434"

// OllamaProvider calls a local Ollama generate endpoint.
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider returns a provider for cfg. A model name is required.
func NewOllamaProvider(cfg Config) (*OllamaProvider, error) {
	if cfg.Model == "" {
		return nil, errors.New("ollama model must be specified (e.g. llama3.1:8b)")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = ollamaBaseURL
	}
	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.timeout()},
		config:     cfg,
	}, nil
}

// Name implements Provider.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Complete implements Provider.
func (p *OllamaProvider) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:   p.config.model(req, ""),
		Prompt:  req.Prompt,
		Stream:  false,
		Format:  "json",
		Options: ollamaOptions{NumPredict: p.config.maxTokens(req)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama at %s: %w", p.baseURL, err)
	}
	defer func() {
		if cerr := httpResp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return "", fmt.Errorf("ollama API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("ollama API error (%d): %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Response, nil
}

var _ Provider = (*OllamaProvider)(nil)
