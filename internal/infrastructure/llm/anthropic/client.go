// Package anthropic is the generation collaborator. The core's only
// contract with it is the prompt text and an output-length ceiling.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hillslab/lawcounsel/internal/infrastructure/resilience"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Executor   *resilience.Executor
}

func New(apiKey, model string, options Options) *Client {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		executor:   options.Executor,
	}
}

func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	body, err := json.Marshal(map[string]any{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal messages body: %w", err)
	}

	var answer string
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create messages request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", apiVersion)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("anthropic request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return &resilience.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		}

		var response struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return fmt.Errorf("decode messages response: %w", err)
		}

		var b strings.Builder
		for _, block := range response.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		answer = strings.TrimSpace(b.String())
		return nil
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "anthropic.generate", call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("empty generation result")
	}
	return answer, nil
}
