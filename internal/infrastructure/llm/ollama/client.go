// Package ollama is the encoder collaborator: same model, same vectors,
// at index-build time and at query time.
package ollama

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

type Embedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	HTTPClient *http.Client
	Executor   *resilience.Executor
}

func NewEmbedder(baseURL, model string, options Options) *Embedder {
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Embedder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
		executor:   options.Executor,
	}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.model,
		"input": texts,
	}
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := e.postJSON(ctx, "/api/embed", request, &response); err != nil {
		return nil, err
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(response.Embeddings), len(texts))
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

func (e *Embedder) postJSON(ctx context.Context, path string, request, response any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal embed body: %w", err)
	}

	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create embed request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := e.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("ollama request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return &resilience.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		}
		return json.NewDecoder(resp.Body).Decode(response)
	}

	if e.executor != nil {
		return e.executor.Execute(ctx, "ollama.embed", call)
	}
	return call(ctx)
}
