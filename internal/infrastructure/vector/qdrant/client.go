// Package qdrant adapts a qdrant collection to the VectorIndex port.
// Points are keyed by record position; the payload carries provenance
// only, never full text — the corpus is the single owner of text.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Rebuild deletes the named collection so the following batches start
// from an empty index. A missing collection is not an error.
func (c *Client) Rebuild(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant delete collection request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("qdrant delete collection status: %s", resp.Status)
	}

	c.ensureMu.Lock()
	c.ensuredCollection = false
	c.ensureMu.Unlock()
	return nil
}

func (c *Client) IndexBatch(ctx context.Context, records []domain.DocumentRecord) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		if len(records[i].Embedding) == 0 {
			return fmt.Errorf("record at position %d has no embedding", records[i].Position)
		}
	}
	if err := c.ensureCollection(ctx, len(records[0].Embedding)); err != nil {
		return err
	}

	type point struct {
		ID      int            `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(records))
	for i := range records {
		record := records[i]
		points = append(points, point{
			ID:     record.Position,
			Vector: record.Embedding,
			Payload: map[string]any{
				"position":    record.Position,
				"kind":        string(record.Kind),
				"source_name": record.SourceName,
				"number":      record.Number,
				"title":       record.Title,
			},
		})
	}

	body, err := json.Marshal(map[string]any{"points": points})
	if err != nil {
		return fmt.Errorf("marshal upsert body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant upsert request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant upsert status: %s", resp.Status)
	}
	return nil
}

func (c *Client) Search(ctx context.Context, queryVector []float32, k int) ([]domain.Neighbor, error) {
	body, err := json.Marshal(map[string]any{
		"vector":       queryVector,
		"limit":        k,
		"with_payload": true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant search status: %s", resp.Status)
	}

	var searchResp struct {
		Result []struct {
			ID      json.Number    `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]domain.Neighbor, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		position, ok := positionFromPayload(r.Payload)
		if !ok {
			if id, err := r.ID.Int64(); err == nil {
				position, ok = int(id), true
			}
		}
		if !ok {
			continue
		}
		out = append(out, domain.Neighbor{Position: position, Score: r.Score})
	}
	return out, nil
}

func (c *Client) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	body, err := json.Marshal(map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	})
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create collection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant ensure collection request: %w", err)
	}
	defer resp.Body.Close()

	// 200/201 for create, 409 if it already exists.
	if resp.StatusCode == http.StatusConflict {
		c.markCollectionEnsured(vectorSize)
		return nil
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("qdrant ensure collection status: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("qdrant ensure collection status: %s", resp.Status)
	}
	c.markCollectionEnsured(vectorSize)
	return nil
}

func (c *Client) markCollectionEnsured(vectorSize int) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
}

func positionFromPayload(payload map[string]any) (int, bool) {
	v, ok := payload["position"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(id), true
	default:
		return 0, false
	}
}
