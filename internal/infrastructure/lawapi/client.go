// Package lawapi fetches statute and administrative-rule text from the
// law.go.kr DRF service and normalizes it into document records.
package lawapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hillslab/lawcounsel/internal/core/domain"
	"github.com/hillslab/lawcounsel/internal/infrastructure/resilience"
)

const (
	TargetStatute   = "law"    // 법령
	TargetAdminRule = "admrul" // 행정규칙
)

type Client struct {
	baseURL    string
	oc         string
	target     string
	mst        string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	HTTPClient *http.Client
	Executor   *resilience.Executor
}

func New(baseURL, oc, target, mst string, options Options) *Client {
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		oc:         oc,
		target:     target,
		mst:        mst,
		httpClient: httpClient,
		executor:   options.Executor,
	}
}

func (c *Client) Name() string {
	return fmt.Sprintf("%s/%s", c.target, c.mst)
}

// Fetch downloads one statute or administrative rule and returns its
// articles and appendices as unprefixed records; the corpus build owns
// the locator prefixing and position assignment.
func (c *Client) Fetch(ctx context.Context) ([]domain.DocumentRecord, error) {
	var payload []byte
	call := func(ctx context.Context) error {
		body, err := c.download(ctx)
		if err != nil {
			return err
		}
		payload = body
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "lawapi.fetch", call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.Name(), err)
	}

	records, err := parseLawDocument(payload)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.Name(), err)
	}
	return records, nil
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	query := url.Values{}
	query.Set("OC", c.oc)
	query.Set("target", c.target)
	query.Set("type", "XML")
	query.Set("MST", c.mst)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("law api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &resilience.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return io.ReadAll(resp.Body)
}

func parseLawDocument(payload []byte) ([]domain.DocumentRecord, error) {
	var doc lawDocument
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	sourceName := strings.TrimSpace(doc.sourceName())
	if sourceName == "" {
		return nil, fmt.Errorf("document has no law name")
	}

	records := make([]domain.DocumentRecord, 0, len(doc.articles())+len(doc.appendices()))
	for _, article := range doc.articles() {
		record, ok := article.toRecord(sourceName)
		if ok {
			records = append(records, record)
		}
	}
	for _, appendix := range doc.appendices() {
		record, ok := appendix.toRecord(sourceName)
		if ok {
			records = append(records, record)
		}
	}
	return records, nil
}
