// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package remote delegates summarization to a hosted text-generation
// service under the same contract as the rule-based summarizer. The
// client is a boundary collaborator: it caps input size, sanitizes
// block payloads, and rejects malformed requests before any network
// call. The core algorithm never depends on it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/canvas-engine/internal/extract"
	"github.com/pdiddy/canvas-engine/internal/httputil"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

// Mode selects how much of the canvas the service summarizes.
type Mode string

const (
	ModeSelection Mode = "selection"
	ModeProject   Mode = "project"
)

// Input caps. They bound the cost and latency of the external call.
const (
	maxSelectionBlocks = 12
	maxProjectBlocks   = 25
	maxContentChars    = 10000
)

// ValidationError reports a rejected request with a machine-readable
// reason. It is never produced by the rule-based core, only at this
// boundary.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid summarize request: " + e.Reason
}

// Client calls the hosted summarization service.
type Client struct {
	HTTP   *http.Client
	Config types.RemoteConfig
}

// payloadBlock is a sanitized block: identity, variant, and flattened
// content only. Geometry and timestamps never leave the process.
type payloadBlock struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type summarizeRequest struct {
	Mode   Mode           `json:"mode"`
	Blocks []payloadBlock `json:"blocks"`
	Focus  string         `json:"focus,omitempty"`
}

type summarizeResponse struct {
	SummaryText string `json:"summaryText"`
}

// Summarize sends the sanitized blocks to the service and returns its
// summary text. The focus hint is optional free text. Requests that
// violate the caps are rejected with a *ValidationError before any
// network traffic; transport and HTTP failures surface as wrapped
// errors.
func (c *Client) Summarize(ctx context.Context, mode Mode, blocks []types.Block, focus string) (string, error) {
	payload, err := buildRequest(mode, blocks, focus)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.Config.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.Config.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("summarizer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarizer service returned HTTP %d", resp.StatusCode)
	}

	var sr summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("parsing summarizer response: %w", err)
	}
	if strings.TrimSpace(sr.SummaryText) == "" {
		return "", fmt.Errorf("summarizer service returned empty summary")
	}

	return sr.SummaryText, nil
}

// buildRequest validates the caps and sanitizes blocks. Blocks with no
// extractable content are dropped from the payload; an all-empty input
// is rejected.
func buildRequest(mode Mode, blocks []types.Block, focus string) (*summarizeRequest, error) {
	var maxBlocks int
	switch mode {
	case ModeSelection:
		maxBlocks = maxSelectionBlocks
	case ModeProject:
		maxBlocks = maxProjectBlocks
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown mode %q", mode)}
	}

	if len(blocks) == 0 {
		return nil, &ValidationError{Reason: "no blocks provided"}
	}
	if len(blocks) > maxBlocks {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("%d blocks exceeds %s cap of %d", len(blocks), mode, maxBlocks),
		}
	}

	req := &summarizeRequest{Mode: mode, Focus: strings.TrimSpace(focus)}
	totalChars := 0
	for _, b := range blocks {
		if b.ID == "" {
			return nil, &ValidationError{Reason: "block with empty ID"}
		}
		content := strings.TrimSpace(extract.Content(b))
		if content == "" {
			continue
		}
		totalChars += utf8.RuneCountInString(content)
		req.Blocks = append(req.Blocks, payloadBlock{
			ID:      b.ID,
			Type:    string(b.Type),
			Content: content,
		})
	}

	if len(req.Blocks) == 0 {
		return nil, &ValidationError{Reason: "no blocks with content"}
	}
	if totalChars > maxContentChars {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("total content length %d exceeds cap of %d", totalChars, maxContentChars),
		}
	}

	return req, nil
}
