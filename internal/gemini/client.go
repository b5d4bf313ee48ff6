package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Pranshu23x/project-server/internal/config"
	log "github.com/sirupsen/logrus"
)

var ErrConfig = errors.New("gemini API key is not configured")

// UpstreamError is returned when the provider answers with a non-success
// status or without any usable candidate.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.Status, e.Body)
}

type Request struct {
	Prompt          string
	Temperature     float64
	MaxOutputTokens int
}

type Response struct {
	Text        string
	TotalTokens int
}

// Completer is a one-shot text completion provider.
type Completer interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

type Client struct {
	apiKey     string
	model      string
	baseUrl    string
	httpClient *http.Client
}

func NewClient(cfg config.Gemini, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:     cfg.ApiKey,
		model:      cfg.Model,
		baseUrl:    strings.TrimRight(cfg.BaseUrl, "/"),
		httpClient: httpClient,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate sends a single generateContent request. No retries are made;
// cancellation and deadlines come from ctx.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	if c.apiKey == "" {
		return Response{}, ErrConfig
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxOutputTokens,
		},
	})
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseUrl, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	log.Debugf("POST %s (prompt %d chars)", endpoint, len(req.Prompt))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("gemini request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Errorf("gemini returned status %d", resp.StatusCode)
		return Response{}, &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Response{}, &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}
	text, ok := firstText(parsed)
	if !ok {
		return Response{}, &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return Response{Text: text, TotalTokens: parsed.UsageMetadata.TotalTokenCount}, nil
}

func firstText(resp generateResponse) (string, bool) {
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.Text != "" {
				return p.Text, true
			}
		}
	}
	return "", false
}
