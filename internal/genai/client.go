// Package genai is a thin client for the hosted generative-language REST
// API. It covers the two calls the storefront makes: conversational replies
// for the shopping assistant and single-image product matching.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var ErrNoAPIKey = errors.New("genai: API key not configured")

type Client struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

func New(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL points the client at an alternate endpoint. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Turn is one message of an ongoing conversation.
type Turn struct {
	Role string // "user" | "model"
	Text string
}

// Match is the vision endpoint's verdict for one image.
type Match struct {
	ProductID  string  `json:"productId"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Wire structures for the generateContent endpoint.
type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type request struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type response struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends the conversation to the model and returns its reply
// text.
func (c *Client) GenerateContent(ctx context.Context, system string, turns []Turn) (string, error) {
	req := request{Contents: make([]content, 0, len(turns))}
	if system != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	for _, t := range turns {
		req.Contents = append(req.Contents, content{Role: t.Role, Parts: []part{{Text: t.Text}}})
	}
	return c.call(ctx, req)
}

// MatchImage submits one image plus the catalog summary and decodes the
// JSON verdict. A malformed reply is reported as an error, never a panic.
func (c *Client) MatchImage(ctx context.Context, image []byte, mimeType, prompt string) (Match, error) {
	req := request{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
			{Text: prompt},
		}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}
	text, err := c.call(ctx, req)
	if err != nil {
		return Match{}, err
	}
	var m Match
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return Match{}, fmt.Errorf("genai: malformed match reply: %w", err)
	}
	return m, nil
}

func (c *Client) call(ctx context.Context, req request) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genai: API returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("genai: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("genai: empty response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
