// Package remote talks to a text-generation service that accepts
// {"prompt": string} and answers {"text": string}.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	PromptPath   = "/docsx/chat/prompt"
	RephrasePath = "/docsx/chat/rephrase"
)

// ErrNoText is returned when a successful response carries no usable text.
var ErrNoText = errors.New("no text returned")

type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %s", e.Status)
}

type Request struct {
	Prompt string `json:"prompt"`
}

type Response struct {
	Text string `json:"text"`
}

type Client struct {
	baseURL      string
	promptPath   string
	rephrasePath string
	http         *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithPaths(prompt, rephrase string) Option {
	return func(cl *Client) {
		cl.promptPath = prompt
		cl.rephrasePath = rephrase
	}
}

// New returns a client for baseURL. The default HTTP client has no timeout;
// callers bound requests through the context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		promptPath:   PromptPath,
		rephrasePath: RephrasePath,
		http:         &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Prompt(ctx context.Context, prompt string) (string, error) {
	return c.post(ctx, c.promptPath, prompt)
}

func (c *Client) Rephrase(ctx context.Context, text string) (string, error) {
	return c.post(ctx, c.rephrasePath, text)
}

func (c *Client) post(ctx context.Context, path, prompt string) (string, error) {
	body, err := json.Marshal(Request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return parseText(data)
}

// parseText pulls the "text" field out of a response body. Anything other
// than a non-empty string there counts as no text.
func parseText(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: malformed body", ErrNoText)
	}
	text := gjson.GetBytes(data, "text")
	if text.Type != gjson.String || text.Str == "" {
		return "", ErrNoText
	}
	return text.Str, nil
}
