// Package llm implements the vision OCR adapter over an OpenRouter-compatible
// chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NoTextSentinel is the token the model is instructed to return when an image
// contains no readable text. The adapter maps it to an empty result.
const NoTextSentinel = "NO_TEXT_FOUND"

const (
	defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel   = "x-ai/grok-4.1-fast:free"
	defaultTokens  = 1024
)

// Client handles communication with the vision model endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Message represents a chat message.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is one part of message content (text or image).
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// Request is the API request structure. Temperature is pinned to zero for
// deterministic OCR output and MaxTokens bounds the completion.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Response is the API response structure.
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Choice is a single completion choice.
type Choice struct {
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage is the completion payload.
type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewClient creates a vision OCR client.
func NewClient(apiKey string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     apiKey,
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

// ExtractImageText submits one image and returns the text the model read from
// it. A sentinel response means "no text" and yields ("", nil). Callers are
// expected to absorb errors: a failed call contributes no OCR text and never
// aborts a page.
func (c *Client) ExtractImageText(ctx context.Context, imageData []byte) (string, error) {
	req := c.buildRequest(imageData)

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal ocr request: %w", err)
	}

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		return c.httpClient.Do(httpReq)
	})
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ocr endpoint returned status %d: %s", resp.StatusCode, respBody)
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("ocr response contained no choices")
	}

	text := strings.TrimSpace(apiResp.Choices[0].Message.Content)
	if isSentinel(text) {
		return "", nil
	}
	return text, nil
}

func (c *Client) buildRequest(imageData []byte) *Request {
	dataURL := "data:" + sniffImageMIME(imageData) + ";base64," +
		base64.StdEncoding.EncodeToString(imageData)

	msg := Message{
		Role: "user",
		Content: []ContentPart{
			{Type: "text", Text: ocrPrompt()},
			{Type: "image_url", ImageURL: &ImageURL{URL: dataURL}},
		},
	}
	return &Request{
		Model:       c.model,
		Messages:    []Message{msg},
		Temperature: 0,
		MaxTokens:   c.maxTokens,
	}
}

func ocrPrompt() string {
	return `Extract all visible text from this image, preserving reading order.
Return only the text itself: no commentary, no formatting markup, no description of the image.
If the image contains no readable text, respond with exactly ` + NoTextSentinel + ` and nothing else.`
}

// isSentinel matches the no-text sentinel leniently; models occasionally
// decorate it with punctuation or casing.
func isSentinel(text string) bool {
	trimmed := strings.Trim(strings.TrimSpace(text), `"'.!`)
	return strings.EqualFold(trimmed, NoTextSentinel)
}

func sniffImageMIME(data []byte) string {
	if len(data) >= 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		return "image/png"
	}
	return "image/jpeg"
}
