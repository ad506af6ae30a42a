package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrModelUnavailable covers transport failures, timeouts, non-2xx
	// statuses and a missing API key.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrMalformedResponse means the model answered but the answer has no
	// usable JSON fragment or fails shape validation.
	ErrMalformedResponse = errors.New("malformed model response")
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	maxErrorBody = 4 << 10
)

// Config is fixed at construction time; a Client never mutates it.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
}

// Client sends one prompt to the text-generation service and returns the
// raw text. It keeps no per-call state and is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	return NewWithHTTPClient(cfg, &http.Client{})
}

func NewWithHTTPClient(cfg Config, hc *http.Client) *Client {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.BaseURL == "" {
		switch cfg.Provider {
		case ProviderGemini:
			cfg.BaseURL = defaultGeminiBaseURL
		default:
			cfg.BaseURL = defaultOpenAIBaseURL
		}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: hc}
}

func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete makes exactly one request to the model service.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: api key is not configured", ErrModelUnavailable)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	switch c.cfg.Provider {
	case ProviderOpenAI:
		return c.completeOpenAI(ctx, prompt)
	case ProviderGemini:
		return c.completeGemini(ctx, prompt)
	default:
		return "", fmt.Errorf("%w: unknown provider %q", ErrModelUnavailable, c.cfg.Provider)
	}
}

// -------------------------------
// OpenAI chat completions
// -------------------------------

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) completeOpenAI(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: assistantSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.Temperature,
	}

	var out chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	if err := c.postJSON(ctx, c.cfg.BaseURL+"/chat/completions", headers, body, &out); err != nil {
		return "", err
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrMalformedResponse)
	}
	return out.Choices[0].Message.Content, nil
}

// -------------------------------
// Gemini generateContent
// -------------------------------

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *Client) completeGemini(ctx context.Context, prompt string) (string, error) {
	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: assistantSystemPrompt}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	body.GenerationConfig.Temperature = c.cfg.Temperature

	var out geminiResponse
	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}
	if err := c.postJSON(ctx, url, headers, body, &out); err != nil {
		return "", err
	}

	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: empty candidate", ErrMalformedResponse)
	}
	return b.String(), nil
}

func (c *Client) postJSON(ctx context.Context, url string, headers map[string]string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrModelUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: status %d: %s", ErrModelUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", ErrMalformedResponse, err)
	}
	return nil
}
