package ocr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	maxTokens   = 500
	temperature = 0.1
)

// Model sends one prompt with images to a vision-language model and returns
// its text reply.
type Model interface {
	Complete(ctx context.Context, prompt string, imageURLs []string) (string, error)
}

// APIError is a non-2xx answer from the model API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model api status %d: %s", e.Status, e.Message)
}

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("api key not configured")

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	http   *resty.Client
	apiKey string
	model  string
}

func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &OpenAIClient{http: client, apiKey: apiKey, model: model}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string, imageURLs []string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	parts := []contentPart{{Type: "text", Text: prompt}}
	for _, u := range imageURLs {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: u}})
	}
	req := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: parts}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	var out chatResponse
	var apiErr apiErrorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return "", &APIError{Status: resp.StatusCode(), Message: msg}
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}
