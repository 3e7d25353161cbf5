// Package assistant proxies farmer questions to an OpenAI-compatible chat
// completion API (Groq) and keeps a history of the exchanges.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/bharti-kisan/agriguide/internal/common"
)

// ErrNotConfigured is returned when no API key is configured.
var ErrNotConfigured = errors.New("ai assistant is not configured")

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel       = "llama-3.1-8b-instant"
	DefaultVisionModel = "llama-3.2-11b-vision-preview"

	systemPrompt = "You are AgriGuide AI, a helpful agricultural assistant for Indian farmers. " +
		"Give concise, actionable advice. If you don't know, say so."
	defaultImagePrompt = "Analyze this crop image and help."
	fallbackResponse   = "Sorry, I could not generate a response."

	// confidence is a fixed display value; the upstream API reports none.
	confidence  = 85
	temperature = 0.4
)

var validate = validator.New()

// QueryType is how the farmer asked.
type QueryType string

const (
	QueryText  QueryType = "text"
	QueryVoice QueryType = "voice"
	QueryImage QueryType = "image"
)

// Query is one question. Voice queries arrive already transcribed.
type Query struct {
	Type     QueryType `json:"type" validate:"omitempty,oneof=text voice image"`
	Content  string    `json:"content" validate:"max=8000"`
	ImageURL string    `json:"imageUrl,omitempty"`
}

// Validate checks the query shape.
func (q Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		return err
	}
	if q.isImage() {
		if !common.HasAnyPrefix(q.ImageURL, "https://", "http://", "data:image/") {
			return errors.New("imageUrl must be an http(s) or data:image URL")
		}
		return nil
	}
	if strings.TrimSpace(q.Content) == "" {
		return errors.New("content is required")
	}
	return nil
}

func (q Query) isImage() bool {
	return q.Type == QueryImage && q.ImageURL != ""
}

// Answer is the assistant's reply.
type Answer struct {
	Response   string `json:"response"`
	Confidence int    `json:"confidence"`
}

// Config selects the upstream endpoint and models.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
}

// Client calls the chat completion API.
type Client struct {
	cfg     Config
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client; empty Config fields take the defaults.
func NewClient(client *http.Client, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = DefaultVisionModel
	}
	return &Client{
		cfg: cfg,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewBreaker("groq"),
	}
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

func (c *Client) buildRequest(q Query) chatRequest {
	req := chatRequest{
		Model:       c.cfg.Model,
		Temperature: temperature,
		Messages:    []message{{Role: "system", Content: systemPrompt}},
	}

	if q.isImage() {
		req.Model = c.cfg.VisionModel
		text := q.Content
		if strings.TrimSpace(text) == "" {
			text = defaultImagePrompt
		}
		req.Messages = append(req.Messages, message{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: text},
				{Type: "image_url", ImageURL: &imageRef{URL: q.ImageURL}},
			},
		})
		return req
	}

	req.Messages = append(req.Messages, message{Role: "user", Content: q.Content})
	return req
}

// Ask sends the query upstream. Upstream non-2xx answers are returned as
// *common.StatusError.
func (c *Client) Ask(ctx context.Context, q Query) (Answer, error) {
	if c.cfg.APIKey == "" {
		return Answer{}, ErrNotConfigured
	}

	body, err := json.Marshal(c.buildRequest(q))
	if err != nil {
		return Answer{}, fmt.Errorf("marshal chat request: %w", err)
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		return req, nil
	}

	resp, err := common.DoRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return Answer{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Answer{}, fmt.Errorf("decode chat response: %w", err)
	}

	text := ""
	if len(payload.Choices) > 0 {
		text = strings.TrimSpace(payload.Choices[0].Message.Content)
	}
	if text == "" {
		text = fallbackResponse
	}
	return Answer{Response: text, Confidence: confidence}, nil
}
