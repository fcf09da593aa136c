package curation

import (
	"context"
	"fmt"
	"time"

	"github.com/feedwire/newsdesk/internal/models"
	"github.com/go-resty/resty/v2"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAISummarizer summarizes the selection through an
// OpenAI-compatible chat completions endpoint. Its prompt asks for a
// JSON array of strings positionally aligned to the input.
type OpenAISummarizer struct {
	client   *resty.Client
	apiKey   string
	model    string
	endpoint string
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewOpenAISummarizer(apiKey, model, endpoint string, timeout time.Duration) *OpenAISummarizer {
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	return &OpenAISummarizer{
		client:   resty.New().SetTimeout(timeout),
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
	}
}

func (o *OpenAISummarizer) Name() string { return "openai" }

// Summarize sends the whole selection as one batch request and
// returns the raw response text.
func (o *OpenAISummarizer) Summarize(ctx context.Context, articles []models.Article) (string, error) {
	system := "You are a news editor writing social media copy. " +
		"Summarize each numbered article in one sentence of at most 200 characters. " +
		"Respond with a JSON array of strings in the same order as the input. No other text."

	req := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: articleDigest(articles)},
		},
	}

	var resp chatResponse
	httpResp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+o.apiKey).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(o.endpoint)

	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", resp.Error.Message)
	}

	if httpResp.IsError() || len(resp.Choices) == 0 {
		return "", fmt.Errorf("no content in chat completion response (status %d)", httpResp.StatusCode())
	}

	return resp.Choices[0].Message.Content, nil
}
