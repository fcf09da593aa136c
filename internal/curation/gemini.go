package curation

import (
	"context"
	"fmt"
	"time"

	"github.com/feedwire/newsdesk/internal/models"
	"github.com/go-resty/resty/v2"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiSummarizer summarizes the selection through the Gemini
// generateContent API. Its prompt asks for a numbered list, one line
// per article.
type GeminiSummarizer struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewGeminiSummarizer(apiKey, model string, timeout time.Duration) *GeminiSummarizer {
	return &GeminiSummarizer{
		client:  resty.New().SetTimeout(timeout),
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
	}
}

func (g *GeminiSummarizer) Name() string { return "gemini" }

// Summarize sends the whole selection as one batch request and
// returns the raw response text.
func (g *GeminiSummarizer) Summarize(ctx context.Context, articles []models.Article) (string, error) {
	prompt := fmt.Sprintf(`You are a news editor writing social media copy.
Summarize each of the following articles in one sentence of at most 200 characters.
Respond with a numbered list, one line per article, in the same order. No other text.

Articles:
%s`, articleDigest(articles))

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{
				Text: prompt,
			}},
		}},
	}

	var resp geminiResponse
	_, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(url)

	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("gemini error: %s", resp.Error.Message)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in gemini response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
