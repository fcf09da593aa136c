package curation

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// Publisher posts an approved summary to the external channel and
// returns the handle of the posted resource.
type Publisher interface {
	Publish(ctx context.Context, text, sourceURL string) (string, error)
}

// RestPublisher posts {summaryText, sourceUrl} to the configured sink
// and expects {resourceUrl} back.
type RestPublisher struct {
	client   *resty.Client
	endpoint string
	token    string
}

type publishRequest struct {
	SummaryText string `json:"summaryText"`
	SourceURL   string `json:"sourceUrl"`
}

type publishResponse struct {
	ResourceURL string `json:"resourceUrl"`
}

func NewRestPublisher(endpoint, token string, timeout time.Duration) *RestPublisher {
	return &RestPublisher{
		client:   resty.New().SetTimeout(timeout),
		endpoint: endpoint,
		token:    token,
	}
}

func (p *RestPublisher) Publish(ctx context.Context, text, sourceURL string) (string, error) {
	if p.endpoint == "" {
		return "", fmt.Errorf("no publish endpoint configured")
	}

	req := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(publishRequest{SummaryText: text, SourceURL: sourceURL})
	if p.token != "" {
		req.SetHeader("Authorization", "Bearer "+p.token)
	}

	var result publishResponse
	resp, err := req.SetResult(&result).Post(p.endpoint)
	if err != nil {
		return "", fmt.Errorf("publish request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("publish sink returned status %d", resp.StatusCode())
	}
	if result.ResourceURL == "" {
		return "", fmt.Errorf("publish sink returned no resource URL")
	}

	return result.ResourceURL, nil
}

// ShareIntentURL composes a pre-filled share link locally. Used as the
// fallback handle when the publish sink is down, so approval is never
// blocked by a downstream outage.
func ShareIntentURL(text, sourceURL string) string {
	q := url.Values{}
	q.Set("text", text)
	if sourceURL != "" {
		q.Set("url", sourceURL)
	}
	return "https://twitter.com/intent/tweet?" + q.Encode()
}
