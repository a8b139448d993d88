// Package commentary generates natural-language analysis of portfolio
// results through the Gemini generateContent API.
package commentary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
	"github.com/vishal13230/BellCurve-Securities/pkg/config"
	xhttp "github.com/vishal13230/BellCurve-Securities/pkg/http"
)

// Client calls a Gemini-compatible endpoint. It satisfies
// service.Commentator.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	client  *xhttp.Client
}

// NewClient builds the commentary client from config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Commentary.BaseURL, "/"),
		model:   cfg.Commentary.Model,
		apiKey:  cfg.Commentary.APIKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Commentary.Timeout)),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// Commentary sends the request's context block and prompt to the model and
// returns the generated text.
func (c *Client) Commentary(ctx context.Context, req *models.CommentaryRequest) (models.Commentary, error) {
	if c.apiKey == "" {
		return models.Commentary{}, fmt.Errorf("commentary: api key not configured")
	}

	prompt := req.Prompt
	if len(req.Context) > 0 {
		if block, err := json.MarshalIndent(req.Context, "", "  "); err == nil {
			prompt = string(block) + "\n\n---\n\n" + req.Prompt
		}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	var resp generateResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    endpoint,
		Body: generateRequest{
			Contents: []content{{Parts: []part{{Text: prompt}}}},
		},
	}, &resp)
	if err != nil {
		return models.Commentary{}, fmt.Errorf("commentary: %w", err)
	}

	text := extractText(&resp)
	if text == "" {
		reason := "empty response"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			reason = resp.Candidates[0].FinishReason
		}
		return models.Commentary{}, fmt.Errorf("commentary: no text generated (%s)", reason)
	}

	return models.Commentary{Text: text, Model: c.model}, nil
}

func extractText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}
