// Package nlparse turns free-form what-if requests into structured scenario
// modifications using the Gemini API. The decoded output is untrusted and is
// re-validated by the scenario engine before any solve runs.
package nlparse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"siteopt/internal/application/scenario"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
)

const (
	defaultModel             = "gemini-2.5-flash"
	defaultTimeout           = 60 * time.Second
	defaultRequestsPerMinute = 10
)

// GeminiParser implements scenario.Parser against the Gemini generation API.
type GeminiParser struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGeminiParser creates a parser. Zero-valued options fall back to the
// defaults: gemini-2.5-flash, 60s per request, 10 requests per minute.
func NewGeminiParser(ctx context.Context, apiKey, model string, requestsPerMinute int, timeout time.Duration) (*GeminiParser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRequestsPerMinute
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiParser{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
		timeout: timeout,
	}, nil
}

// Parse sends the request with the baseline context and decodes the JSON
// response into a ParsedScenario.
func (p *GeminiParser) Parse(ctx context.Context, text string, baseline *planning.SolutionRecord, ds *dataset.Dataset) (*scenario.ParsedScenario, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty scenario request")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(buildPrompt(text, baseline, ds)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("scenario parse request failed: %w", err)
	}

	parsed, err := decodeScenario(resp.Text())
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

var _ scenario.Parser = (*GeminiParser)(nil)
