// Package narrative turns a computed evaluation into analyst prose using the
// Anthropic API. The model never does arithmetic: every number in the prompt
// comes from the evaluator, and the response is commentary only.
package narrative

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/model"
	"github.com/metusa-property/deal-analyzer/internal/resilience"
	"github.com/metusa-property/deal-analyzer/pkg/anthropic"
)

const systemPrompt = "You are a UK property investment analyst writing for " +
	"experienced buy-to-let investors. Be direct and specific. Never invent " +
	"figures: every number you cite must come from the metrics provided."

// ErrNotConfigured is returned when no API key was supplied.
var ErrNotConfigured = eris.New("narrative: anthropic api key not configured")

// Generator produces deal commentary.
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	retry     resilience.RetryConfig
}

// New creates a Generator. A nil client (no API key) yields a generator whose
// Generate returns ErrNotConfigured.
func New(client anthropic.Client, cfg config.AnthropicConfig) *Generator {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Generator{
		client:    client,
		model:     cfg.Model,
		maxTokens: maxTokens,
		retry:     resilience.DefaultRetryConfig(),
	}
}

// Configured reports whether narrative generation is available.
func (g *Generator) Configured() bool {
	return g.client != nil
}

// Generate writes commentary for a completed evaluation.
func (g *Generator) Generate(ctx context.Context, res *model.DealResult) (string, error) {
	if g.client == nil {
		return "", ErrNotConfigured
	}
	if res == nil {
		return "", eris.New("narrative: nil result")
	}

	req := anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(res)},
		},
	}

	resp, err := resilience.DoVal(ctx, g.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return g.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return "", eris.Wrap(err, "narrative: generate")
	}

	resp.Usage.LogCost(g.model)
	if resp.StopReason == "max_tokens" {
		zap.L().Warn("narrative truncated at max tokens", zap.String("model", g.model))
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", eris.New("narrative: empty response")
	}
	return text, nil
}
