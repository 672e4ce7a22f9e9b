package narrative

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/model"
	"github.com/metusa-property/deal-analyzer/internal/resilience"
	"github.com/metusa-property/deal-analyzer/pkg/anthropic"
)

type fakeClient struct {
	calls    int
	lastReq  anthropic.MessageRequest
	response *anthropic.MessageResponse
	errs     []error
}

func (f *fakeClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.calls++
	f.lastReq = req
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.response, nil
}

func sampleResult() *model.DealResult {
	return &model.DealResult{
		DealType: model.DealTypeBTL,
		Address:  "12 Mill Lane",
		Postcode: "SK4 1AA",
		Ratios:   model.Ratios{GrossYield: 6.16, NetYield: 4.56, CashOnCash: 4.74},
		Income: model.IncomeBreakdown{
			MonthlyCashflow: 187.67,
			NetAnnualIncome: 2252,
		},
		CashInvested: 47500,
		Score:        72,
		ScoreLabel:   "Good",
		Verdict:      model.VerdictProceed,
		Risk:         model.RiskAssessment{Overall: model.RiskLow},
	}
}

func fastGenerator(client anthropic.Client) *Generator {
	g := New(client, config.AnthropicConfig{Model: "claude-sonnet-4-5-20250929", MaxTokens: 512})
	g.retry = resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: 1, MaxBackoff: 1}
	return g
}

func TestGenerate(t *testing.T) {
	client := &fakeClient{response: &anthropic.MessageResponse{Text: "  A solid single-let.  "}}
	g := fastGenerator(client)

	got, err := g.Generate(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "A solid single-let.", got)

	assert.Equal(t, "claude-sonnet-4-5-20250929", client.lastReq.Model)
	assert.Equal(t, int64(512), client.lastReq.MaxTokens)
	assert.NotEmpty(t, client.lastReq.System)
	require.Len(t, client.lastReq.Messages, 1)

	prompt := client.lastReq.Messages[0].Content
	assert.Contains(t, prompt, "Gross Yield: 6.16%")
	assert.Contains(t, prompt, "Deal Score: 72/100 (Good)")
	assert.Contains(t, prompt, "Investment Verdict: PROCEED")
	assert.Contains(t, prompt, "No external market data available")
}

func TestGeneratePromptIncludesAreaData(t *testing.T) {
	client := &fakeClient{response: &anthropic.MessageResponse{Text: "ok"}}
	g := fastGenerator(client)

	res := sampleResult()
	res.Area = &model.AreaContext{
		PriceTrend: &model.PriceTrend{Trend: "rising", ChangePercent: 4.2},
		SoldPrices: []model.SoldPrice{
			{Price: 182000, Date: "2026-03-01", Street: "Mill Lane"},
			{Price: 179000, Date: "2026-02-10"},
			{Price: 175500, Date: "2026-01-22"},
			{Price: 171000, Date: "2025-12-02"},
		},
		Transport: &model.TransportSummary{Rating: "Good", Score: 80},
	}

	_, err := g.Generate(context.Background(), res)
	require.NoError(t, err)

	prompt := client.lastReq.Messages[0].Content
	assert.Contains(t, prompt, "Price Trend: rising (4.2% change")
	assert.Contains(t, prompt, "£182000 on 2026-03-01 - Mill Lane")
	assert.NotContains(t, prompt, "171000", "comparable sales cap at three")
	assert.Contains(t, prompt, "Transport Access: Good (80/100)")
}

func TestGenerateRetriesTransientFailures(t *testing.T) {
	client := &fakeClient{
		response: &anthropic.MessageResponse{Text: "recovered"},
		errs:     []error{resilience.NewTransientError(eris.New("overloaded"), 529), nil},
	}
	g := fastGenerator(client)

	got, err := g.Generate(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, 2, client.calls)
}

func TestGenerateNotConfigured(t *testing.T) {
	g := New(nil, config.AnthropicConfig{})
	assert.False(t, g.Configured())

	_, err := g.Generate(context.Background(), sampleResult())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateEmptyResponse(t *testing.T) {
	client := &fakeClient{response: &anthropic.MessageResponse{Text: "   "}}
	g := fastGenerator(client)

	_, err := g.Generate(context.Background(), sampleResult())
	assert.Error(t, err)
}
