package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/model"
)

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))
}

func TestValidateConfigRejectsBadPolicies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.EvaluatorConfig)
	}{
		{"no bands", func(c *config.EvaluatorConfig) { c.SDLT.Bands = nil }},
		{"bands out of order", func(c *config.EvaluatorConfig) {
			c.SDLT.Bands = []config.SDLTBand{
				{UpperBound: 250_000, Rate: 0.02},
				{UpperBound: 125_000, Rate: 0},
				{UpperBound: 0, Rate: 0.12},
			}
		}},
		{"final band bounded", func(c *config.EvaluatorConfig) {
			c.SDLT.Bands = []config.SDLTBand{
				{UpperBound: 125_000, Rate: 0},
				{UpperBound: 925_000, Rate: 0.05},
			}
		}},
		{"rate above 100%", func(c *config.EvaluatorConfig) { c.SDLT.Bands[1].Rate = 1.5 }},
		{"surcharge negative", func(c *config.EvaluatorConfig) { c.SDLT.SurchargeRate = -0.05 }},
		{"negative fee", func(c *config.EvaluatorConfig) { c.Fees.Legal = -1 }},
		{"inverted deposit bounds", func(c *config.EvaluatorConfig) {
			c.MinDepositPercent = 40
			c.MaxDepositPercent = 20
		}},
		{"missing verdict thresholds", func(c *config.EvaluatorConfig) {
			delete(c.Verdict, string(model.DealTypeHMO))
		}},
		{"refinance ltv at 1", func(c *config.EvaluatorConfig) { c.RefinanceLTV = 1 }},
		{"zero projection years", func(c *config.EvaluatorConfig) { c.Projection.Years = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestMergeConfig(t *testing.T) {
	base := DefaultConfig()

	override := config.EvaluatorConfig{
		SDLT: config.SDLTConfig{SurchargeRate: 0.03},
		Fees: config.FeesConfig{Legal: 1200},
		Verdict: map[string]config.VerdictThresholds{
			string(model.DealTypeBTL): {HighYield: 7, MinViableYield: 5.5, MinReturn: 5},
		},
	}

	merged := MergeConfig(base, override)

	assert.InDelta(t, 0.03, merged.SDLT.SurchargeRate, 0.0001)
	assert.InDelta(t, 1200, merged.Fees.Legal, 0.01)
	assert.InDelta(t, 500, merged.Fees.Valuation, 0.01) // untouched default

	// Overridden deal type replaced, the rest preserved.
	assert.InDelta(t, 7, merged.Verdict[string(model.DealTypeBTL)].HighYield, 0.01)
	assert.InDelta(t, 10, merged.Verdict[string(model.DealTypeHMO)].HighYield, 0.01)

	// The merge never mutates the base policy.
	assert.InDelta(t, 0.05, base.SDLT.SurchargeRate, 0.0001)
	assert.InDelta(t, 6, base.Verdict[string(model.DealTypeBTL)].HighYield, 0.01)

	require.NoError(t, ValidateConfig(merged))
}

func TestMergeConfigEmptyOverrideIsIdentity(t *testing.T) {
	base := DefaultConfig()
	merged := MergeConfig(base, config.EvaluatorConfig{})

	assert.Equal(t, base.SDLT, merged.SDLT)
	assert.Equal(t, base.Fees, merged.Fees)
	assert.Equal(t, base.Expenses, merged.Expenses)
	assert.Equal(t, base.Verdict, merged.Verdict)
	assert.Equal(t, base.Risk, merged.Risk)
	assert.Equal(t, base.Projection, merged.Projection)
}
