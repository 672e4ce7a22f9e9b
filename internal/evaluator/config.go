// Package evaluator implements the deterministic deal-evaluation engine:
// stamp duty, financing, income, return ratios, verdict, risk rating, deal
// score and the five-year projection. Evaluation is a pure function of its
// input and policy configuration; it performs no I/O and is safe to call
// concurrently.
package evaluator

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/model"
)

// DefaultConfig returns the evaluator policy defaults: the 2024/25 England &
// NI SDLT schedule with the 5% additional-property surcharge, standard BTL
// purchase fees, and the verdict/risk thresholds the business runs with.
func DefaultConfig() config.EvaluatorConfig {
	return config.EvaluatorConfig{
		SDLT: config.SDLTConfig{
			Bands: []config.SDLTBand{
				{UpperBound: 125_000, Rate: 0},
				{UpperBound: 250_000, Rate: 0.02},
				{UpperBound: 925_000, Rate: 0.05},
				{UpperBound: 1_500_000, Rate: 0.10},
				{UpperBound: 0, Rate: 0.12},
			},
			// Stated as 3% in older marketing copy; the current schedule
			// is 5%, so that is the default. Override in config.yaml if
			// the rate moves again.
			SurchargeRate: 0.05,
		},
		Fees: config.FeesConfig{
			Legal:       1500,
			Valuation:   500,
			Arrangement: 1995,
		},
		Expenses: config.ExpensesConfig{
			ManagementRate:  0.10,
			VoidWeeks:       2,
			MaintenanceRate: 0.08,
			AnnualInsurance: 480,
		},

		MinDepositPercent: 20,
		MaxDepositPercent: 40,
		MaxInterestRate:   20,
		MaxPurchasePrice:  50_000_000,
		MaxMonthlyRent:    100_000,

		Verdict: map[string]config.VerdictThresholds{
			string(model.DealTypeBTL): {
				HighYield:      6,
				MinViableYield: 5,
				MinReturn:      4,
			},
			string(model.DealTypeHMO): {
				HighYield:      10,
				MinViableYield: 8,
				MinReturn:      4,
			},
			string(model.DealTypeBRR): {
				HighYield:      6,
				MinViableYield: 5,
				MinReturn:      4,
				ProceedROI:     20,
				ReviewROI:      15,
			},
			string(model.DealTypeFLIP): {
				ProceedROI: 20,
				ReviewROI:  15,
				MinProfit:  20_000,
			},
		},

		Risk: config.RiskConfig{
			FinanceLTVHigh:     0.80,
			FinanceLTVMedium:   0.75,
			FinanceStressRate:  6.5,
			FinanceMediumRate:  5.0,
			RefurbHighFraction: 0.15,
			MarketHighPrice:    1_500_000,
			MarketMediumPrice:  750_000,
		},

		Projection: config.ProjectionConfig{
			RentGrowthRate:    0.03,
			CapitalGrowthRate: 0.04,
			Years:             5,
		},

		RefinanceLTV:       0.75,
		FlipHoldingMonths:  6,
		FlipAgentRate:      0.015,
		FlipFixedSaleCosts: 1000,
	}
}

// ValidateConfig checks that an evaluator policy is internally consistent.
func ValidateConfig(c config.EvaluatorConfig) error {
	var errs []string

	if len(c.SDLT.Bands) == 0 {
		errs = append(errs, "sdlt.bands must not be empty")
	}
	prev := 0.0
	for i, b := range c.SDLT.Bands {
		if b.Rate < 0 || b.Rate > 1 {
			errs = append(errs, fmt.Sprintf("sdlt.bands[%d].rate must be in [0,1]", i))
		}
		last := i == len(c.SDLT.Bands)-1
		if !last {
			if b.UpperBound <= prev {
				errs = append(errs, fmt.Sprintf("sdlt.bands[%d].upper_bound must be ascending", i))
			}
			prev = b.UpperBound
		} else if b.UpperBound != 0 {
			errs = append(errs, "sdlt.bands: final band must be unbounded (upper_bound 0)")
		}
	}
	if c.SDLT.SurchargeRate < 0 || c.SDLT.SurchargeRate > 1 {
		errs = append(errs, "sdlt.surcharge_rate must be in [0,1]")
	}

	if c.Fees.Legal < 0 || c.Fees.Valuation < 0 || c.Fees.Arrangement < 0 {
		errs = append(errs, "fees must be >= 0")
	}

	if c.Expenses.ManagementRate < 0 || c.Expenses.ManagementRate > 1 {
		errs = append(errs, "expenses.management_rate must be in [0,1]")
	}
	if c.Expenses.VoidWeeks < 0 || c.Expenses.VoidWeeks > 52 {
		errs = append(errs, "expenses.void_weeks must be in [0,52]")
	}
	if c.Expenses.MaintenanceRate < 0 || c.Expenses.MaintenanceRate > 1 {
		errs = append(errs, "expenses.maintenance_rate must be in [0,1]")
	}
	if c.Expenses.AnnualInsurance < 0 {
		errs = append(errs, "expenses.annual_insurance must be >= 0")
	}

	if c.MinDepositPercent <= 0 || c.MaxDepositPercent <= c.MinDepositPercent {
		errs = append(errs, "deposit bounds must satisfy 0 < min < max")
	}
	if c.MaxInterestRate <= 0 {
		errs = append(errs, "max_interest_rate must be > 0")
	}

	for _, dt := range []model.DealType{model.DealTypeBTL, model.DealTypeBRR, model.DealTypeHMO, model.DealTypeFLIP} {
		if _, ok := c.Verdict[string(dt)]; !ok {
			errs = append(errs, fmt.Sprintf("verdict thresholds missing for %s", dt))
		}
	}

	if c.RefinanceLTV <= 0 || c.RefinanceLTV >= 1 {
		errs = append(errs, "refinance_ltv must be in (0,1)")
	}
	if c.Projection.Years <= 0 {
		errs = append(errs, "projection.years must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("evaluator: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// MergeConfig overlays non-zero policy overrides from file/env config onto
// the defaults, so a config.yaml only needs to name the values it changes.
func MergeConfig(base, override config.EvaluatorConfig) config.EvaluatorConfig {
	out := base

	if len(override.SDLT.Bands) > 0 {
		out.SDLT.Bands = override.SDLT.Bands
	}
	if override.SDLT.SurchargeRate > 0 {
		out.SDLT.SurchargeRate = override.SDLT.SurchargeRate
	}
	if override.Fees.Legal > 0 {
		out.Fees.Legal = override.Fees.Legal
	}
	if override.Fees.Valuation > 0 {
		out.Fees.Valuation = override.Fees.Valuation
	}
	if override.Fees.Arrangement > 0 {
		out.Fees.Arrangement = override.Fees.Arrangement
	}
	if override.Expenses.ManagementRate > 0 {
		out.Expenses.ManagementRate = override.Expenses.ManagementRate
	}
	if override.Expenses.VoidWeeks > 0 {
		out.Expenses.VoidWeeks = override.Expenses.VoidWeeks
	}
	if override.Expenses.MaintenanceRate > 0 {
		out.Expenses.MaintenanceRate = override.Expenses.MaintenanceRate
	}
	if override.Expenses.AnnualInsurance > 0 {
		out.Expenses.AnnualInsurance = override.Expenses.AnnualInsurance
	}
	if override.MinDepositPercent > 0 {
		out.MinDepositPercent = override.MinDepositPercent
	}
	if override.MaxDepositPercent > 0 {
		out.MaxDepositPercent = override.MaxDepositPercent
	}
	if override.MaxInterestRate > 0 {
		out.MaxInterestRate = override.MaxInterestRate
	}
	if override.MaxPurchasePrice > 0 {
		out.MaxPurchasePrice = override.MaxPurchasePrice
	}
	if override.MaxMonthlyRent > 0 {
		out.MaxMonthlyRent = override.MaxMonthlyRent
	}
	merged := make(map[string]config.VerdictThresholds, len(base.Verdict))
	for k, v := range base.Verdict {
		merged[k] = v
	}
	for k, v := range override.Verdict {
		merged[k] = v
	}
	out.Verdict = merged
	if override.Risk != (config.RiskConfig{}) {
		out.Risk = override.Risk
	}
	if override.Projection.Years > 0 {
		out.Projection = override.Projection
	}
	if override.RefinanceLTV > 0 {
		out.RefinanceLTV = override.RefinanceLTV
	}
	if override.FlipHoldingMonths > 0 {
		out.FlipHoldingMonths = override.FlipHoldingMonths
	}
	if override.FlipAgentRate > 0 {
		out.FlipAgentRate = override.FlipAgentRate
	}
	if override.FlipFixedSaleCosts > 0 {
		out.FlipFixedSaleCosts = override.FlipFixedSaleCosts
	}

	return out
}
