package evaluator

import (
	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/model"
)

// assessRisk rates the four risk categories independently and aggregates
// them by maximum severity. Each category looks at a different axis of the
// deal, so a LOW finance rating never dilutes a HIGH refurb rating.
func (e *Evaluator) assessRisk(in model.DealInput, th config.VerdictThresholds,
	ratios model.Ratios, loanAmount, refurb float64, letting bool) model.RiskAssessment {

	r := e.cfg.Risk

	// Finance: leverage and rate exposure.
	ltv := loanAmount / in.PurchasePrice
	finance := model.RiskLow
	switch {
	case ltv > r.FinanceLTVHigh || in.InterestRatePercent >= r.FinanceStressRate:
		finance = model.RiskHigh
	case ltv > r.FinanceLTVMedium || in.InterestRatePercent >= r.FinanceMediumRate:
		finance = model.RiskMedium
	}

	// Refurbishment: cost overrun exposure scales with the budget relative
	// to the purchase price.
	refurbRisk := model.RiskLow
	switch {
	case in.PurchasePrice > 0 && refurb/in.PurchasePrice > r.RefurbHighFraction:
		refurbRisk = model.RiskHigh
	case in.DealType.UsesRefurb() && refurb > 0:
		refurbRisk = model.RiskMedium
	}

	// Tenant demand: a thin yield means the rent leaves no room for voids.
	// HMOs never rate below MEDIUM; room-by-room letting churns harder.
	tenant := model.RiskLow
	if letting {
		switch {
		case ratios.GrossYield >= th.HighYield:
			tenant = model.RiskLow
		case ratios.GrossYield >= th.MinViableYield:
			tenant = model.RiskMedium
		default:
			tenant = model.RiskHigh
		}
	}
	if in.DealType == model.DealTypeHMO && tenant == model.RiskLow {
		tenant = model.RiskMedium
	}

	// Market: the buyer pool and resale liquidity thin out at the top end.
	market := model.RiskLow
	switch {
	case in.PurchasePrice >= r.MarketHighPrice:
		market = model.RiskHigh
	case in.PurchasePrice >= r.MarketMediumPrice || in.DealType == model.DealTypeFLIP:
		market = model.RiskMedium
	}

	return model.RiskAssessment{
		Market:       market,
		TenantDemand: tenant,
		Refurb:       refurbRisk,
		Finance:      finance,
		Overall:      model.MaxRisk(market, tenant, refurbRisk, finance),
	}
}
