package evaluator

import (
	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/model"
)

// decideVerdict classifies a deal as PROCEED, REVIEW or AVOID against the
// per-deal-type thresholds. Downside conditions short-circuit: negative
// cashflow or a gross yield below the viability floor is AVOID no matter how
// strong any other metric looks.
func decideVerdict(dt model.DealType, th config.VerdictThresholds, ratios model.Ratios,
	income model.IncomeBreakdown, letting bool, brr *model.BRRMetrics, flip *model.FlipMetrics) model.Verdict {

	switch dt {
	case model.DealTypeFLIP:
		switch {
		case flip.Profit < 0 || flip.ROI < th.ReviewROI:
			return model.VerdictAvoid
		case flip.ROI >= th.ProceedROI && flip.Profit >= th.MinProfit:
			return model.VerdictProceed
		default:
			return model.VerdictReview
		}

	case model.DealTypeBRR:
		switch {
		case income.MonthlyCashflow < 0,
			ratios.GrossYield < th.MinViableYield,
			brr.ROI < th.ReviewROI:
			return model.VerdictAvoid
		case brr.ROI >= th.ProceedROI && income.MonthlyCashflow > 0:
			return model.VerdictProceed
		default:
			return model.VerdictReview
		}

	default: // BTL, HMO
		switch {
		case letting && income.MonthlyCashflow < 0,
			ratios.GrossYield < th.MinViableYield:
			return model.VerdictAvoid
		case ratios.GrossYield >= th.HighYield &&
			income.MonthlyCashflow > 0 &&
			ratios.CashOnCash >= th.MinReturn:
			return model.VerdictProceed
		default:
			return model.VerdictReview
		}
	}
}
