package evaluator

import (
	"fmt"

	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/model"
)

// dealScore condenses the evaluation into a 0-100 score. It starts at a
// neutral 50 and moves with yield (25pt), cashflow (25pt), cash-on-cash
// (25pt), a strategy-specific factor (15pt) and the overall risk rating
// (10pt). The score is advisory; it never feeds back into the verdict.
func dealScore(dt model.DealType, ratios model.Ratios, monthlyCashflow float64,
	risk model.RiskRating, brr *model.BRRMetrics, flip *model.FlipMetrics) int {

	score := 50

	if dt == model.DealTypeHMO {
		switch {
		case ratios.GrossYield >= 12:
			score += 25
		case ratios.GrossYield >= 10:
			score += 20
		case ratios.GrossYield >= 8:
			score += 15
		case ratios.GrossYield >= 6:
			score += 10
		default:
			score -= 10
		}
	} else {
		switch {
		case ratios.GrossYield >= 8:
			score += 25
		case ratios.GrossYield >= 6:
			score += 20
		case ratios.GrossYield >= 5:
			score += 15
		case ratios.GrossYield >= 4:
			score += 10
		default:
			score -= 10
		}
	}

	switch {
	case monthlyCashflow >= 300:
		score += 25
	case monthlyCashflow >= 200:
		score += 20
	case monthlyCashflow >= 100:
		score += 15
	case monthlyCashflow >= 50:
		score += 10
	case monthlyCashflow >= 0:
		score += 5
	default:
		score -= 15
	}

	switch {
	case ratios.CashOnCash >= 12:
		score += 25
	case ratios.CashOnCash >= 8:
		score += 20
	case ratios.CashOnCash >= 6:
		score += 15
	case ratios.CashOnCash >= 4:
		score += 10
	default:
		score -= 10
	}

	switch {
	case dt == model.DealTypeBRR && brr != nil:
		score += roiPoints(brr.ROI)
	case dt == model.DealTypeFLIP && flip != nil:
		score += roiPoints(flip.ROI)
	default:
		// BTL/HMO: net yield carries the strategy factor.
		switch {
		case ratios.NetYield >= 5:
			score += 15
		case ratios.NetYield >= 4:
			score += 12
		case ratios.NetYield >= 3:
			score += 8
		case ratios.NetYield >= 2:
			score += 4
		}
	}

	switch risk {
	case model.RiskLow:
		score += 10
	case model.RiskMedium:
		score += 5
	default:
		score -= 5
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func roiPoints(roi float64) int {
	switch {
	case roi >= 25:
		return 15
	case roi >= 20:
		return 12
	case roi >= 15:
		return 8
	case roi >= 10:
		return 4
	}
	return 0
}

func scoreLabel(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 65:
		return "Good"
	case score >= 50:
		return "Fair"
	case score >= 35:
		return "Weak"
	default:
		return "Poor"
	}
}

// Narrative targets. These feed the strengths/weaknesses prose only, not
// the verdict, so they stay fixed rather than configurable.
const (
	cashflowTarget   = 200.0
	cashOnCashTarget = 8.0
)

// narrativeBullets produces the plain-English strengths and weaknesses for
// the report. Letting bullets are skipped for resale-only deals.
func narrativeBullets(th config.VerdictThresholds, ratios model.Ratios,
	income model.IncomeBreakdown, letting bool) (strengths, weaknesses []string) {

	strengths = []string{}
	weaknesses = []string{}

	if letting && th.HighYield > 0 {
		if ratios.GrossYield >= th.HighYield {
			strengths = append(strengths, fmt.Sprintf(
				"Strong gross yield of %.2f%% exceeds %.0f%% target", ratios.GrossYield, th.HighYield))
		} else {
			weaknesses = append(weaknesses, fmt.Sprintf(
				"Gross yield of %.2f%% is below %.0f%% target", ratios.GrossYield, th.HighYield))
		}
	}

	if letting {
		if income.MonthlyCashflow >= cashflowTarget {
			strengths = append(strengths, fmt.Sprintf(
				"Healthy monthly cashflow of £%.0f provides good buffer", income.MonthlyCashflow))
		} else {
			weaknesses = append(weaknesses, fmt.Sprintf(
				"Monthly cashflow of £%.0f is below £%.0f target", income.MonthlyCashflow, cashflowTarget))
		}

		if ratios.CashOnCash >= cashOnCashTarget {
			strengths = append(strengths, fmt.Sprintf(
				"Cash-on-cash return of %.2f%% meets investment criteria", ratios.CashOnCash))
		} else {
			weaknesses = append(weaknesses, fmt.Sprintf(
				"Cash-on-cash return of %.2f%% is below %.0f%% target", ratios.CashOnCash, cashOnCashTarget))
		}
	}

	return strengths, weaknesses
}

// nextSteps maps the verdict onto the recommended follow-up checklist.
func nextSteps(v model.Verdict) []string {
	if v == model.VerdictProceed {
		return []string{
			"Verify rental comparables in the area",
			"Get RICS survey (£400-600)",
			"Confirm mortgage availability",
			"Instruct solicitor for preliminary checks",
			"Arrange property viewing",
		}
	}
	return []string{
		"Review comparable sales in area",
		"Investigate why yield/cashflow is below target",
		"Consider negotiating purchase price",
		"Explore alternative strategies (HMO, BRR)",
		"Get professional opinion on achievable rent",
	}
}
