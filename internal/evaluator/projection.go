package evaluator

import (
	"math"

	"github.com/metusa-property/deal-analyzer/internal/model"
)

// project builds the multi-year outlook: rent and property value compound
// at the configured growth rates, operating margin holds steady, and the
// loan stays interest-only at its original balance. Figures round to whole
// pounds; forecast pennies are noise.
func (e *Evaluator) project(income model.IncomeBreakdown, purchasePrice, loanAmount, depositAmount float64) []model.ProjectionYear {
	p := e.cfg.Projection

	margin := 0.0
	if income.AnnualRent > 0 {
		margin = income.NetAnnualIncome / income.AnnualRent
	}

	rows := make([]model.ProjectionYear, 0, p.Years)
	rent := income.AnnualRent
	value := purchasePrice
	cumulative := 0.0

	for year := 1; year <= p.Years; year++ {
		rent *= 1 + p.RentGrowthRate
		value *= 1 + p.CapitalGrowthRate

		net := rent * margin
		cumulative += net
		equity := value - loanAmount

		rows = append(rows, model.ProjectionYear{
			Year:               year,
			AnnualRent:         math.Round(rent),
			AnnualNet:          math.Round(net),
			CumulativeCashflow: math.Round(cumulative),
			PropertyValue:      math.Round(value),
			Equity:             math.Round(equity),
			TotalReturn:        math.Round(cumulative + equity - depositAmount),
		})
	}

	return rows
}
