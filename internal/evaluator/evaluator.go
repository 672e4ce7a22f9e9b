package evaluator

import (
	"math"

	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/model"
)

// Evaluator runs the deal analysis under a fixed policy configuration.
type Evaluator struct {
	cfg config.EvaluatorConfig
}

// New creates an Evaluator. The config should already have passed
// ValidateConfig.
func New(cfg config.EvaluatorConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Config returns the policy the evaluator runs with.
func (e *Evaluator) Config() config.EvaluatorConfig {
	return e.cfg
}

// round2 rounds to 2 decimal places for presentation-stable output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Evaluate computes a DealResult from a DealInput. It is deterministic and
// side-effect free: the same input always produces an identical result.
// Validation failures surface as *ValidationError or *MissingFieldError
// before any figure is computed.
func (e *Evaluator) Evaluate(in model.DealInput) (*model.DealResult, error) {
	if err := e.validate(in); err != nil {
		return nil, err
	}

	th := e.cfg.Verdict[string(in.DealType)]

	// Step 1: stamp duty.
	stampDuty := StampDuty(e.cfg.SDLT, in.PurchasePrice, in.SecondProperty)

	// Step 2: purchase costs. Fee overrides fall back to configured defaults.
	legal, valuation, arrangement := e.resolveFees(in.Fees)
	totalPurchaseCosts := in.PurchasePrice + stampDuty + legal + valuation + arrangement

	// Step 3: financing. Interest-only, matching BTL mortgage products.
	depositFraction := in.DepositPercent / 100
	rateFraction := in.InterestRatePercent / 100
	depositAmount := in.PurchasePrice * depositFraction
	loanAmount := in.PurchasePrice - depositAmount
	monthlyMortgage := loanAmount * rateFraction / 12

	// Step 4: income basis. HMO lets by the room; FLIP with no rent carries
	// no letting income at all (resale is the return, not cashflow).
	monthlyRent := in.MonthlyRent
	if in.DealType == model.DealTypeHMO {
		monthlyRent = float64(*in.RoomCount) * *in.RoomRate
	}
	letting := monthlyRent > 0 || in.DealType != model.DealTypeFLIP

	refurb := 0.0
	if in.RefurbCost != nil {
		refurb = *in.RefurbCost
	}

	var income model.IncomeBreakdown
	if letting {
		annualRent := monthlyRent * 12
		ex := e.cfg.Expenses
		expenses := model.OperatingExpenses{
			Management:         annualRent * ex.ManagementRate,
			VoidAllowance:      annualRent * ex.VoidWeeks / 52,
			MaintenanceReserve: annualRent * ex.MaintenanceRate,
			Insurance:          ex.AnnualInsurance,
		}
		expenses.Total = expenses.Management + expenses.VoidAllowance +
			expenses.MaintenanceReserve + expenses.Insurance

		netAnnual := annualRent - expenses.Total - monthlyMortgage*12
		income = model.IncomeBreakdown{
			MonthlyRent:     monthlyRent,
			AnnualRent:      annualRent,
			MonthlyMortgage: round2(monthlyMortgage),
			Expenses:        expenses,
			NetAnnualIncome: netAnnual,
			MonthlyCashflow: netAnnual / 12,
		}
	} else {
		income.MonthlyMortgage = round2(monthlyMortgage)
	}

	// Step 5: ratios. BRR and FLIP value the property at its after-repair
	// value; cash invested always includes the refurbishment.
	valuationBasis := in.PurchasePrice
	if in.DealType.UsesRefurb() && in.AfterRepairValue != nil && *in.AfterRepairValue > 0 {
		valuationBasis = *in.AfterRepairValue
	}

	cashInvested := depositAmount + stampDuty + legal + valuation + arrangement + refurb
	if cashInvested <= 0 {
		return nil, invalid("total_cash_invested", "must be > 0")
	}

	ratios := model.Ratios{
		GrossYield: round2(income.AnnualRent / valuationBasis * 100),
		NetYield:   round2((income.AnnualRent - income.Expenses.Total) / valuationBasis * 100),
		CashOnCash: round2(income.NetAnnualIncome / cashInvested * 100),
	}

	// Strategy metrics.
	var brr *model.BRRMetrics
	var flip *model.FlipMetrics
	switch in.DealType {
	case model.DealTypeBRR:
		brr = e.brrMetrics(in, stampDuty, legal+valuation+arrangement, refurb)
	case model.DealTypeFLIP:
		flip = e.flipMetrics(in, stampDuty, legal+valuation+arrangement, refurb, monthlyMortgage)
	}

	// Step 6: verdict. Downside conditions are evaluated first and
	// short-circuit: an AVOID signal beats any strength elsewhere.
	verdict := decideVerdict(in.DealType, th, ratios, income, letting, brr, flip)

	// Step 7: risk rating per category, overall = max severity.
	risk := e.assessRisk(in, th, ratios, loanAmount, refurb, letting)

	// Supplementary outputs: 0-100 score, narrative bullets, projection.
	score := dealScore(in.DealType, ratios, income.MonthlyCashflow, risk.Overall, brr, flip)

	result := &model.DealResult{
		DealType: in.DealType,
		Address:  in.Address,
		Postcode: in.Postcode,
		Costs: model.CostBreakdown{
			StampDuty:          round2(stampDuty),
			LegalFee:           legal,
			ValuationFee:       valuation,
			ArrangementFee:     arrangement,
			TotalPurchaseCosts: round2(totalPurchaseCosts),
			DepositAmount:      round2(depositAmount),
			LoanAmount:         round2(loanAmount),
		},
		Income: model.IncomeBreakdown{
			MonthlyRent:     income.MonthlyRent,
			AnnualRent:      income.AnnualRent,
			MonthlyMortgage: income.MonthlyMortgage,
			Expenses: model.OperatingExpenses{
				Management:         round2(income.Expenses.Management),
				VoidAllowance:      round2(income.Expenses.VoidAllowance),
				MaintenanceReserve: round2(income.Expenses.MaintenanceReserve),
				Insurance:          round2(income.Expenses.Insurance),
				Total:              round2(income.Expenses.Total),
			},
			NetAnnualIncome: round2(income.NetAnnualIncome),
			MonthlyCashflow: round2(income.MonthlyCashflow),
		},
		Ratios:       ratios,
		CashInvested: round2(cashInvested),
		Verdict:      verdict,
		Risk:         risk,
		BRR:          brr,
		Flip:         flip,
		Score:        score,
		ScoreLabel:   scoreLabel(score),
	}

	result.Strengths, result.Weaknesses = narrativeBullets(th, ratios, income, letting)
	result.NextSteps = nextSteps(verdict)
	result.Projection = e.project(income, in.PurchasePrice, loanAmount, depositAmount)

	return result, nil
}

// resolveFees applies caller overrides on top of the configured defaults.
func (e *Evaluator) resolveFees(f *model.FeeOverrides) (legal, valuation, arrangement float64) {
	legal = e.cfg.Fees.Legal
	valuation = e.cfg.Fees.Valuation
	arrangement = e.cfg.Fees.Arrangement
	if f == nil {
		return
	}
	if f.Legal != nil {
		legal = *f.Legal
	}
	if f.Valuation != nil {
		valuation = *f.Valuation
	}
	if f.Arrangement != nil {
		arrangement = *f.Arrangement
	}
	return
}

func (e *Evaluator) brrMetrics(in model.DealInput, stampDuty, fees, refurb float64) *model.BRRMetrics {
	arv := *in.AfterRepairValue
	totalInvestment := in.PurchasePrice + refurb + stampDuty + fees
	equityCreated := arv - totalInvestment
	refinanceAmount := arv * e.cfg.RefinanceLTV

	roi := 0.0
	if totalInvestment > 0 {
		roi = equityCreated / totalInvestment * 100
	}

	return &model.BRRMetrics{
		TotalInvestment: round2(totalInvestment),
		EquityCreated:   round2(equityCreated),
		RefinanceAmount: round2(refinanceAmount),
		MoneyLeftIn:     round2(totalInvestment - refinanceAmount),
		ROI:             round2(roi),
	}
}

func (e *Evaluator) flipMetrics(in model.DealInput, stampDuty, fees, refurb, monthlyMortgage float64) *model.FlipMetrics {
	arv := *in.AfterRepairValue
	holding := monthlyMortgage * e.cfg.FlipHoldingMonths
	sellingCosts := e.cfg.FlipFixedSaleCosts + arv*e.cfg.FlipAgentRate
	totalCosts := in.PurchasePrice + refurb + stampDuty + fees + holding + sellingCosts
	profit := arv - totalCosts

	roi := 0.0
	if totalCosts > 0 {
		roi = profit / totalCosts * 100
	}

	return &model.FlipMetrics{
		TotalCosts:   round2(totalCosts),
		SellingCosts: round2(sellingCosts),
		Profit:       round2(profit),
		ROI:          round2(roi),
	}
}

// validate rejects malformed input before any arithmetic. Out-of-range
// values error rather than clamp; deal-type-required fields must be present
// rather than defaulted.
func (e *Evaluator) validate(in model.DealInput) error {
	if !in.DealType.Valid() {
		return invalid("deal_type", "must be one of BTL, BRR, HMO, FLIP")
	}

	if !isFinite(in.PurchasePrice) {
		return invalid("purchase_price", "must be a finite number")
	}
	if in.PurchasePrice <= 0 {
		return invalid("purchase_price", "must be > 0")
	}
	if in.PurchasePrice > e.cfg.MaxPurchasePrice {
		return invalid("purchase_price", "exceeds maximum")
	}

	if !isFinite(in.MonthlyRent) || in.MonthlyRent < 0 {
		return invalid("monthly_rent", "must be a finite number >= 0")
	}
	if in.MonthlyRent > e.cfg.MaxMonthlyRent {
		return invalid("monthly_rent", "exceeds maximum")
	}

	if !isFinite(in.DepositPercent) {
		return invalid("deposit_percent", "must be a finite number")
	}
	if in.DepositPercent < e.cfg.MinDepositPercent || in.DepositPercent > e.cfg.MaxDepositPercent {
		return invalid("deposit_percent", "outside allowed range")
	}

	if !isFinite(in.InterestRatePercent) || in.InterestRatePercent <= 0 {
		return invalid("interest_rate_percent", "must be > 0")
	}
	if in.InterestRatePercent > e.cfg.MaxInterestRate {
		return invalid("interest_rate_percent", "exceeds maximum")
	}

	if in.Fees != nil {
		for field, v := range map[string]*float64{
			"fees.legal":       in.Fees.Legal,
			"fees.valuation":   in.Fees.Valuation,
			"fees.arrangement": in.Fees.Arrangement,
		} {
			if v != nil && (!isFinite(*v) || *v < 0) {
				return invalid(field, "must be a finite number >= 0")
			}
		}
	}

	switch in.DealType {
	case model.DealTypeBRR, model.DealTypeFLIP:
		if in.AfterRepairValue == nil {
			return missing("after_repair_value", string(in.DealType))
		}
		if !isFinite(*in.AfterRepairValue) || *in.AfterRepairValue < 0 {
			return invalid("after_repair_value", "must be a finite number >= 0")
		}
		if in.RefurbCost != nil && (!isFinite(*in.RefurbCost) || *in.RefurbCost < 0) {
			return invalid("refurb_cost", "must be a finite number >= 0")
		}
	default:
		if in.RefurbCost != nil {
			return invalid("refurb_cost", "only valid for BRR and FLIP deals")
		}
		if in.AfterRepairValue != nil {
			return invalid("after_repair_value", "only valid for BRR and FLIP deals")
		}
	}

	if in.DealType == model.DealTypeHMO {
		if in.RoomCount == nil {
			return missing("room_count", string(in.DealType))
		}
		if in.RoomRate == nil {
			return missing("room_rate", string(in.DealType))
		}
		if *in.RoomCount <= 0 {
			return invalid("room_count", "must be > 0")
		}
		if !isFinite(*in.RoomRate) || *in.RoomRate <= 0 {
			return invalid("room_rate", "must be > 0")
		}
	} else if in.RoomCount != nil || in.RoomRate != nil {
		return invalid("room_count", "only valid for HMO deals")
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
