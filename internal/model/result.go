package model

// Verdict is the headline recommendation for a deal.
type Verdict string

const (
	VerdictProceed Verdict = "PROCEED"
	VerdictReview  Verdict = "REVIEW"
	VerdictAvoid   Verdict = "AVOID"
)

// RiskRating is a qualitative severity for a single risk category.
type RiskRating string

const (
	RiskLow    RiskRating = "LOW"
	RiskMedium RiskRating = "MEDIUM"
	RiskHigh   RiskRating = "HIGH"
)

// Severity maps a rating onto an ordinal scale for max-severity aggregation.
func (r RiskRating) Severity() int {
	switch r {
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// MaxRisk returns the most severe of the given ratings.
func MaxRisk(ratings ...RiskRating) RiskRating {
	worst := RiskLow
	for _, r := range ratings {
		if r.Severity() > worst.Severity() {
			worst = r
		}
	}
	return worst
}

// RiskAssessment holds the per-category ratings and their max-severity overall.
type RiskAssessment struct {
	Market       RiskRating `json:"market"`
	TenantDemand RiskRating `json:"tenant_demand"`
	Refurb       RiskRating `json:"refurb"`
	Finance      RiskRating `json:"finance"`
	Overall      RiskRating `json:"overall"`
}

// CostBreakdown covers the acquisition side of the deal.
type CostBreakdown struct {
	StampDuty          float64 `json:"stamp_duty"`
	LegalFee           float64 `json:"legal_fee"`
	ValuationFee       float64 `json:"valuation_fee"`
	ArrangementFee     float64 `json:"arrangement_fee"`
	TotalPurchaseCosts float64 `json:"total_purchase_costs"`
	DepositAmount      float64 `json:"deposit_amount"`
	LoanAmount         float64 `json:"loan_amount"`
}

// OperatingExpenses itemizes annual letting costs, excluding mortgage interest.
type OperatingExpenses struct {
	Management         float64 `json:"management"`
	VoidAllowance      float64 `json:"void_allowance"`
	MaintenanceReserve float64 `json:"maintenance_reserve"`
	Insurance          float64 `json:"insurance"`
	Total              float64 `json:"total"`
}

// IncomeBreakdown covers the letting side of the deal.
type IncomeBreakdown struct {
	MonthlyRent     float64           `json:"monthly_rent"`
	AnnualRent      float64           `json:"annual_rent"`
	MonthlyMortgage float64           `json:"monthly_mortgage"`
	Expenses        OperatingExpenses `json:"expenses"`
	NetAnnualIncome float64           `json:"net_annual_income"`
	MonthlyCashflow float64           `json:"monthly_cashflow"`
}

// Ratios holds the headline return metrics, in percent.
type Ratios struct {
	GrossYield float64 `json:"gross_yield"`
	NetYield   float64 `json:"net_yield"`
	CashOnCash float64 `json:"cash_on_cash"`
}

// BRRMetrics holds buy-refurbish-refinance strategy outcomes.
type BRRMetrics struct {
	TotalInvestment float64 `json:"total_investment"`
	EquityCreated   float64 `json:"equity_created"`
	RefinanceAmount float64 `json:"refinance_amount"`
	MoneyLeftIn     float64 `json:"money_left_in"`
	ROI             float64 `json:"roi"`
}

// FlipMetrics holds buy-renovate-resell strategy outcomes.
type FlipMetrics struct {
	TotalCosts   float64 `json:"total_costs"`
	SellingCosts float64 `json:"selling_costs"`
	Profit       float64 `json:"profit"`
	ROI          float64 `json:"roi"`
}

// ProjectionYear is one row of the five-year outlook.
type ProjectionYear struct {
	Year               int     `json:"year"`
	AnnualRent         float64 `json:"annual_rent"`
	AnnualNet          float64 `json:"annual_net"`
	CumulativeCashflow float64 `json:"cumulative_cashflow"`
	PropertyValue      float64 `json:"property_value"`
	Equity             float64 `json:"equity"`
	TotalReturn        float64 `json:"total_return"`
}

// DealResult is the immutable output of one evaluation. It is computed once,
// synchronously, and handed to renderers without further mutation; it is
// never persisted.
type DealResult struct {
	DealType DealType `json:"deal_type"`
	Address  string   `json:"address,omitempty"`
	Postcode string   `json:"postcode,omitempty"`

	Costs  CostBreakdown   `json:"costs"`
	Income IncomeBreakdown `json:"income"`
	Ratios Ratios          `json:"ratios"`

	// CashInvested is the denominator of cash-on-cash: deposit + stamp duty
	// + fees + refurbishment.
	CashInvested float64 `json:"cash_invested"`

	Verdict Verdict        `json:"verdict"`
	Risk    RiskAssessment `json:"risk"`

	BRR  *BRRMetrics  `json:"brr_metrics,omitempty"`
	Flip *FlipMetrics `json:"flip_metrics,omitempty"`

	Score      int    `json:"deal_score"`
	ScoreLabel string `json:"deal_score_label"`

	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	NextSteps  []string `json:"next_steps"`

	Projection []ProjectionYear `json:"five_year_projection"`

	// Narrative is prose attached by the external text-generation
	// collaborator; the evaluator never populates it.
	Narrative string `json:"ai_narrative,omitempty"`

	// Area is market/transport context attached by the caller. It augments
	// the report and never gates the verdict.
	Area *AreaContext `json:"area,omitempty"`
}
