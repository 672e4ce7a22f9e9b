package model

// DealType identifies the investment strategy being analyzed.
type DealType string

const (
	DealTypeBTL  DealType = "BTL"  // buy-to-let
	DealTypeBRR  DealType = "BRR"  // buy-refurbish-refinance
	DealTypeHMO  DealType = "HMO"  // house of multiple occupation
	DealTypeFLIP DealType = "FLIP" // buy-renovate-resell
)

// Valid reports whether the deal type is one of the supported strategies.
func (d DealType) Valid() bool {
	switch d {
	case DealTypeBTL, DealTypeBRR, DealTypeHMO, DealTypeFLIP:
		return true
	}
	return false
}

// UsesRefurb reports whether the strategy carries refurbishment fields.
func (d DealType) UsesRefurb() bool {
	return d == DealTypeBRR || d == DealTypeFLIP
}

// FeeOverrides optionally replaces the configured purchase fee defaults.
// Nil fields fall back to configuration.
type FeeOverrides struct {
	Legal       *float64 `json:"legal,omitempty"`
	Valuation   *float64 `json:"valuation,omitempty"`
	Arrangement *float64 `json:"arrangement,omitempty"`
}

// DealInput is a validated evaluation request. Optional fields are pointers
// so that "absent" is distinguishable from an explicit zero: the evaluator
// rejects absent deal-type-required fields instead of substituting defaults.
type DealInput struct {
	DealType            DealType `json:"deal_type"`
	PurchasePrice       float64  `json:"purchase_price"`
	MonthlyRent         float64  `json:"monthly_rent"`
	DepositPercent      float64  `json:"deposit_percent"`
	InterestRatePercent float64  `json:"interest_rate_percent"`
	SecondProperty      bool     `json:"is_second_property"`

	// BRR / FLIP only.
	RefurbCost       *float64 `json:"refurb_cost,omitempty"`
	AfterRepairValue *float64 `json:"after_repair_value,omitempty"`

	// HMO only.
	RoomCount *int     `json:"room_count,omitempty"`
	RoomRate  *float64 `json:"room_rate,omitempty"`

	Fees *FeeOverrides `json:"fees,omitempty"`

	Address  string `json:"address,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}
