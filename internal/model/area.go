package model

// SoldPrice is one Land Registry price-paid record.
type SoldPrice struct {
	Price  int    `json:"price"`
	Date   string `json:"date"`
	Street string `json:"street,omitempty"`
	Town   string `json:"town,omitempty"`
}

// PriceTrend compares recent sales against the prior period for a postcode.
type PriceTrend struct {
	Trend         string  `json:"trend"` // rising, falling, stable, insufficient_data
	ChangePercent float64 `json:"change_percent"`
	RecentAvg     float64 `json:"recent_avg,omitempty"`
	OlderAvg      float64 `json:"older_avg,omitempty"`
	RecentSales   int     `json:"recent_sales"`
	OlderSales    int     `json:"older_sales"`
}

// RentalValuation is a PropertyData rent estimate for a postcode.
type RentalValuation struct {
	EstimateMonthly float64 `json:"estimate_monthly"`
	LowMonthly      float64 `json:"low_monthly"`
	HighMonthly     float64 `json:"high_monthly"`
	Confidence      string  `json:"confidence,omitempty"`
}

// MarketContext summarizes PropertyData area statistics.
type MarketContext struct {
	AveragePrice   float64 `json:"average_price,omitempty"`
	PricePerSqft   float64 `json:"price_per_sqft,omitempty"`
	AverageYield   float64 `json:"average_yield,omitempty"`
	Demand         string  `json:"demand,omitempty"`
	CrimeRating    string  `json:"crime_rating,omitempty"`
	CrimesPerThous float64 `json:"crimes_per_thousand,omitempty"`
}

// Station is a nearby rail/underground stop.
type Station struct {
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance_km"`
	Modes      []string `json:"modes,omitempty"`
	Zone       string  `json:"zone,omitempty"`
}

// TransportSummary scores an address's public transport access.
type TransportSummary struct {
	Stations []Station `json:"stations"`
	Score    int       `json:"score"` // 0-100
	Rating   string    `json:"rating"`
	Source   string    `json:"source"` // tfl or national_rail
}

// AreaContext bundles all third-party market intelligence for a postcode.
// Every field is optional: a failed or slow upstream leaves it nil and the
// evaluation proceeds without it.
type AreaContext struct {
	SoldPrices []SoldPrice       `json:"sold_prices,omitempty"`
	PriceTrend *PriceTrend       `json:"price_trend,omitempty"`
	Rental     *RentalValuation  `json:"rental_valuation,omitempty"`
	Market     *MarketContext    `json:"market,omitempty"`
	Transport  *TransportSummary `json:"transport,omitempty"`
}
