// Package propertydata wraps the PropertyData.co.uk API for rental
// valuations and area market intelligence. All endpoints are keyed GETs
// that answer a JSON envelope with a status field.
package propertydata

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/metusa-property/deal-analyzer/internal/model"
)

// JSONGetter is the transport dependency, satisfied by fetcher.HTTPFetcher.
type JSONGetter interface {
	GetJSON(ctx context.Context, rawURL string, query url.Values, headers map[string]string, out any) error
}

// Client talks to the PropertyData API.
type Client struct {
	baseURL string
	key     string
	getter  JSONGetter
}

// New creates a PropertyData client. An empty key produces a client whose
// calls fail with ErrNotConfigured, which the area aggregator treats as
// "source unavailable" rather than an upstream fault.
func New(baseURL, key string, getter JSONGetter) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		getter:  getter,
	}
}

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = eris.New("propertydata: api key not configured")

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c.key != ""
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.key)

	if err := c.getter.GetJSON(ctx, c.baseURL+"/"+endpoint, params, nil, out); err != nil {
		return eris.Wrap(err, "propertydata: "+endpoint)
	}
	return nil
}

type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e statusEnvelope) err(endpoint string) error {
	if e.Status == "error" {
		return eris.Errorf("propertydata: %s: %s", endpoint, e.Message)
	}
	return nil
}

type rentalResponse struct {
	statusEnvelope
	Estimate struct {
		Monthly float64 `json:"monthly"`
	} `json:"estimate"`
	Range struct {
		Low  float64 `json:"low"`
		High float64 `json:"high"`
	} `json:"range"`
	Confidence string `json:"confidence"`
}

// RentalValuation estimates achievable monthly rent for a postcode and
// bedroom count.
func (c *Client) RentalValuation(ctx context.Context, postcode string, bedrooms int) (*model.RentalValuation, error) {
	params := url.Values{
		"postcode": {postcode},
		"bedrooms": {strconv.Itoa(bedrooms)},
	}

	var resp rentalResponse
	if err := c.get(ctx, "valuation-rent", params, &resp); err != nil {
		return nil, err
	}
	if err := resp.err("valuation-rent"); err != nil {
		return nil, err
	}

	return &model.RentalValuation{
		EstimateMonthly: resp.Estimate.Monthly,
		LowMonthly:      resp.Range.Low,
		HighMonthly:     resp.Range.High,
		Confidence:      resp.Confidence,
	}, nil
}

type pricesResponse struct {
	statusEnvelope
	Data struct {
		Average     float64 `json:"average"`
		PricePerSqf float64 `json:"price_per_sqf"`
		PointsUsed  int     `json:"points_analysed"`
	} `json:"data"`
}

type yieldsResponse struct {
	statusEnvelope
	Data struct {
		GrossYield string `json:"gross_yield"` // e.g. "5.2%"
	} `json:"data"`
}

type demandResponse struct {
	statusEnvelope
	Data struct {
		Rating string `json:"rating"`
	} `json:"data"`
}

type crimeResponse struct {
	statusEnvelope
	Data struct {
		CrimeRating       string  `json:"crime_rating"`
		CrimesPerThousand float64 `json:"crimes_per_thousand"`
	} `json:"data"`
}

// MarketContext assembles area statistics for a postcode from the prices,
// yields, demand and crime endpoints. Individual endpoint failures degrade
// to missing fields; the call errors only when nothing was retrievable.
func (c *Client) MarketContext(ctx context.Context, postcode string) (*model.MarketContext, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	params := func() url.Values { return url.Values{"postcode": {postcode}} }
	out := &model.MarketContext{}
	got := 0

	var prices pricesResponse
	if err := c.get(ctx, "prices", params(), &prices); err == nil && prices.err("prices") == nil {
		out.AveragePrice = prices.Data.Average
		out.PricePerSqft = prices.Data.PricePerSqf
		got++
	} else {
		zap.L().Debug("propertydata prices unavailable", zap.String("postcode", postcode), zap.Error(err))
	}

	var yields yieldsResponse
	if err := c.get(ctx, "yields", params(), &yields); err == nil && yields.err("yields") == nil {
		out.AverageYield = parsePercent(yields.Data.GrossYield)
		got++
	} else {
		zap.L().Debug("propertydata yields unavailable", zap.String("postcode", postcode), zap.Error(err))
	}

	var demand demandResponse
	if err := c.get(ctx, "demand", params(), &demand); err == nil && demand.err("demand") == nil {
		out.Demand = demand.Data.Rating
		got++
	} else {
		zap.L().Debug("propertydata demand unavailable", zap.String("postcode", postcode), zap.Error(err))
	}

	var crime crimeResponse
	if err := c.get(ctx, "crime", params(), &crime); err == nil && crime.err("crime") == nil {
		out.CrimeRating = crime.Data.CrimeRating
		out.CrimesPerThous = crime.Data.CrimesPerThousand
		got++
	} else {
		zap.L().Debug("propertydata crime unavailable", zap.String("postcode", postcode), zap.Error(err))
	}

	if got == 0 {
		return nil, eris.Errorf("propertydata: no market data available for %s", postcode)
	}
	return out, nil
}

func parsePercent(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0
	}
	return v
}
