// Package landregistry queries HM Land Registry Price Paid Data over its
// public SPARQL endpoint. It returns recent sold prices and a simple price
// trend for a postcode.
package landregistry

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/metusa-property/deal-analyzer/internal/model"
)

// FormPoster is the transport dependency, satisfied by fetcher.HTTPFetcher.
type FormPoster interface {
	PostFormJSON(ctx context.Context, rawURL string, form url.Values, out any) error
}

// Client talks to the Price Paid Data SPARQL endpoint.
type Client struct {
	endpoint string
	poster   FormPoster
	now      func() time.Time
}

// New creates a Land Registry client.
func New(endpoint string, poster FormPoster) *Client {
	return &Client{
		endpoint: endpoint,
		poster:   poster,
		now:      time.Now,
	}
}

// sparqlResponse is the SPARQL JSON results envelope.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

const sparqlPrefixes = `PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
PREFIX ppd: <http://landregistry.data.gov.uk/def/ppi/>
PREFIX lrcommon: <http://landregistry.data.gov.uk/def/common/>
`

// escapePostcode keeps user input from breaking out of the SPARQL string
// literal. Postcodes are validated upstream, but the query is built by
// interpolation so quotes and backslashes are stripped regardless.
func escapePostcode(postcode string) string {
	return strings.NewReplacer(`"`, "", `\`, "", "\n", "").Replace(strings.ToUpper(strings.TrimSpace(postcode)))
}

func (c *Client) query(ctx context.Context, query string) (*sparqlResponse, error) {
	var out sparqlResponse
	form := url.Values{"query": {query}}
	if err := c.poster.PostFormJSON(ctx, c.endpoint, form, &out); err != nil {
		return nil, eris.Wrap(err, "landregistry: sparql query")
	}
	return &out, nil
}

// SoldPrices returns the most recent price-paid records for a postcode.
func (c *Client) SoldPrices(ctx context.Context, postcode string, limit int) ([]model.SoldPrice, error) {
	if limit <= 0 {
		limit = 10
	}

	q := fmt.Sprintf(`%s
SELECT ?price ?date ?street ?town
WHERE {
  ?transaction ppd:pricePaid ?price ;
               ppd:transactionDate ?date ;
               ppd:propertyAddress ?property .
  ?property lrcommon:postcode "%s"^^xsd:string .
  OPTIONAL { ?property lrcommon:street ?street }
  OPTIONAL { ?property lrcommon:town ?town }
}
ORDER BY DESC(?date)
LIMIT %d`, sparqlPrefixes, escapePostcode(postcode), limit)

	resp, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]model.SoldPrice, 0, len(resp.Results.Bindings))
	for _, b := range resp.Results.Bindings {
		price, err := strconv.Atoi(b["price"].Value)
		if err != nil {
			zap.L().Debug("skipping unparseable price binding", zap.String("value", b["price"].Value))
			continue
		}
		out = append(out, model.SoldPrice{
			Price:  price,
			Date:   b["date"].Value,
			Street: b["street"].Value,
			Town:   b["town"].Value,
		})
	}
	return out, nil
}

// AveragePrice returns the mean sold price over the last n months, or 0
// when the postcode has no sales in the window.
func (c *Client) AveragePrice(ctx context.Context, postcode string, months int) (float64, error) {
	if months <= 0 {
		months = 12
	}
	cutoff := c.now().AddDate(0, -months, 0).Format("2006-01-02")

	prices, err := c.salesInPeriod(ctx, postcode, cutoff, "")
	if err != nil {
		return 0, err
	}
	if len(prices) == 0 {
		return 0, nil
	}

	sum := 0
	for _, p := range prices {
		sum += p
	}
	return float64(sum) / float64(len(prices)), nil
}

const trendChangeThreshold = 5.0 // percent

// PriceTrend compares the last six months of sales against the six months
// before that and classifies the postcode as rising, falling or stable.
func (c *Client) PriceTrend(ctx context.Context, postcode string) (*model.PriceTrend, error) {
	now := c.now()
	sixMonthsAgo := now.AddDate(0, -6, 0).Format("2006-01-02")
	twelveMonthsAgo := now.AddDate(0, -12, 0).Format("2006-01-02")

	recent, err := c.salesInPeriod(ctx, postcode, sixMonthsAgo, "")
	if err != nil {
		return nil, err
	}
	older, err := c.salesInPeriod(ctx, postcode, twelveMonthsAgo, sixMonthsAgo)
	if err != nil {
		return nil, err
	}

	if len(recent) == 0 || len(older) == 0 {
		return &model.PriceTrend{Trend: "insufficient_data"}, nil
	}

	recentAvg := mean(recent)
	olderAvg := mean(older)
	change := (recentAvg - olderAvg) / olderAvg * 100

	trend := "stable"
	switch {
	case change > trendChangeThreshold:
		trend = "rising"
	case change < -trendChangeThreshold:
		trend = "falling"
	}

	return &model.PriceTrend{
		Trend:         trend,
		ChangePercent: math.Round(change*10) / 10,
		RecentAvg:     recentAvg,
		OlderAvg:      olderAvg,
		RecentSales:   len(recent),
		OlderSales:    len(older),
	}, nil
}

func (c *Client) salesInPeriod(ctx context.Context, postcode, start, end string) ([]int, error) {
	dateFilter := fmt.Sprintf(`FILTER (?date >= "%s"^^xsd:date)`, start)
	if end != "" {
		dateFilter += fmt.Sprintf(` FILTER (?date < "%s"^^xsd:date)`, end)
	}

	q := fmt.Sprintf(`%s
SELECT ?price
WHERE {
  ?transaction ppd:pricePaid ?price ;
               ppd:transactionDate ?date ;
               ppd:propertyAddress ?property .
  ?property lrcommon:postcode "%s"^^xsd:string .
  %s
}`, sparqlPrefixes, escapePostcode(postcode), dateFilter)

	resp, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}

	prices := make([]int, 0, len(resp.Results.Bindings))
	for _, b := range resp.Results.Bindings {
		if p, err := strconv.Atoi(b["price"].Value); err == nil {
			prices = append(prices, p)
		}
	}
	return prices, nil
}

func mean(xs []int) float64 {
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
