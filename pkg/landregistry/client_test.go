package landregistry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metusa-property/deal-analyzer/internal/fetcher"
)

func sparqlServer(t *testing.T, handler func(query string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		query := r.Form.Get("query")
		require.NotEmpty(t, query)
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = w.Write([]byte(handler(query)))
	}))
}

func bindings(rows ...string) string {
	return `{"results":{"bindings":[` + strings.Join(rows, ",") + `]}}`
}

func TestSoldPrices(t *testing.T) {
	srv := sparqlServer(t, func(query string) string {
		assert.Contains(t, query, `lrcommon:postcode "M14 6LT"`)
		assert.Contains(t, query, "LIMIT 5")
		return bindings(
			`{"price":{"value":"210000"},"date":{"value":"2026-05-12"},"street":{"value":"WILMSLOW ROAD"},"town":{"value":"MANCHESTER"}}`,
			`{"price":{"value":"185000"},"date":{"value":"2026-03-02"}}`,
			`{"price":{"value":"not-a-number"},"date":{"value":"2026-01-01"}}`,
		)
	})
	defer srv.Close()

	c := New(srv.URL, fetcher.New(fetcher.Options{}))

	got, err := c.SoldPrices(context.Background(), "m14 6lt", 5)
	require.NoError(t, err)
	require.Len(t, got, 2, "unparseable rows are skipped")
	assert.Equal(t, 210000, got[0].Price)
	assert.Equal(t, "WILMSLOW ROAD", got[0].Street)
	assert.Equal(t, "MANCHESTER", got[0].Town)
	assert.Equal(t, 185000, got[1].Price)
	assert.Empty(t, got[1].Street)
}

func TestSoldPricesEscapesPostcode(t *testing.T) {
	srv := sparqlServer(t, func(query string) string {
		assert.NotContains(t, query, `"} UNION`)
		return bindings()
	})
	defer srv.Close()

	c := New(srv.URL, fetcher.New(fetcher.Options{}))
	_, err := c.SoldPrices(context.Background(), `M1 1AA"} UNION {`, 10)
	require.NoError(t, err)
}

func TestAveragePrice(t *testing.T) {
	srv := sparqlServer(t, func(query string) string {
		assert.Contains(t, query, "2025-08-23")
		return bindings(
			`{"price":{"value":"200000"}}`,
			`{"price":{"value":"100000"}}`,
		)
	})
	defer srv.Close()

	c := New(srv.URL, fetcher.New(fetcher.Options{}))
	c.now = func() time.Time { return time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC) }

	avg, err := c.AveragePrice(context.Background(), "M14 6LT", 12)
	require.NoError(t, err)
	assert.InDelta(t, 150000, avg, 0.01)
}

func TestAveragePriceNoSales(t *testing.T) {
	srv := sparqlServer(t, func(string) string { return bindings() })
	defer srv.Close()

	c := New(srv.URL, fetcher.New(fetcher.Options{}))
	avg, err := c.AveragePrice(context.Background(), "ZZ1 1ZZ", 12)
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestPriceTrend(t *testing.T) {
	tests := []struct {
		name       string
		recent     []string
		older      []string
		wantTrend  string
		wantChange float64
	}{
		{
			"rising",
			[]string{`{"price":{"value":"220000"}}`},
			[]string{`{"price":{"value":"200000"}}`},
			"rising", 10,
		},
		{
			"falling",
			[]string{`{"price":{"value":"180000"}}`},
			[]string{`{"price":{"value":"200000"}}`},
			"falling", -10,
		},
		{
			"stable",
			[]string{`{"price":{"value":"204000"}}`},
			[]string{`{"price":{"value":"200000"}}`},
			"stable", 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := 0
			srv := sparqlServer(t, func(query string) string {
				call++
				if call == 1 {
					return bindings(tt.recent...)
				}
				return bindings(tt.older...)
			})
			defer srv.Close()

			c := New(srv.URL, fetcher.New(fetcher.Options{}))

			trend, err := c.PriceTrend(context.Background(), "M14 6LT")
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrend, trend.Trend)
			assert.InDelta(t, tt.wantChange, trend.ChangePercent, 0.05)
			assert.Equal(t, 1, trend.RecentSales)
			assert.Equal(t, 1, trend.OlderSales)
		})
	}
}

func TestPriceTrendInsufficientData(t *testing.T) {
	srv := sparqlServer(t, func(string) string { return bindings() })
	defer srv.Close()

	c := New(srv.URL, fetcher.New(fetcher.Options{}))

	trend, err := c.PriceTrend(context.Background(), "ZZ1 1ZZ")
	require.NoError(t, err)
	assert.Equal(t, "insufficient_data", trend.Trend)
	assert.Zero(t, trend.ChangePercent)
}
