package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metusa-property/deal-analyzer/internal/area"
	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/evaluator"
	"github.com/metusa-property/deal-analyzer/internal/model"
	"github.com/metusa-property/deal-analyzer/internal/narrative"
	"github.com/metusa-property/deal-analyzer/internal/report"
	"github.com/metusa-property/deal-analyzer/pkg/anthropic"
)

type fakeLand struct {
	err error
}

func (f *fakeLand) SoldPrices(ctx context.Context, postcode string, limit int) ([]model.SoldPrice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.SoldPrice{{Price: 182000, Date: "2026-03-01", Street: "Mill Lane"}}, nil
}

func (f *fakeLand) AveragePrice(ctx context.Context, postcode string, months int) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return 205500, nil
}

func (f *fakeLand) PriceTrend(ctx context.Context, postcode string) (*model.PriceTrend, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.PriceTrend{Trend: "rising", ChangePercent: 4.2}, nil
}

type fakeProperty struct {
	configured bool
}

func (f *fakeProperty) Configured() bool { return f.configured }

func (f *fakeProperty) RentalValuation(ctx context.Context, postcode string, bedrooms int) (*model.RentalValuation, error) {
	return &model.RentalValuation{EstimateMonthly: 1150}, nil
}

func (f *fakeProperty) MarketContext(ctx context.Context, postcode string) (*model.MarketContext, error) {
	return &model.MarketContext{AveragePrice: 231000}, nil
}

type fakeTransport struct{}

func (f *fakeTransport) Summary(ctx context.Context, postcode string) (*model.TransportSummary, error) {
	return &model.TransportSummary{Score: 80, Rating: "Good", Source: "tfl"}, nil
}

type fakeAnthropicClient struct {
	err error
}

func (f *fakeAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{Text: "A solid single-let."}, nil
}

type serverOptions struct {
	cfg       config.ServerConfig
	narrator  *narrative.Generator
	land      *fakeLand
	wkhtmlto  string
	noArea    bool
	propertyd bool
}

func newTestServer(t *testing.T, opts serverOptions) *Server {
	t.Helper()

	if opts.cfg.AnalyzeRPM == 0 {
		opts.cfg.AnalyzeRPM = 100
	}
	if opts.cfg.PDFRPM == 0 {
		opts.cfg.PDFRPM = 100
	}
	if opts.cfg.DataRPM == 0 {
		opts.cfg.DataRPM = 100
	}
	if opts.land == nil {
		opts.land = &fakeLand{}
	}

	var areaSvc *area.Service
	if !opts.noArea {
		areaSvc = area.New(opts.land, &fakeProperty{configured: opts.propertyd}, &fakeTransport{}, area.Options{})
	}

	renderer := report.New(report.Options{WkhtmltopdfPath: opts.wkhtmlto})

	return New(opts.cfg, evaluator.New(evaluator.DefaultConfig()), areaSvc, renderer, opts.narrator)
}

func btlBody(t *testing.T, mutate func(m map[string]any)) *bytes.Reader {
	t.Helper()
	m := map[string]any{
		"deal_type":             "BTL",
		"purchase_price":        185000,
		"monthly_rent":          950,
		"deposit_percent":       25,
		"interest_rate_percent": 4.0,
		"is_second_property":    true,
		"address":               "12 Mill Lane, Stockport",
		"postcode":              "sk4 1aa",
	}
	if mutate != nil {
		mutate(m)
	}
	body, err := json.Marshal(m)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func doJSON(srv *Server, method, path string, body *bytes.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := doJSON(srv, http.MethodPost, "/analyze", btlBody(t, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Results model.DealResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, model.VerdictProceed, resp.Results.Verdict)
	assert.Equal(t, "SK4 1AA", resp.Results.Postcode, "postcode normalized")
	require.NotNil(t, resp.Results.Area, "area context attached when postcode present")
	assert.NotNil(t, resp.Results.Area.Transport)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAnalyzeWithoutPostcodeSkipsArea(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := doJSON(srv, http.MethodPost, "/analyze", btlBody(t, func(m map[string]any) {
		delete(m, "postcode")
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results model.DealResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Results.Area)
}

func TestAnalyzeValidationErrors(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	tests := []struct {
		name   string
		mutate func(m map[string]any)
		want   string
	}{
		{"deposit below floor", func(m map[string]any) { m["deposit_percent"] = 2 }, "deposit_percent"},
		{"zero price", func(m map[string]any) { m["purchase_price"] = 0 }, "purchase_price"},
		{"unknown deal type", func(m map[string]any) { m["deal_type"] = "HODL" }, "deal_type"},
		{"hmo without rooms", func(m map[string]any) { m["deal_type"] = "HMO" }, "room_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(srv, http.MethodPost, "/analyze", btlBody(t, tt.mutate))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestAnalyzeRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("deal_type=BTL"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/analyze", bytes.NewReader([]byte("{not json")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid postcode", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/analyze", btlBody(t, func(m map[string]any) {
			m["postcode"] = "NOT A POSTCODE"
		}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "postcode")
	})

	t.Run("oversized body", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/analyze", btlBody(t, func(m map[string]any) {
			m["address"] = strings.Repeat("x", maxRequestBytes+1)
		}))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestAnalyzeSanitizesAddress(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := doJSON(srv, http.MethodPost, "/analyze", btlBody(t, func(m map[string]any) {
		m["address"] = `<script>alert("x")</script>`
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>")
}

func TestDownloadXLSX(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := doJSON(srv, http.MethodPost, "/download-xlsx", btlBody(t, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "deal_analysis_")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestDownloadPDFFailure(t *testing.T) {
	srv := newTestServer(t, serverOptions{wkhtmlto: "/nonexistent/wkhtmltopdf"})

	rec := doJSON(srv, http.MethodPost, "/download-pdf", btlBody(t, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAIAnalyze(t *testing.T) {
	narrator := narrative.New(&fakeAnthropicClient{}, config.AnthropicConfig{Model: "claude-sonnet-4-5-20250929"})
	srv := newTestServer(t, serverOptions{narrator: narrator})

	rec := doJSON(srv, http.MethodPost, "/ai-analyze", btlBody(t, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results model.DealResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A solid single-let.", resp.Results.Narrative)
}

func TestAIAnalyzeNotConfigured(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := doJSON(srv, http.MethodPost, "/ai-analyze", btlBody(t, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAIAnalyzeUpstreamFailure(t *testing.T) {
	narrator := narrative.New(&fakeAnthropicClient{err: eris.New("overloaded")}, config.AnthropicConfig{})
	srv := newTestServer(t, serverOptions{narrator: narrator})

	rec := doJSON(srv, http.MethodPost, "/ai-analyze", btlBody(t, nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDataEndpoints(t *testing.T) {
	srv := newTestServer(t, serverOptions{propertyd: true})

	tests := []struct {
		path string
		want string
	}{
		{"/api/sold-prices/SK41AA", `"price":182000`},
		{"/api/average-price/SK41AA", `"average_price":205500`},
		{"/api/price-trend/SK41AA", `"trend":"rising"`},
		{"/api/rental-valuation/SK41AA?bedrooms=4", `"estimate_monthly":1150`},
		{"/api/market/SK41AA", `"average_price":231000`},
		{"/api/transport/SK41AA", `"rating":"Good"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestDataEndpointInvalidPostcode(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/sold-prices/XYZ", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRentalValuationEndpointNotConfigured(t *testing.T) {
	srv := newTestServer(t, serverOptions{propertyd: false})

	req := httptest.NewRequest(http.MethodGet, "/api/rental-valuation/SK41AA", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDataEndpointUpstreamDown(t *testing.T) {
	srv := newTestServer(t, serverOptions{land: &fakeLand{err: eris.New("sparql down")}})

	req := httptest.NewRequest(http.MethodGet, "/api/sold-prices/SK41AA", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), "upstreams")
}

func TestAnalyzeRateLimit(t *testing.T) {
	srv := newTestServer(t, serverOptions{cfg: config.ServerConfig{AnalyzeRPM: 2}})

	for i := 0; i < 2; i++ {
		rec := doJSON(srv, http.MethodPost, "/analyze", btlBody(t, nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d within budget", i+1)
	}

	rec := doJSON(srv, http.MethodPost, "/analyze", btlBody(t, nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
}
