// Package area assembles third-party market intelligence for a postcode:
// Land Registry sold prices and trend, PropertyData valuations and area
// statistics, and a transport access summary. Everything here is
// best-effort decoration for the report; a failed source leaves its field
// nil and never blocks or changes the deal evaluation.
package area

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/metusa-property/deal-analyzer/internal/cache"
	"github.com/metusa-property/deal-analyzer/internal/model"
	"github.com/metusa-property/deal-analyzer/internal/resilience"
	"github.com/metusa-property/deal-analyzer/pkg/landregistry"
	"github.com/metusa-property/deal-analyzer/pkg/propertydata"
	"github.com/metusa-property/deal-analyzer/pkg/transport"
)

// LandRegistry is the slice of the Land Registry client the service uses.
type LandRegistry interface {
	SoldPrices(ctx context.Context, postcode string, limit int) ([]model.SoldPrice, error)
	AveragePrice(ctx context.Context, postcode string, months int) (float64, error)
	PriceTrend(ctx context.Context, postcode string) (*model.PriceTrend, error)
}

// PropertyData is the slice of the PropertyData client the service uses.
type PropertyData interface {
	Configured() bool
	RentalValuation(ctx context.Context, postcode string, bedrooms int) (*model.RentalValuation, error)
	MarketContext(ctx context.Context, postcode string) (*model.MarketContext, error)
}

// Transport is the slice of the transport client the service uses.
type Transport interface {
	Summary(ctx context.Context, postcode string) (*model.TransportSummary, error)
}

// Service aggregates the area data sources.
type Service struct {
	land      LandRegistry
	property  PropertyData
	transport Transport

	cache    cache.Cache
	ttl      time.Duration
	breakers *resilience.ServiceBreakers

	// timeout bounds the whole fan-out; slow upstreams degrade to nil.
	timeout time.Duration
}

// Options configures the aggregation service.
type Options struct {
	Cache   cache.Cache
	TTL     time.Duration
	Timeout time.Duration
}

// New creates an area Service.
func New(land LandRegistry, property PropertyData, tr Transport, opts Options) *Service {
	if opts.Cache == nil {
		opts.Cache = cache.NewMemory()
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Service{
		land:      land,
		property:  property,
		transport: tr,
		cache:     opts.Cache,
		ttl:       opts.TTL,
		breakers:  resilience.NewServiceBreakers(resilience.DefaultCircuitBreakerConfig()),
		timeout:   opts.Timeout,
	}
}

// BreakerStates exposes upstream circuit state for the health endpoint.
func (s *Service) BreakerStates() map[string]resilience.CircuitState {
	return s.breakers.States()
}

// cachedCall serves a lookup from cache or runs it through the named
// service's circuit breaker, caching a successful result.
func cachedCall[T any](ctx context.Context, s *Service, service, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if raw, ok := s.cache.Get(ctx, key); ok {
		var out T
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out, nil
		}
		// Unreadable entries are treated as misses.
	}

	val, err := resilience.ExecuteVal(ctx, s.breakers.Get(service), fn)
	if err != nil {
		return zero, err
	}

	if raw, err := json.Marshal(val); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
			zap.L().Debug("area cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return val, nil
}

// SoldPrices returns recent Land Registry sales for the postcode.
func (s *Service) SoldPrices(ctx context.Context, postcode string) ([]model.SoldPrice, error) {
	return cachedCall(ctx, s, "land_registry", "area:v1:sold:"+postcode,
		func(ctx context.Context) ([]model.SoldPrice, error) {
			return s.land.SoldPrices(ctx, postcode, 10)
		})
}

// AveragePrice returns the twelve-month average sold price for the postcode.
func (s *Service) AveragePrice(ctx context.Context, postcode string) (float64, error) {
	return cachedCall(ctx, s, "land_registry", "area:v1:avg:"+postcode,
		func(ctx context.Context) (float64, error) {
			return s.land.AveragePrice(ctx, postcode, 12)
		})
}

// PriceTrend compares recent against older sales for the postcode.
func (s *Service) PriceTrend(ctx context.Context, postcode string) (*model.PriceTrend, error) {
	return cachedCall(ctx, s, "land_registry", "area:v1:trend:"+postcode,
		func(ctx context.Context) (*model.PriceTrend, error) {
			return s.land.PriceTrend(ctx, postcode)
		})
}

// RentalValuation estimates market rent via PropertyData.
func (s *Service) RentalValuation(ctx context.Context, postcode string, bedrooms int) (*model.RentalValuation, error) {
	if s.property == nil || !s.property.Configured() {
		return nil, propertydata.ErrNotConfigured
	}
	return cachedCall(ctx, s, "property_data", "area:v1:rent:"+postcode+":"+strconv.Itoa(bedrooms),
		func(ctx context.Context) (*model.RentalValuation, error) {
			return s.property.RentalValuation(ctx, postcode, bedrooms)
		})
}

// MarketContext returns PropertyData area statistics.
func (s *Service) MarketContext(ctx context.Context, postcode string) (*model.MarketContext, error) {
	if s.property == nil || !s.property.Configured() {
		return nil, propertydata.ErrNotConfigured
	}
	return cachedCall(ctx, s, "property_data", "area:v1:market:"+postcode,
		func(ctx context.Context) (*model.MarketContext, error) {
			return s.property.MarketContext(ctx, postcode)
		})
}

// TransportSummary scores the postcode's public transport access.
func (s *Service) TransportSummary(ctx context.Context, postcode string) (*model.TransportSummary, error) {
	return cachedCall(ctx, s, "transport", "area:v1:transport:"+postcode,
		func(ctx context.Context) (*model.TransportSummary, error) {
			return s.transport.Summary(ctx, postcode)
		})
}

// Context gathers everything available for a postcode concurrently. It
// never returns an error: missing sources are nil fields. A nil return
// means nothing at all was available.
func (s *Service) Context(ctx context.Context, postcode string, bedrooms int) *model.AreaContext {
	if postcode == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu  sync.Mutex
		out model.AreaContext
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		prices, err := s.SoldPrices(gctx, postcode)
		if err != nil {
			zap.L().Warn("sold prices unavailable", zap.String("postcode", postcode), zap.Error(err))
			return nil
		}
		mu.Lock()
		out.SoldPrices = prices
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		trend, err := s.PriceTrend(gctx, postcode)
		if err != nil {
			zap.L().Warn("price trend unavailable", zap.String("postcode", postcode), zap.Error(err))
			return nil
		}
		mu.Lock()
		out.PriceTrend = trend
		mu.Unlock()
		return nil
	})

	if s.property != nil && s.property.Configured() {
		g.Go(func() error {
			rental, err := s.RentalValuation(gctx, postcode, bedrooms)
			if err != nil {
				zap.L().Warn("rental valuation unavailable", zap.String("postcode", postcode), zap.Error(err))
				return nil
			}
			mu.Lock()
			out.Rental = rental
			mu.Unlock()
			return nil
		})

		g.Go(func() error {
			market, err := s.MarketContext(gctx, postcode)
			if err != nil {
				zap.L().Warn("market context unavailable", zap.String("postcode", postcode), zap.Error(err))
				return nil
			}
			mu.Lock()
			out.Market = market
			mu.Unlock()
			return nil
		})
	}

	g.Go(func() error {
		summary, err := s.TransportSummary(gctx, postcode)
		if err != nil {
			zap.L().Warn("transport summary unavailable", zap.String("postcode", postcode), zap.Error(err))
			return nil
		}
		mu.Lock()
		out.Transport = summary
		mu.Unlock()
		return nil
	})

	_ = g.Wait() // workers swallow their own errors

	if out.SoldPrices == nil && out.PriceTrend == nil && out.Rental == nil &&
		out.Market == nil && out.Transport == nil {
		return nil
	}
	return &out
}

// Compile-time checks that the real clients satisfy the service interfaces.
var (
	_ LandRegistry = (*landregistry.Client)(nil)
	_ PropertyData = (*propertydata.Client)(nil)
	_ Transport    = (*transport.Client)(nil)
)
