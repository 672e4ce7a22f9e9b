package area

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metusa-property/deal-analyzer/internal/cache"
	"github.com/metusa-property/deal-analyzer/internal/model"
	"github.com/metusa-property/deal-analyzer/pkg/propertydata"
)

type fakeLand struct {
	soldCalls  atomic.Int32
	avgCalls   atomic.Int32
	trendCalls atomic.Int32
	soldErr    error
	avgErr     error
	trendErr   error
}

func (f *fakeLand) AveragePrice(ctx context.Context, postcode string, months int) (float64, error) {
	f.avgCalls.Add(1)
	if f.avgErr != nil {
		return 0, f.avgErr
	}
	return 205500, nil
}

func (f *fakeLand) SoldPrices(ctx context.Context, postcode string, limit int) ([]model.SoldPrice, error) {
	f.soldCalls.Add(1)
	if f.soldErr != nil {
		return nil, f.soldErr
	}
	return []model.SoldPrice{{Price: 210000, Date: "2026-05-12"}}, nil
}

func (f *fakeLand) PriceTrend(ctx context.Context, postcode string) (*model.PriceTrend, error) {
	f.trendCalls.Add(1)
	if f.trendErr != nil {
		return nil, f.trendErr
	}
	return &model.PriceTrend{Trend: "rising", ChangePercent: 7.2}, nil
}

type fakeProperty struct {
	configured bool
	rentalErr  error
	marketErr  error
}

func (f *fakeProperty) Configured() bool { return f.configured }

func (f *fakeProperty) RentalValuation(ctx context.Context, postcode string, bedrooms int) (*model.RentalValuation, error) {
	if f.rentalErr != nil {
		return nil, f.rentalErr
	}
	return &model.RentalValuation{EstimateMonthly: 1150}, nil
}

func (f *fakeProperty) MarketContext(ctx context.Context, postcode string) (*model.MarketContext, error) {
	if f.marketErr != nil {
		return nil, f.marketErr
	}
	return &model.MarketContext{AveragePrice: 231000}, nil
}

type fakeTransport struct {
	err error
}

func (f *fakeTransport) Summary(ctx context.Context, postcode string) (*model.TransportSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.TransportSummary{Score: 80, Rating: "Good", Source: "tfl"}, nil
}

func TestContextAggregatesAllSources(t *testing.T) {
	svc := New(&fakeLand{}, &fakeProperty{configured: true}, &fakeTransport{}, Options{})

	got := svc.Context(context.Background(), "M14 6LT", 3)
	require.NotNil(t, got)

	require.Len(t, got.SoldPrices, 1)
	assert.Equal(t, 210000, got.SoldPrices[0].Price)
	require.NotNil(t, got.PriceTrend)
	assert.Equal(t, "rising", got.PriceTrend.Trend)
	require.NotNil(t, got.Rental)
	assert.InDelta(t, 1150, got.Rental.EstimateMonthly, 0.01)
	require.NotNil(t, got.Market)
	require.NotNil(t, got.Transport)
	assert.Equal(t, "Good", got.Transport.Rating)
}

func TestContextDegradesPerSource(t *testing.T) {
	land := &fakeLand{soldErr: eris.New("sparql down")}
	svc := New(land, &fakeProperty{configured: true, marketErr: eris.New("api down")}, &fakeTransport{}, Options{})

	got := svc.Context(context.Background(), "M14 6LT", 2)
	require.NotNil(t, got)

	assert.Nil(t, got.SoldPrices)
	assert.NotNil(t, got.PriceTrend, "one land registry failure must not sink the other")
	assert.NotNil(t, got.Rental)
	assert.Nil(t, got.Market)
	assert.NotNil(t, got.Transport)
}

func TestContextNilWhenNothingAvailable(t *testing.T) {
	down := eris.New("down")
	svc := New(
		&fakeLand{soldErr: down, trendErr: down},
		&fakeProperty{configured: false},
		&fakeTransport{err: down},
		Options{},
	)

	assert.Nil(t, svc.Context(context.Background(), "M14 6LT", 2))
	assert.Nil(t, svc.Context(context.Background(), "", 2), "no postcode, no lookup")
}

func TestContextSkipsUnconfiguredPropertyData(t *testing.T) {
	svc := New(&fakeLand{}, &fakeProperty{configured: false}, &fakeTransport{}, Options{})

	got := svc.Context(context.Background(), "M14 6LT", 2)
	require.NotNil(t, got)
	assert.Nil(t, got.Rental)
	assert.Nil(t, got.Market)
	assert.NotNil(t, got.SoldPrices)
}

func TestContextCachesLookups(t *testing.T) {
	land := &fakeLand{}
	svc := New(land, &fakeProperty{}, &fakeTransport{}, Options{
		Cache: cache.NewMemory(),
		TTL:   time.Hour,
	})

	first := svc.Context(context.Background(), "M14 6LT", 2)
	second := svc.Context(context.Background(), "M14 6LT", 2)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, int32(1), land.soldCalls.Load(), "second lookup must come from cache")
	assert.Equal(t, int32(1), land.trendCalls.Load())
	assert.Equal(t, first.SoldPrices, second.SoldPrices)
}

func TestAveragePriceCaches(t *testing.T) {
	land := &fakeLand{}
	svc := New(land, &fakeProperty{}, &fakeTransport{}, Options{})

	avg, err := svc.AveragePrice(context.Background(), "M14 6LT")
	require.NoError(t, err)
	assert.InDelta(t, 205500, avg, 0.01)

	_, err = svc.AveragePrice(context.Background(), "M14 6LT")
	require.NoError(t, err)
	assert.Equal(t, int32(1), land.avgCalls.Load())
}

func TestRentalValuationNotConfigured(t *testing.T) {
	svc := New(&fakeLand{}, &fakeProperty{configured: false}, &fakeTransport{}, Options{})

	_, err := svc.RentalValuation(context.Background(), "M14 6LT", 3)
	assert.ErrorIs(t, err, propertydata.ErrNotConfigured)
}

func TestBreakerStates(t *testing.T) {
	svc := New(&fakeLand{}, &fakeProperty{}, &fakeTransport{}, Options{})
	_ = svc.Context(context.Background(), "M14 6LT", 2)

	states := svc.BreakerStates()
	assert.NotEmpty(t, states)
	for name, st := range states {
		assert.Equal(t, "closed", st.String(), "breaker %s", name)
	}
}
