package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metusa-property/deal-analyzer/internal/fetcher"
	"github.com/metusa-property/deal-analyzer/internal/model"
)

func TestHaversineKm(t *testing.T) {
	// Manchester Piccadilly to Manchester Victoria is roughly 1.4km.
	d := haversineKm(53.4773, -2.2301, 53.4875, -2.2426)
	assert.InDelta(t, 1.4, d, 0.2)

	assert.Zero(t, haversineKm(53.4773, -2.2301, 53.4773, -2.2301))
}

func TestRailStations(t *testing.T) {
	// Central Manchester: Piccadilly should rank first.
	got := railStations(53.4794, -2.2453, 3)

	require.Len(t, got, 3)
	assert.Equal(t, "Manchester Victoria", got[0].Name)
	assert.Less(t, got[0].DistanceKm, got[1].DistanceKm+0.001)
	assert.Equal(t, []string{"national-rail"}, got[0].Modes)
}

func TestScoreStations(t *testing.T) {
	tests := []struct {
		name       string
		stations   []model.Station
		wantScore  int
		wantRating string
	}{
		{"no stations", nil, 0, "Poor"},
		{"on the doorstep", []model.Station{{DistanceKm: 0.3}}, 100, "Excellent"},
		{"walkable", []model.Station{{DistanceKm: 0.8}}, 80, "Good"},
		{"acceptable", []model.Station{{DistanceKm: 1.6}}, 60, "Acceptable"},
		{"remote", []model.Station{{DistanceKm: 4.2}}, 30, "Poor"},
		{
			"tube and rail bonus",
			[]model.Station{
				{DistanceKm: 0.8, Modes: []string{"tube"}},
				{DistanceKm: 1.1, Modes: []string{"national-rail"}},
			},
			90, "Good",
		},
		{
			"bonus caps at 100",
			[]model.Station{
				{DistanceKm: 0.2, Modes: []string{"tube", "national-rail"}},
			},
			100, "Excellent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, rating := scoreStations(tt.stations)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantRating, rating)
		})
	}
}

func TestSummaryTfL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/postcodes/SW1A1AA", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"result":{"latitude":51.501,"longitude":-0.1416}}`))
	})
	mux.HandleFunc("/StopPoint", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NaptanMetroStation,NaptanRailStation", r.URL.Query().Get("stopTypes"))
		_, _ = w.Write([]byte(`{"stopPoints":[
			{"commonName":"Victoria","distance":850,"modes":["tube","national-rail"]},
			{"commonName":"St James's Park","distance":400,"modes":["tube"]}
		]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, "", srv.URL, fetcher.New(fetcher.Options{}))

	got, err := c.Summary(context.Background(), "SW1A 1AA")
	require.NoError(t, err)
	assert.Equal(t, "tfl", got.Source)
	require.Len(t, got.Stations, 2)
	assert.Equal(t, "St James's Park", got.Stations[0].Name, "stations sort by distance")
	assert.InDelta(t, 0.4, got.Stations[0].DistanceKm, 0.001)
	assert.Equal(t, 100, got.Score, "0.4km nearest plus tube+rail bonus caps at 100")
}

func TestSummaryFallsBackToRail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/postcodes/M141AA", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"result":{"latitude":53.45,"longitude":-2.22}}`))
	})
	mux.HandleFunc("/StopPoint", func(w http.ResponseWriter, r *http.Request) {
		// TfL has no coverage outside London.
		_, _ = w.Write([]byte(`{"stopPoints":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, "", srv.URL, fetcher.New(fetcher.Options{}))

	got, err := c.Summary(context.Background(), "M14 1AA")
	require.NoError(t, err)
	assert.Equal(t, "national_rail", got.Source)
	require.NotEmpty(t, got.Stations)
	assert.Contains(t, got.Stations[0].Name, "Manchester")
}

func TestSummaryBadPostcode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, "", srv.URL, fetcher.New(fetcher.Options{}))

	_, err := c.Summary(context.Background(), "ZZ9 9ZZ")
	assert.Error(t, err)
}
