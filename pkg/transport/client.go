// Package transport rates a property's public transport access. Inside
// TfL's coverage it uses the StopPoint API; elsewhere it falls back to a
// built-in table of major National Rail stations and straight-line
// distance. Postcodes are geocoded through postcodes.io.
package transport

import (
	"context"
	"math"
	"net/url"
	"sort"
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

// Client looks up stations near a postcode.
type Client struct {
	tflBaseURL       string
	tflAppKey        string
	postcodesBaseURL string
	getter           JSONGetter
}

// New creates a transport client. The TfL app key is optional; anonymous
// requests work at a lower rate limit.
func New(tflBaseURL, tflAppKey, postcodesBaseURL string, getter JSONGetter) *Client {
	return &Client{
		tflBaseURL:       strings.TrimRight(tflBaseURL, "/"),
		tflAppKey:        tflAppKey,
		postcodesBaseURL: strings.TrimRight(postcodesBaseURL, "/"),
		getter:           getter,
	}
}

type postcodeResponse struct {
	Status int `json:"status"`
	Result struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"result"`
}

// Geocode resolves a postcode to coordinates via postcodes.io.
func (c *Client) Geocode(ctx context.Context, postcode string) (lat, lon float64, err error) {
	compact := strings.ReplaceAll(strings.TrimSpace(postcode), " ", "")

	var resp postcodeResponse
	if err := c.getter.GetJSON(ctx, c.postcodesBaseURL+"/postcodes/"+url.PathEscape(compact), nil, nil, &resp); err != nil {
		return 0, 0, eris.Wrap(err, "transport: geocode postcode")
	}
	return resp.Result.Latitude, resp.Result.Longitude, nil
}

type stopPointResponse struct {
	StopPoints []struct {
		CommonName string   `json:"commonName"`
		Distance   float64  `json:"distance"` // meters
		Modes      []string `json:"modes"`
	} `json:"stopPoints"`
}

const stationSearchRadiusMeters = 2000

// tflStations queries the TfL StopPoint API for stations around a point.
func (c *Client) tflStations(ctx context.Context, lat, lon float64) ([]model.Station, error) {
	q := url.Values{
		"lat":       {formatCoord(lat)},
		"lon":       {formatCoord(lon)},
		"stopTypes": {"NaptanMetroStation,NaptanRailStation"},
		"radius":    {"2000"},
	}
	if c.tflAppKey != "" {
		q.Set("app_key", c.tflAppKey)
	}

	var resp stopPointResponse
	if err := c.getter.GetJSON(ctx, c.tflBaseURL+"/StopPoint", q, nil, &resp); err != nil {
		return nil, eris.Wrap(err, "transport: tfl stoppoint")
	}

	out := make([]model.Station, 0, len(resp.StopPoints))
	for _, sp := range resp.StopPoints {
		out = append(out, model.Station{
			Name:       sp.CommonName,
			DistanceKm: sp.Distance / 1000,
			Modes:      sp.Modes,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

// railStations ranks the built-in major-station table by distance.
func railStations(lat, lon float64, limit int) []model.Station {
	out := make([]model.Station, 0, len(majorStations))
	for _, st := range majorStations {
		d := haversineKm(lat, lon, st.lat, st.lon)
		out = append(out, model.Station{
			Name:       st.name,
			DistanceKm: math.Round(d*10) / 10,
			Modes:      []string{"national-rail"},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Summary geocodes the postcode and scores its transport access. TfL data
// is preferred; when TfL has nothing within range (or fails) the national
// rail table answers instead.
func (c *Client) Summary(ctx context.Context, postcode string) (*model.TransportSummary, error) {
	lat, lon, err := c.Geocode(ctx, postcode)
	if err != nil {
		return nil, err
	}
	if lat == 0 && lon == 0 {
		return nil, eris.Errorf("transport: postcode %s did not geocode", postcode)
	}

	stations, err := c.tflStations(ctx, lat, lon)
	source := "tfl"
	if err != nil || len(stations) == 0 {
		if err != nil {
			zap.L().Debug("tfl lookup failed, using national rail table", zap.Error(err))
		}
		stations = railStations(lat, lon, 3)
		source = "national_rail"
	}
	if len(stations) > 3 {
		stations = stations[:3]
	}

	score, rating := scoreStations(stations)
	return &model.TransportSummary{
		Stations: stations,
		Score:    score,
		Rating:   rating,
		Source:   source,
	}, nil
}

// scoreStations rates access 0-100 from the nearest station's distance,
// with a bonus when both metro and rail are within range.
func scoreStations(stations []model.Station) (int, string) {
	if len(stations) == 0 {
		return 0, "Poor"
	}

	nearest := stations[0].DistanceKm
	var score int
	var rating string
	switch {
	case nearest < 0.5:
		score, rating = 100, "Excellent"
	case nearest < 1.0:
		score, rating = 80, "Good"
	case nearest < 2.0:
		score, rating = 60, "Acceptable"
	default:
		score, rating = 30, "Poor"
	}

	modes := map[string]bool{}
	for _, st := range stations {
		for _, m := range st.Modes {
			modes[m] = true
		}
	}
	if modes["tube"] && (modes["national-rail"] || modes["overground"]) {
		score = min(100, score+10)
	}

	return score, rating
}

// 6 decimal places is ~10cm of precision, plenty for a station search.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
