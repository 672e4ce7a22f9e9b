package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/metusa-property/deal-analyzer/internal/evaluator"
	"github.com/metusa-property/deal-analyzer/internal/model"
	"github.com/metusa-property/deal-analyzer/internal/report"
	"github.com/metusa-property/deal-analyzer/internal/validate"
	"github.com/metusa-property/deal-analyzer/pkg/propertydata"
)

const maxRequestBytes = 10 << 10 // 10KB, an analysis request is small

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

func respondResults(w http.ResponseWriter, v any) {
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": v,
	})
}

// decodeInput parses and sanitizes an analysis request. A false return means
// the error response was already written.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (model.DealInput, bool) {
	var in model.DealInput

	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		respondError(w, http.StatusBadRequest, "Content-Type must be application/json")
		return in, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Request too large")
			return in, false
		}
		respondError(w, http.StatusBadRequest, "Invalid JSON data")
		return in, false
	}

	in.Address = validate.Sanitize(in.Address, 200)
	if in.Postcode != "" {
		normalized := validate.NormalizePostcode(in.Postcode)
		if normalized == "" {
			respondError(w, http.StatusBadRequest, "Invalid UK postcode")
			return in, false
		}
		in.Postcode = normalized
	}
	return in, true
}

// evaluate runs the evaluator and maps its typed errors onto HTTP responses.
func (s *Server) evaluate(w http.ResponseWriter, in model.DealInput) (*model.DealResult, bool) {
	res, err := s.eval.Evaluate(in)
	if err == nil {
		return res, true
	}

	var ve *evaluator.ValidationError
	var me *evaluator.MissingFieldError
	switch {
	case errors.As(err, &ve), errors.As(err, &me):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("evaluation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "An error occurred during analysis. Please try again.")
	}
	return nil, false
}

// bedroomsFor picks the bedroom count used for rental comparables.
func bedroomsFor(in model.DealInput) int {
	if in.DealType == model.DealTypeHMO && in.RoomCount != nil {
		return *in.RoomCount
	}
	return 3
}

func (s *Server) attachArea(r *http.Request, in model.DealInput, res *model.DealResult) {
	if s.area == nil || in.Postcode == "" {
		return
	}
	res.Area = s.area.Context(r.Context(), in.Postcode, bedroomsFor(in))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	res, ok := s.evaluate(w, in)
	if !ok {
		return
	}
	s.attachArea(r, in, res)
	respondResults(w, res)
}

func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	res, ok := s.evaluate(w, in)
	if !ok {
		return
	}

	pdf, err := s.renderer.PDF(r.Context(), res)
	if err != nil {
		zap.L().Error("pdf generation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "An error occurred generating the PDF. Please try again.")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(res, "pdf")+`"`)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write(pdf)
}

func (s *Server) handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	res, ok := s.evaluate(w, in)
	if !ok {
		return
	}

	out, err := s.renderer.XLSX(res)
	if err != nil {
		zap.L().Error("xlsx generation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "An error occurred generating the spreadsheet. Please try again.")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(res, "xlsx")+`"`)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write(out)
}

func (s *Server) handleAIAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.narrator == nil || !s.narrator.Configured() {
		respondError(w, http.StatusServiceUnavailable, "AI analysis is not configured")
		return
	}

	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	res, ok := s.evaluate(w, in)
	if !ok {
		return
	}
	s.attachArea(r, in, res)

	text, err := s.narrator.Generate(r.Context(), res)
	if err != nil {
		zap.L().Error("narrative generation failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "AI analysis temporarily unavailable. Please review the calculated metrics.")
		return
	}
	res.Narrative = text

	respondResults(w, res)
}

// postcodeParam validates the {postcode} URL parameter. A false return means
// the error response was already written.
func postcodeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	pc := validate.NormalizePostcode(chi.URLParam(r, "postcode"))
	if pc == "" {
		respondError(w, http.StatusBadRequest, "Invalid UK postcode")
		return "", false
	}
	return pc, true
}

// respondUpstream maps area-service errors onto HTTP responses.
func respondUpstream(w http.ResponseWriter, key string, v any, err error) {
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]any{"success": true, key: v})
	case errors.Is(err, propertydata.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable, "PropertyData API is not configured")
	default:
		zap.L().Warn("upstream lookup failed", zap.String("resource", key), zap.Error(err))
		respondError(w, http.StatusBadGateway, "Upstream data source unavailable")
	}
}

func (s *Server) handleSoldPrices(w http.ResponseWriter, r *http.Request) {
	pc, ok := postcodeParam(w, r)
	if !ok {
		return
	}
	prices, err := s.area.SoldPrices(r.Context(), pc)
	respondUpstream(w, "sold_prices", prices, err)
}

func (s *Server) handleAveragePrice(w http.ResponseWriter, r *http.Request) {
	pc, ok := postcodeParam(w, r)
	if !ok {
		return
	}
	avg, err := s.area.AveragePrice(r.Context(), pc)
	respondUpstream(w, "average_price", avg, err)
}

func (s *Server) handlePriceTrend(w http.ResponseWriter, r *http.Request) {
	pc, ok := postcodeParam(w, r)
	if !ok {
		return
	}
	trend, err := s.area.PriceTrend(r.Context(), pc)
	respondUpstream(w, "price_trend", trend, err)
}

func (s *Server) handleRentalValuation(w http.ResponseWriter, r *http.Request) {
	pc, ok := postcodeParam(w, r)
	if !ok {
		return
	}
	bedrooms := 3
	if v := r.URL.Query().Get("bedrooms"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			bedrooms = n
		}
	}
	valuation, err := s.area.RentalValuation(r.Context(), pc, bedrooms)
	respondUpstream(w, "rental_valuation", valuation, err)
}

func (s *Server) handleMarketContext(w http.ResponseWriter, r *http.Request) {
	pc, ok := postcodeParam(w, r)
	if !ok {
		return
	}
	market, err := s.area.MarketContext(r.Context(), pc)
	respondUpstream(w, "market", market, err)
}

func (s *Server) handleTransport(w http.ResponseWriter, r *http.Request) {
	pc, ok := postcodeParam(w, r)
	if !ok {
		return
	}
	summary, err := s.area.TransportSummary(r.Context(), pc)
	respondUpstream(w, "transport", summary, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	upstreams := map[string]string{}
	if s.area != nil {
		for name, state := range s.area.BreakerStates() {
			upstreams[name] = state.String()
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"upstreams": upstreams,
	})
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("not positive")
	}
	return n, nil
}
