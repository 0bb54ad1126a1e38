package api

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	enginev1 "github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1"
	"github.com/Simon666Z/quantforge/internal/scan"
	"github.com/Simon666Z/quantforge/internal/store"
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/codegen"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

const maxSearchResults = 10

// symbolLister is implemented by sources that can enumerate their tickers.
type symbolLister interface {
	Symbols(ctx context.Context) ([]string, error)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, strategy.Catalog())
}

func (s *Server) handleStrategySchema(w http.ResponseWriter, r *http.Request) {
	id := types.StrategyType(strings.ToUpper(mux.Vars(r)["id"]))

	schema, err := strategy.ParamsSchema(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(schema))
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, scan.Scenarios())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("q")))
	if query == "" {
		s.writeJSON(w, http.StatusOK, []SearchResultItem{})

		return
	}

	results := []SearchResultItem{}

	if lister, ok := s.config.Source.(symbolLister); ok {
		symbols, err := lister.Symbols(r.Context())
		if err != nil {
			s.log.Warn("Symbol listing failed", zap.Error(err))
		}

		for _, symbol := range symbols {
			if strings.Contains(strings.ToUpper(symbol), query) {
				results = append(results, SearchResultItem{Symbol: symbol, Name: symbol, Type: "EQUITY", Exchange: "LOCAL"})
			}
		}

		// prefix matches first
		sort.SliceStable(results, func(i, j int) bool {
			pi := strings.HasPrefix(results[i].Symbol, query)
			pj := strings.HasPrefix(results[j].Symbol, query)

			return pi && !pj
		})

		if len(results) > maxSearchResults {
			results = results[:maxSearchResults]
		}
	}

	if len(results) == 0 && isTickerLike(query) {
		results = append(results, SearchResultItem{Symbol: query, Name: "Manual Entry", Type: "EQUITY", Exchange: "UNKNOWN"})
	}

	s.writeJSON(w, http.StatusOK, results)
}

func isTickerLike(query string) bool {
	if len(query) > 10 {
		return false
	}

	for _, c := range query {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '.' && c != '-' {
			return false
		}
	}

	return true
}

func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	ticker := strings.TrimSpace(query.Get("ticker"))
	if ticker == "" {
		s.writeError(w, errors.New(errors.ErrCodeMissingParameter, "ticker is required"))

		return
	}

	start, err := parseDate("start_date", query.Get("start_date"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	end, err := parseDate("end_date", query.Get("end_date"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	if end.Before(start) {
		s.writeError(w, errors.New(errors.ErrCodeInvalidParameter, "end_date must not be before start_date"))

		return
	}

	bars, err := s.config.Source.Fetch(r.Context(), ticker, start, end)
	if err != nil {
		s.writeError(w, err)

		return
	}

	points := make([]MarketDataPoint, bars.Len())
	for i := range points {
		bar := bars.Bar(i)
		points[i] = MarketDataPoint{
			Date:   bar.Time.Format(types.DateLayout),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		}
	}

	s.writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	started := time.Now()

	result, err := s.runBacktest(r.Context(), req)
	if err != nil {
		s.metrics.RecordBacktest(req.Strategy, outcomeError, time.Since(started))
		s.writeError(w, err)

		return
	}

	s.metrics.RecordBacktest(req.Strategy, string(result.Outcome), time.Since(started))
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) runBacktest(ctx context.Context, req BacktestRequest) (types.BacktestResult, error) {
	start, end := mustDate(req.StartDate), mustDate(req.EndDate)
	if end.Before(start) {
		return types.BacktestResult{}, errors.New(errors.ErrCodeInvalidRequest, "endDate must not be before startDate")
	}

	config, err := req.engineConfig(s.config.Engine)
	if err != nil {
		return types.BacktestResult{}, err
	}

	engine, err := enginev1.NewBacktestEngineV1(config, s.log)
	if err != nil {
		return types.BacktestResult{}, err
	}

	bars, err := s.config.Source.Fetch(ctx, req.Ticker, start, end)
	if err != nil {
		return types.BacktestResult{}, err
	}

	result, err := engine.Run(bars, req.Strategy, req.Params)
	if err != nil {
		return types.BacktestResult{}, err
	}

	result.ID = uuid.New().String()

	return result, nil
}

func (s *Server) handleScreener(w http.ResponseWriter, r *http.Request) {
	var req ScreenerRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	results, err := s.runner.Screen(r.Context(), req.toScan())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, ScanResponse{Results: results})
}

func (s *Server) handleStressTest(w http.ResponseWriter, r *http.Request) {
	var req StressTestRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	results, err := s.runner.StressTest(r.Context(), req.toScan())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, ScanResponse{Results: results})
}

func (s *Server) handleCodegen(w http.ResponseWriter, r *http.Request) {
	var req CodegenRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	base := s.config.Engine
	genReq := codegen.Request{
		Ticker:         req.Ticker,
		Strategy:       req.Strategy,
		Params:         req.Params,
		Fees:           orDefault(req.Fees, base.Fees),
		Slippage:       orDefault(req.Slippage, base.Slippage),
		InitialCapital: orDefault(req.InitialCapital, base.InitialCapital),
	}

	code, err := codegen.Generate(req.Framework, genReq)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, CodegenResponse{Framework: req.Framework, Code: code})
}

func orDefault(value float64, fallback float64) float64 {
	if value == 0 {
		return fallback
	}

	return value
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.config.Presets.List(r.Context(), mux.Vars(r)["user"])
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, presets)
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var req PresetRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	preset, err := s.config.Presets.Save(r.Context(), store.Preset{
		UserID:   mux.Vars(r)["user"],
		Name:     req.Name,
		Strategy: req.Strategy,
		Params:   req.Params,
	})
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, preset)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	preset, err := s.config.Presets.Get(r.Context(), vars["user"], vars["name"])
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, preset)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := s.config.Presets.Delete(r.Context(), vars["user"], vars["name"]); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
