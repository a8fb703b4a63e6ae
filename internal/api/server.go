// Package api exposes the ledger and the live portfolio over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tradebook/internal/engine"
	"tradebook/internal/repository"
	"tradebook/types"

	"github.com/shopspring/decimal"
)

// Service is the part of engine.Engine the handlers use.
type Service interface {
	RecordTrade(ctx context.Context, trade types.TradeRecord) (types.TradeRecord, error)
	Trades(ctx context.Context) ([]types.TradeRecord, error)
	DeleteTrade(ctx context.Context, id string) error
	Portfolio(ctx context.Context) (types.PortfolioView, []types.TradeRecord, error)
}

// Server serves the JSON API.
type Server struct {
	service Service
	logger  *slog.Logger
	metrics http.Handler
	server  *http.Server
}

// NewServer creates a server. metrics may be nil to omit /metrics.
func NewServer(service Service, logger *slog.Logger, metrics http.Handler) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Routes returns the handler with every endpoint registered.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/trades", s.listTrades)
	mux.HandleFunc("POST /api/trades", s.createTrade)
	mux.HandleFunc("DELETE /api/trades/{id}", s.deleteTrade)
	mux.HandleFunc("GET /api/portfolio", s.portfolio)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return s.withLogging(mux)
}

// Start blocks serving on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", "addr", addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// CreateTradeRequest is the POST /api/trades body.
type CreateTradeRequest struct {
	Symbol     string           `json:"symbol"`
	Quantity   *decimal.Decimal `json:"quantity"`
	Price      *decimal.Decimal `json:"price"`
	Type       string           `json:"type"`
	ExecutedAt *time.Time       `json:"executedAt,omitempty"`
}

// PortfolioResponse is the GET /api/portfolio body.
type PortfolioResponse struct {
	Positions  []types.PositionSnapshot `json:"positions"`
	TotalValue decimal.Decimal          `json:"totalValue"`
	AsOf       time.Time                `json:"asOf"`
	Trades     []types.TradeRecord      `json:"trades"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.service.Trades(r.Context())
	if err != nil {
		s.sendInternalError(w, "list trades", err)
		return
	}
	if trades == nil {
		trades = []types.TradeRecord{}
	}
	s.sendJSON(w, http.StatusOK, trades)
}

func (s *Server) createTrade(w http.ResponseWriter, r *http.Request) {
	var req CreateTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	trade, msg := req.toTrade()
	if msg != "" {
		s.sendError(w, http.StatusBadRequest, msg)
		return
	}

	stored, err := s.service.RecordTrade(r.Context(), trade)
	switch {
	case errors.Is(err, engine.InvalidTradeErr), errors.Is(err, engine.UnknownSideErr):
		s.sendError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrDuplicateTrade):
		s.sendError(w, http.StatusConflict, err.Error())
	case err != nil:
		s.sendInternalError(w, "record trade", err)
	default:
		s.sendJSON(w, http.StatusCreated, stored)
	}
}

// toTrade validates required fields at the boundary; the message is empty
// when the request is acceptable.
func (req CreateTradeRequest) toTrade() (types.TradeRecord, string) {
	if types.NormalizeSymbol(req.Symbol) == "" {
		return types.TradeRecord{}, "symbol is required"
	}
	if req.Quantity == nil || !req.Quantity.IsPositive() {
		return types.TradeRecord{}, "quantity must be a positive number"
	}
	if req.Price == nil || !req.Price.IsPositive() {
		return types.TradeRecord{}, "price must be a positive number"
	}
	side, err := types.ParseSide(req.Type)
	if err != nil {
		return types.TradeRecord{}, "type must be BUY or SELL"
	}
	var executedAt time.Time
	if req.ExecutedAt != nil {
		executedAt = *req.ExecutedAt
	}
	return types.NewTradeRecord("", req.Symbol, *req.Quantity, *req.Price, side, executedAt), ""
}

func (s *Server) deleteTrade(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.service.DeleteTrade(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrTradeNotFound):
		s.sendError(w, http.StatusNotFound, "trade not found")
	case err != nil:
		s.sendInternalError(w, "delete trade", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) portfolio(w http.ResponseWriter, r *http.Request) {
	view, trades, err := s.service.Portfolio(r.Context())
	if err != nil {
		s.sendInternalError(w, "build portfolio", err)
		return
	}
	if trades == nil {
		trades = []types.TradeRecord{}
	}
	s.sendJSON(w, http.StatusOK, PortfolioResponse{
		Positions:  view.Positions,
		TotalValue: view.TotalValue,
		AsOf:       view.Time,
		Trades:     trades,
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	s.sendJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) sendInternalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, "err", err)
	s.sendError(w, http.StatusInternalServerError, "internal error")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start))
	})
}
