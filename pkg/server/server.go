// Package server exposes the import pipeline and the cash-flow report over
// HTTP for the web client.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/amielsh/centsible/pkg/config"
	"github.com/amielsh/centsible/pkg/flow"
	"github.com/amielsh/centsible/pkg/importer"
	"github.com/amielsh/centsible/pkg/sankey"
	"github.com/amielsh/centsible/pkg/store"
)

// Server handles HTTP requests for statement imports and reports.
type Server struct {
	config   *config.Config
	logger   *log.Logger
	mux      *http.ServeMux
	store    *store.Store
	importer *importer.Importer
}

// New creates the HTTP server over an already-open store.
func New(cfg *config.Config, st *store.Store, imp *importer.Importer, logger *log.Logger) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		store:    st,
		importer: imp,
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	s.logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/import", s.withLogging(s.handleImport))
	s.mux.HandleFunc("/api/report", s.withLogging(s.handleReport))
	s.mux.HandleFunc("/api/accounts", s.withLogging(s.handleAccounts))
	s.mux.HandleFunc("/api/goals", s.withLogging(s.handleGoals))
}

// handleImport accepts a multipart statement upload and runs one import.
// The optional account field pins the target account.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "statement file required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	result, err := s.importer.ImportBytes(data, header.Filename, r.FormValue("account"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "import failed", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"result": result,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleReport builds the flow report for the configured settings, with
// query overrides for window and dimension. When a width is supplied the
// response also carries the laid-out diagram.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	accounts, err := s.store.Accounts()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load accounts", err)
		return
	}
	goals, err := s.store.Goals()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load goals", err)
		return
	}

	opts := s.config.FlowOptions()
	if window := r.URL.Query().Get("window"); window != "" {
		opts.Window = flow.Window(window)
	}
	if dimension := r.URL.Query().Get("dimension"); dimension != "" {
		opts.Dimension = flow.Dimension(dimension)
	}

	report := flow.BuildReport(accounts, goals, opts)

	response := map[string]interface{}{
		"status": "success",
		"report": report,
	}
	if widthParam := r.URL.Query().Get("width"); widthParam != "" {
		width, err := strconv.ParseFloat(widthParam, 64)
		if err != nil || width <= 0 {
			s.respondError(w, r, http.StatusBadRequest, "invalid width", err)
			return
		}
		response["diagram"] = sankey.Layout(report.Nodes, report.Links, sankey.Options{ContainerWidth: width})
	}

	if err := s.writeJSON(w, http.StatusOK, response); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	accounts, err := s.store.Accounts()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load accounts", err)
		return
	}

	type accountView struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Type    string  `json:"type"`
		Balance float64 `json:"balance"`
		Count   int     `json:"transactionCount"`
	}
	views := make([]accountView, len(accounts))
	for i, a := range accounts {
		views[i] = accountView{
			ID:      a.ID,
			Name:    a.Name,
			Type:    string(a.Type),
			Balance: a.Balance(),
			Count:   len(a.Transactions),
		}
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"accounts": views,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	goals, err := s.store.Goals()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load goals", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"goals":  goals,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
