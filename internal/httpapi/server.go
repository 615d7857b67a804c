// Package httpapi serves the dashboard data as JSON for a chart front end.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	sheetdash "github.com/ideamans/go-sheetdash"
)

// Server routes dashboard requests to a sheetdash client
type Server struct {
	client *sheetdash.Client
	router *chi.Mux
	logger *log.Logger
}

// New creates a server for client; a nil logger discards request logs
func New(client *sheetdash.Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &Server{
		client: client,
		router: chi.NewRouter(),
		logger: logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger, NoColor: true}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/workbook", s.handleWorkbook)
		r.Get("/progress", s.handleProgress)
		r.Get("/progress/summary", s.handleSummary)
		r.Get("/weeks", s.handleListWeeks)
		r.Get("/weeks/{week}", s.handleWeek)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("[HTTP] failed to encode response: %v", err)
	}
}

// writeError maps library errors to HTTP statuses: source-level failures
// are 503, missing sheets 404
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sheetdash.ErrSheetNotFound):
		status = http.StatusNotFound
	case sheetdash.IsFatal(err), errors.Is(err, sheetdash.ErrClientClosed):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Printf("[HTTP] %v", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok"}
	if last := s.client.Last(); last != nil {
		resp["version"] = last.Version.String()
		resp["refreshed_at"] = last.RefreshedAt
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type workbookResponse struct {
	Locator string   `json:"locator"`
	Version string   `json:"version"`
	Sheets  []string `json:"sheets"`
	Weeks   []string `json:"weeks"`
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	wb, err := s.client.GetWorkbook(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	names := wb.SheetNames()
	s.writeJSON(w, http.StatusOK, workbookResponse{
		Locator: wb.Locator(),
		Version: wb.Version().String(),
		Sheets:  names,
		Weeks:   sheetdash.WeekSheets(names),
	})
}

type progressResponse struct {
	sheetdash.ReshapeResult
	Tasks        []string `json:"tasks"`
	DefaultTasks []string `json:"default_tasks"`
	Periods      []string `json:"periods"`
	Total        int      `json:"total"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	query, err := parseRecordQuery(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.client.GetProgressRecords(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	all := result.Records
	result.Records = sheetdash.ApplyRecordQuery(all, query)
	s.writeJSON(w, http.StatusOK, progressResponse{
		ReshapeResult: result,
		Tasks:         sheetdash.TaskNames(all),
		DefaultTasks:  sheetdash.DefaultTasks(all, s.client.Config().MaxDefaultTasks),
		Periods:       sheetdash.Periods(all),
		Total:         len(all),
	})
}

type summaryResponse struct {
	Summaries  []sheetdash.PeriodSummary `json:"summaries"`
	Diagnostic *sheetdash.Diagnostic     `json:"diagnostic,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	result, err := s.client.GetProgressRecords(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, summaryResponse{
		Summaries:  sheetdash.Summarize(result.Records),
		Diagnostic: result.Diagnostic,
	})
}

func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.client.ListWeeks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"weeks": weeks})
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	sheet := sheetdash.ResolveWeek(chi.URLParam(r, "week"))

	table, err := s.client.GetWeekSnapshot(r.Context(), sheet)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, table)
}

// parseRecordQuery reads task, period, min, max, limit and offset parameters
func parseRecordQuery(r *http.Request) (sheetdash.RecordQuery, error) {
	params := r.URL.Query()
	query := sheetdash.RecordQuery{
		Tasks:   params["task"],
		Periods: params["period"],
	}

	var err error
	if query.Limit, err = intParam(params.Get("limit")); err != nil {
		return query, fmt.Errorf("invalid limit: %w", err)
	}
	if query.Offset, err = intParam(params.Get("offset")); err != nil {
		return query, fmt.Errorf("invalid offset: %w", err)
	}
	if query.MinProgress, err = floatParam(params.Get("min")); err != nil {
		return query, fmt.Errorf("invalid min: %w", err)
	}
	if query.MaxProgress, err = floatParam(params.Get("max")); err != nil {
		return query, fmt.Errorf("invalid max: %w", err)
	}

	return query, sheetdash.ValidateRecordQuery(query)
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func floatParam(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
