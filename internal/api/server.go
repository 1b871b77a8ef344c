package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"monitor-insights-go/internal/config"
	"monitor-insights-go/internal/dataset"
	"monitor-insights-go/internal/logger"
	"monitor-insights-go/internal/report"
	"monitor-insights-go/internal/types"
)

const dayLayout = "2006-01-02"

type Server struct {
	cfg   config.Config
	log   *logger.Logger
	cache *dataset.Cache
	now   func() time.Time
}

func New(cfg config.Config, log *logger.Logger, cache *dataset.Cache) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{cfg: cfg, log: log.Component("api"), cache: cache, now: time.Now}
}

// Routes returns the HTTP handler of the service.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.log.WithRequest(r).Debug("health check")
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /dataset", s.handleDataset)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /agents", s.handleAgents)
	mux.HandleFunc("GET /agents/detail", s.handleAgentDetail)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /report", s.handleReport)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var se *dataset.SchemaError
	var pe *dataset.ParseError
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, dataset.ErrNoDataset):
		return http.StatusConflict
	case errors.Is(err, report.ErrUnknownAgent):
		return http.StatusNotFound
	case errors.As(err, &se):
		return http.StatusUnprocessableEntity
	case errors.As(err, &pe):
		return http.StatusBadRequest
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, handler string, err error) {
	status := statusFor(err)
	entry := s.log.WithRequest(r).WithField("handler", handler).WithField("status", status).WithField("error", err.Error())
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	_ = writeJSON(w, status, errorBody{Error: err.Error()})
}

var errBadQuery = errors.New("bad query")

// parseFilter reads from, to (YYYY-MM-DD) and the repeated agent, risk,
// satisfaction and company parameters.
func parseFilter(r *http.Request) (dataset.FilterSpec, error) {
	q := r.URL.Query()
	var f dataset.FilterSpec
	var err error
	if v := q.Get("from"); v != "" {
		if f.From, err = time.Parse(dayLayout, v); err != nil {
			return f, fmt.Errorf("%w: from %q: want YYYY-MM-DD", errBadQuery, v)
		}
	}
	if v := q.Get("to"); v != "" {
		if f.To, err = time.Parse(dayLayout, v); err != nil {
			return f, fmt.Errorf("%w: to %q: want YYYY-MM-DD", errBadQuery, v)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, fmt.Errorf("%w: to is before from", errBadQuery)
	}
	f.Agents = nonEmpty(q["agent"])
	f.Companies = nonEmpty(q["company"])
	for _, v := range nonEmpty(q["risk"]) {
		c := types.RiskCluster(strings.ToUpper(v))
		if !slices.Contains(types.RiskClusters, c) {
			return f, fmt.Errorf("%w: risk %q", errBadQuery, v)
		}
		f.Risks = append(f.Risks, c)
	}
	for _, v := range nonEmpty(q["satisfaction"]) {
		c := types.SatisfactionCluster(strings.ToUpper(v))
		if !slices.Contains(types.SatisfactionClusters, c) {
			return f, fmt.Errorf("%w: satisfaction %q", errBadQuery, v)
		}
		f.Satisfaction = append(f.Satisfaction, c)
	}
	return f, nil
}

func nonEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
