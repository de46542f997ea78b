package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/heartbeat/internal/httpapi/middleware"
	"github.com/hamed0406/heartbeat/internal/repo"
)

// Server exposes the recorded check state read-only.
type Server struct {
	Logger   *zap.Logger
	Checks   repo.CheckStore
	Hub      *Hub
	Gatherer prometheus.Gatherer
}

func NewServer(l *zap.Logger, checks repo.CheckStore, hub *Hub, g prometheus.Gatherer) *Server {
	return &Server{Logger: l, Checks: checks, Hub: hub, Gatherer: g}
}

// Router builds the HTTP handler. /healthz and /metrics are open; /api
// requires a public key when keys are configured and is rate limited per
// client at rpm requests per minute.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, rpm, burst int) http.Handler {
	r := chi.NewRouter()
	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "X-API-Key"},
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(keys, rpm, burst))
		r.Use(apimw.RequireKey(keys))
		r.Get("/checks", s.handleListChecks)
		r.Get("/checks/{name}", s.handleGetCheck)
		if s.Hub != nil {
			r.Get("/stream", s.Hub.HandleConnect)
		}
	})
	return r
}

func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	snap := s.Checks.Snapshot()
	out := make([]checkView, 0, len(snap))
	for _, c := range snap {
		out = append(out, newCheckView(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, err := s.Checks.Lookup(name)
	if errors.Is(err, repo.ErrUnknownCheck) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown check"})
		return
	}
	if err != nil {
		s.Logger.Warn("api_lookup_error", zap.String("check", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, newCheckView(c))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
