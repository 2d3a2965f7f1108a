// Package rest exposes the event and participation use cases over HTTP.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"socialevents/internal/ports/input"
	"socialevents/internal/ports/output"
)

// HealthChecker reports whether the backing store can be reached.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type Server struct {
	events         input.EventUseCase
	participations input.ParticipationUseCase
	translator     output.Translator
	health         HealthChecker
	opts           Options
}

func NewServer(
	events input.EventUseCase,
	participations input.ParticipationUseCase,
	translator output.Translator,
	health HealthChecker,
	opts Options,
) *Server {
	return &Server{
		events:         events,
		participations: participations,
		translator:     translator,
		health:         health,
		opts:           opts,
	}
}

// Handler returns the router wrapped with CORS, request ids, request logging
// and panic recovery. Logging sits outside the router so unmatched routes are
// logged too; the per-request deadline applies to matched routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(withTimeout(s.opts.RequestTimeout))

	r.HandleFunc("/", s.root).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	r.HandleFunc("/events", s.createEvent).Methods(http.MethodPost)
	r.HandleFunc("/events", s.listEvents).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}", s.getEvent).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}", s.updateEvent).Methods(http.MethodPut)
	r.HandleFunc("/events/{id}/join", s.joinEvent).Methods(http.MethodPost)

	r.HandleFunc("/joined-events/{userEmail}", s.joinedEvents).Methods(http.MethodGet)
	r.HandleFunc("/my-events/{userEmail}", s.myEvents).Methods(http.MethodGet)

	recovered := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)(r)

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept-Language", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(requestID(logRequests(recovered)))
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.t(r, "http.root")))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			logError(r, err, "health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) t(r *http.Request, key string) string {
	return s.translator.T(r.Header.Get("Accept-Language"), key, nil)
}
