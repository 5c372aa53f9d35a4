// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/okian/roster/internal/adapters/repository"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/sqlerr"
	"github.com/okian/roster/pkg/logger"
)

// Response messages with fixed wording.
const (
	msgRecordsNotFound  = "Records not found"
	msgNoStudents       = "There are no students in the cohort with that id"
	msgCohortDeleted    = "Successfully deleted cohort"
	msgRouteNotFound    = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
)

// CohortStore is the storage contract behind the cohort routes.
type CohortStore interface {
	Create(ctx context.Context, fields repository.Fields) (model.Cohort, error)
	List(ctx context.Context) ([]model.Cohort, error)
	Get(ctx context.Context, id int64) (*model.Cohort, error)
	Update(ctx context.Context, id int64, fields repository.Fields) (model.Cohort, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// StudentStore is the storage contract behind the student routes.
type StudentStore interface {
	Create(ctx context.Context, fields repository.Fields) (model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
	Get(ctx context.Context, id int64) (*model.Student, error)
	Update(ctx context.Context, id int64, fields repository.Fields) (model.Student, error)
	Delete(ctx context.Context, id int64) (int64, error)
	ListByCohort(ctx context.Context, cohortID int64) ([]model.Student, error)
}

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Cohorts() CohortStore
	Students() StudentStore
}

// Server wires HTTP routes for the roster API.
type Server struct {
	cfg      serverConfig
	log      logger.Logger
	health   *HealthHandler
	stats    *StatsHandler
	cohorts  *CohortsHandler
	students *StudentsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := serverConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger
	if log == nil {
		log = logger.Get().Named("api")
	}

	base := handlerBase{
		log:           log,
		validate:      newValidator(),
		notFoundOnGet: cfg.notFoundOnGet,
	}
	return &Server{
		cfg:      cfg,
		log:      log,
		health:   NewHealthHandler(cfg.health),
		stats:    NewStatsHandler(cfg.stats),
		cohorts:  &CohortsHandler{handlerBase: base, cohorts: deps.Cohorts(), students: deps.Students()},
		students: &StudentsHandler{handlerBase: base, students: deps.Students()},
	}
}

// Register attaches middleware and all routes to r. Resource routes are
// served both at the root and under /api.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(
		middleware.RealIP,
		RequestID,
		AccessLog(s.log),
		middleware.Recoverer,
		SecurityHeaders,
		cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}),
		Metrics,
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, msgRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	r.Get("/healthz", s.health.HandleHealth)
	r.Get("/metrics", s.health.HandleMetrics)
	r.Get("/stats", s.stats.HandleStats)

	s.resources(r)
	r.Route("/api", s.resources)
}

// Handler returns a fresh router with every route registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	s.Register(ctx, r)
	return r
}

func (s *Server) resources(r chi.Router) {
	r.Route("/cohorts", func(r chi.Router) {
		r.Post("/", s.cohorts.HandleCreate)
		r.Get("/", s.cohorts.HandleList)
		r.Get("/{id}", s.cohorts.HandleGet)
		r.Get("/{id}/students", s.cohorts.HandleListStudents)
		r.Put("/{id}", s.cohorts.HandleUpdate)
		r.Delete("/{id}", s.cohorts.HandleDelete)
	})
	r.Route("/students", func(r chi.Router) {
		r.Post("/", s.students.HandleCreate)
		r.Get("/", s.students.HandleList)
		r.Get("/{id}", s.students.HandleGet)
		r.Put("/{id}", s.students.HandleUpdate)
		r.Delete("/{id}", s.students.HandleDelete)
	})
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Error   *sqlerr.Detail    `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// handlerBase carries what every resource handler shares.
type handlerBase struct {
	log           logger.Logger
	validate      *validator.Validate
	notFoundOnGet bool
}

// fail maps err onto a response: client errors become 400, missing rows
// 404 and everything else a 500 carrying the translated engine message.
func (h handlerBase) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: reqErr.Message, Fields: reqErr.Fields})
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		writeMessage(w, http.StatusNotFound, msgRecordsNotFound)
	case errors.Is(err, repository.ErrNoFields), errors.Is(err, repository.ErrUnknownColumn):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		detail := sqlerr.Describe(err)
		h.log.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("code", detail.Code),
			logger.Error(WrapKind(op, ErrStorage, err)),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: sqlerr.Message(err), Error: &detail})
	}
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id %q", raw)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
