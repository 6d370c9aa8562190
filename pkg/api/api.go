// Package api exposes the order workflows over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	"orderms/pkg/logger"
	"orderms/pkg/order"
)

// OrderService is the workflow the handlers drive.
type OrderService interface {
	GetOrder(ctx context.Context, id string) (order.View, error)
	PlaceOrder(ctx context.Context, req order.PurchaseRequest) error
}

// SessionStore resolves login sessions.
type SessionStore interface {
	Create(ctx context.Context, user string) (string, error)
	User(ctx context.Context, sid string) (string, error)
	TTL() time.Duration
}

// Handler serves the order API.
type Handler struct {
	log      *logger.Logger
	orders   OrderService
	sessions SessionStore
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithSessions requires a live session on the order routes and enables /login.
func WithSessions(s SessionStore) Option {
	return func(h *Handler) { h.sessions = s }
}

// WithTracer sets the tracer handlers start spans from.
func WithTracer(t trace.Tracer) Option {
	return func(h *Handler) { h.tracer = t }
}

// WithClock overrides the clock used for error timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New constructs a Handler.
func New(log *logger.Logger, orders OrderService, opts ...Option) *Handler {
	h := &Handler{
		log:    log,
		orders: orders,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router for the API.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(h.traceMiddleware, h.requestLogger)

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	if h.sessions != nil {
		r.HandleFunc("/login", h.loginHandler).Methods(http.MethodPost)
	}

	api := r.PathPrefix("/v1/orders").Subrouter()
	if h.sessions != nil {
		api.Use(h.authMiddleware)
	}
	api.HandleFunc("", h.placeOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/{id}", h.getOrderHandler).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
