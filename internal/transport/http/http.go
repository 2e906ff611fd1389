package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/ticketview"
	"github.com/driano7/XocoCafe-sub000/internal/transport/http/docs"
	getticket "github.com/driano7/XocoCafe-sub000/internal/transport/http/v1/get_ticket"
	"github.com/driano7/XocoCafe-sub000/pkg/http/middleware/trace"
	"github.com/driano7/XocoCafe-sub000/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type service interface {
	ResolveTicket(ctx context.Context, rawIdentifier string) (ticketview.Resolution, error)
	FailureMessage(err error) string
}

type pinger interface {
	Ping(ctx context.Context) error
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
	db      pinger
}

func NewHTTPTransport(service service, db pinger) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
		db:      db,
	}
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Use(trace.NewTraceMiddleware)
		r.Get("/tickets/{identifier}", h.getTicket)
		r.Get("/tickets/", h.getTicket)
	})

	h.router.Get("/healthz", h.health)

	h.router.Get("/swagger/doc.json", serveOpenAPI)
	h.router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (h *HTTPTransport) getTicket(w http.ResponseWriter, r *http.Request) {
	getticket.GetTicket(w, r, h.service)
}

func (h *HTTPTransport) health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			slog.Error("Health check failed", "error", err)
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)

			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		slog.Error("Error writing health response", "error", err)
	}
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(docs.OpenAPI); err != nil {
		slog.Error("Error writing OpenAPI document", "error", err)
	}
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	readTimeout := viper.GetInt("server.http.read_timeout_seconds")
	if readTimeout == 0 {
		readTimeout = 10
	}

	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(readTimeout) * time.Second,
	}
}
