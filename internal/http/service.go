package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/storefront-catalog/api-contract"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/envelope"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/metric"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/swagger"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg     config.HTTP
	logger  *slog.Logger
	metrics *metric.Metrics

	authenticator auth.Authenticator
	validator     validator.Validator
	healthChecker db.HealthChecker
	productSvc    service.ProductService
	catalogSvc    service.CatalogService
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	authenticator auth.Authenticator,
	validator validator.Validator,
	healthChecker db.HealthChecker,
	productSvc service.ProductService,
	catalogSvc service.CatalogService,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        log.With(slog.String("service", "http")),
		metrics:       metric.New(),
		authenticator: authenticator,
		validator:     validator,
		healthChecker: healthChecker,
		productSvc:    productSvc,
		catalogSvc:    catalogSvc,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler(ctx context.Context) (http.Handler, error) {
	doc, err := apicontract.Load(ctx)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(r, doc, apicontract.Raw()); err != nil {
			return nil, fmt.Errorf("register docs: %w", err)
		}
	}

	if err := s.RegisterHandlers(r, doc); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", s.cfg.Port, err)
	}

	// imports wait on the remote catalog, whose client times out at 30s
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      45 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "http server stopped", slog.Any("error", err))
		}
	}()

	s.logger.InfoContext(ctx, "http server listening", slog.String("addr", lis.Addr().String()))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router, doc *openapi3.T) error {
	openapiRouter, err := middleware.NewOpenAPIRouter(doc)
	if err != nil {
		return fmt.Errorf("create openapi router: %w", err)
	}

	h := newProductHandler(s)
	authenticate := middleware.Authenticate(s.authenticator, s.handleResponseError)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.handleResponseError(w, r, apperr.RouteNotFoundErr)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.handleResponseError(w, r, apperr.MethodNotAllowedErr)
	})

	r.Get("/healthz", s.health)
	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(
			authenticate,
			middleware.OpenAPIValidator(openapiRouter, s.handleRequestError),
		)

		r.Get("/", h.listProducts)
		r.Post("/import", h.importProducts)
		r.Get("/{id}", h.getProduct)
		r.Delete("/{id}", h.deleteProduct)
	})

	r.With(authenticate).HandleFunc("/app/products", h.appProducts)

	return nil
}

// writeEnvelope writes env, logging encoding failures.
func (s *Service) writeEnvelope(w http.ResponseWriter, r *http.Request, env envelope.Envelope) {
	if err := envelope.Write(w, env); err != nil {
		s.logger.WarnContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

func (s *Service) handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	env := envelope.FromError(err)
	if env.Status == http.StatusInternalServerError {
		env = envelope.FromError(apperr.ValidationErr.WrapParent(err))
	}

	s.logger.WarnContext(r.Context(), "http request error", slog.Any("error", err))
	s.writeEnvelope(w, r, env)
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	env := envelope.FromError(err)

	logLevel := slog.LevelInfo
	if env.Status >= 500 {
		logLevel = slog.LevelError
	} else if env.Status >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	s.writeEnvelope(w, r, env)
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	if ok, err := s.healthChecker.IsHealthy(r.Context()); err != nil || !ok {
		s.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		s.writeEnvelope(w, r, envelope.FromError(apperr.UnhealthyErr.WrapParent(err)))
		return
	}

	s.writeEnvelope(w, r, envelope.OK(http.StatusOK, "ok", nil))
}
