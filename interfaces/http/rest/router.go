package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"vector-pai/application/services"
	"vector-pai/domain/entities"
	"vector-pai/interfaces/http/rest/handlers"
	"vector-pai/interfaces/http/rest/middleware"
	"vector-pai/pkg/auth"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
	"vector-pai/pkg/observability"
)

// Services groups the application services exposed over HTTP
type Services struct {
	Groups        *services.CatalogService[entities.Group]
	Origins       *services.CatalogService[entities.Origin]
	Contracts     *services.ContractService
	Cycles        *services.CycleService
	Users         *services.UserService
	UserContracts *services.UserContractService
	Periods       *services.PeriodService
	Login         *services.LoginService
	Email         *services.EmailService
}

// Router creates and configures the HTTP router
type Router struct {
	services  Services
	validator auth.TokenValidator
	limiter   auth.RateLimiter
	metrics   *observability.Metrics
	errors    *errors.ErrorHandler
	logger    *zap.Logger
}

// NewRouter creates a new router instance. limiter and metrics may be nil.
func NewRouter(
	svc Services,
	validator auth.TokenValidator,
	limiter auth.RateLimiter,
	metrics *observability.Metrics,
	errHandler *errors.ErrorHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		services:  svc,
		validator: validator,
		limiter:   limiter,
		metrics:   metrics,
		errors:    errHandler,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Must be set before any Route call so subrouters inherit them
	router.NotFound(handlers.NotFound(rt.errors))
	router.MethodNotAllowed(handlers.MethodNotAllowed(rt.errors))

	router.Use(chimiddleware.RequestID)
	router.Use(middleware.RequestContext)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Authorization", "Authentication", "Content-Type", "X-Request-ID"},
		ExposedHeaders:     []string{"X-Request-ID"},
		OptionsPassthrough: true,
		MaxAge:             300,
	}))
	router.Use(middleware.Preflight)

	router.Get("/health", rt.healthCheck)

	authenticate := middleware.Authenticate(rt.validator, rt.limiter, rt.errors, rt.logger)

	router.Route("/opr", func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/"+entities.EntityGroup, catalogRoutes(handlers.NewCatalogHandler(rt.services.Groups, "id_grupo", rt.errors, rt.logger)))
		r.Route("/"+entities.EntityOrigin, catalogRoutes(handlers.NewCatalogHandler(rt.services.Origins, "id_origen", rt.errors, rt.logger)))

		r.Route("/"+entities.EntityContract, func(r chi.Router) {
			h := handlers.NewContractHandler(rt.services.Contracts, rt.errors, rt.logger)
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id_empresa}", h.Get)
			r.Put("/{id_empresa}", h.Update)
			r.Delete("/{id_empresa}", h.Delete)
		})

		r.Route("/"+entities.EntityCycle, func(r chi.Router) {
			h := handlers.NewCycleHandler(rt.services.Cycles, rt.errors, rt.logger)
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id_ciclo}", h.Get)
			r.Put("/{id_ciclo}", h.Update)
			r.Delete("/{id_ciclo}", h.Delete)
		})

		r.Route("/"+entities.EntityUser, func(r chi.Router) {
			h := handlers.NewUserHandler(rt.services.Users, rt.errors, rt.logger)
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id_usuario}", h.Get)
			r.Put("/{id_usuario}", h.Update)
			r.Delete("/{id_usuario}", h.Delete)
		})

		r.Route("/"+entities.EntityUserContract, func(r chi.Router) {
			h := handlers.NewUserContractHandler(rt.services.UserContracts, rt.errors, rt.logger)
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get(handlers.UserContractPath, h.Get)
			r.Put(handlers.UserContractPath, h.Update)
			r.Delete(handlers.UserContractPath, h.Delete)
		})

		r.Route("/"+entities.EntityPeriod, func(r chi.Router) {
			h := handlers.NewPeriodHandler(rt.services.Periods, rt.errors, rt.logger)
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{periodo}", h.Get)
		})
	})

	router.Route("/contexto", func(r chi.Router) {
		h := handlers.NewContextHandler(rt.services.Login, rt.services.Email, rt.errors, rt.logger)
		r.With(middleware.RateLimit(rt.limiter, rt.errors)).Post("/login", h.Login)
		r.With(authenticate).Put("/validate", h.Validate)
		r.With(authenticate).Post("/send-email", h.SendEmail)
	})

	return router
}

func catalogRoutes[T any](h *handlers.CatalogHandler[T]) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get(h.IDParam(), h.Get)
		r.Put(h.IDParam(), h.Update)
		r.Delete(h.IDParam(), h.Delete)
	}
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
