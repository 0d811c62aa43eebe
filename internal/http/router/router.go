package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/config"
	"github.com/hiland-surveyors/survey-api/internal/http/handler"
	"github.com/hiland-surveyors/survey-api/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	healthHandler     *handler.HealthHandler
	authHandler       *handler.AuthHandler
	clientHandler     *handler.ClientHandler
	crewHandler       *handler.CrewHandler
	vehicleHandler    *handler.VehicleHandler
	instrumentHandler *handler.InstrumentHandler
	siteHandler       *handler.SiteHandler
	billHandler       *handler.BillHandler
	expenseHandler    *handler.ExpenseHandler
	enquiryHandler    *handler.EnquiryHandler
	dashboardHandler  *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	clientHandler *handler.ClientHandler,
	crewHandler *handler.CrewHandler,
	vehicleHandler *handler.VehicleHandler,
	instrumentHandler *handler.InstrumentHandler,
	siteHandler *handler.SiteHandler,
	billHandler *handler.BillHandler,
	expenseHandler *handler.ExpenseHandler,
	enquiryHandler *handler.EnquiryHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		healthHandler:     healthHandler,
		authHandler:       authHandler,
		clientHandler:     clientHandler,
		crewHandler:       crewHandler,
		vehicleHandler:    vehicleHandler,
		instrumentHandler: instrumentHandler,
		siteHandler:       siteHandler,
		billHandler:       billHandler,
		expenseHandler:    expenseHandler,
		enquiryHandler:    enquiryHandler,
		dashboardHandler:  dashboardHandler,
	}
}

// crudHandler is the shape shared by every owned-resource handler
type crudHandler interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	GetByID(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func mountCRUD(r chi.Router, h crudHandler) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health checks
	r.Get("/health", rt.healthHandler.Live)
	r.Get("/health/db", rt.healthHandler.Database)
	r.Get("/health/ready", rt.healthHandler.Ready)

	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/register", rt.authHandler.Register)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(middleware.TagAdmin)
			r.Use(rt.rateLimiter.Limit)

			r.Post("/auth/logout", rt.authHandler.Logout)
			r.Get("/auth/me", rt.authHandler.Me)

			r.Route("/clients", func(r chi.Router) { mountCRUD(r, rt.clientHandler) })
			r.Route("/crews", func(r chi.Router) { mountCRUD(r, rt.crewHandler) })
			r.Route("/vehicles", func(r chi.Router) { mountCRUD(r, rt.vehicleHandler) })
			r.Route("/instruments", func(r chi.Router) { mountCRUD(r, rt.instrumentHandler) })
			r.Route("/sites", func(r chi.Router) { mountCRUD(r, rt.siteHandler) })
			r.Route("/enquiries", func(r chi.Router) { mountCRUD(r, rt.enquiryHandler) })

			r.Route("/bills", func(r chi.Router) {
				r.Get("/next-number", rt.billHandler.NextNumber)
				r.Get("/export", rt.billHandler.Export)
				mountCRUD(r, rt.billHandler)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/export", rt.expenseHandler.Export)
				mountCRUD(r, rt.expenseHandler)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/revenue-chart", rt.dashboardHandler.RevenueChart)
				r.Get("/site-status-distribution", rt.dashboardHandler.SiteStatusDistribution)
				r.Get("/expense-breakdown", rt.dashboardHandler.ExpenseBreakdown)
				r.Get("/top-clients", rt.dashboardHandler.TopClients)
				r.Get("/reminders", rt.dashboardHandler.Reminders)
			})
		})
	})

	return r
}
