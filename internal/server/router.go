package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	authctrl "tableside/internal/auth/controller"
	"tableside/internal/commons"
	menuctrl "tableside/internal/menu/controller"
	orderctrl "tableside/internal/order/controller"
	statsctrl "tableside/internal/stats/controller"
)

type Handlers struct {
	Auth   *authctrl.AuthController
	Menu   *menuctrl.MenuController
	Orders *orderctrl.OrderController
	Stats  *statsctrl.StatsController
}

// NewRouter mounts the API under /api. Login and the menu listing are
// public; every other route goes through authenticate.
func NewRouter(h Handlers, authenticate func(http.Handler) http.Handler, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(commons.Trace)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(commons.MaxBodyBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{commons.TraceHeader},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		commons.WriteJSON(w, http.StatusOK, map[string]string{
			"service": "tableside",
			"status":  "running",
		}, logger)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)
		r.Get("/menu", h.Menu.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/register", h.Auth.Register)
			r.Get("/users", h.Auth.ListUsers)
			r.Delete("/users/{id}", h.Auth.DeleteUser)

			r.Post("/menu", h.Menu.Create)
			r.Put("/menu/{id}", h.Menu.Update)
			r.Delete("/menu/{id}", h.Menu.Delete)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.Orders.Create)
				r.Get("/", h.Orders.List)
				r.Get("/{id}", h.Orders.Get)
				r.Put("/{id}", h.Orders.Update)
				r.Delete("/{id}", h.Orders.Delete)
			})

			r.Get("/stats/daily", h.Stats.Daily)
			r.Get("/export/orders", h.Stats.Export)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("traceId", commons.TraceID(r)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
