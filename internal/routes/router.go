package routes

import (
	"log/slog"
	"net/http"
	"time"

	"gamestore/internal/config"
	"gamestore/internal/controllers"
	mw "gamestore/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRouter(
	log *slog.Logger,
	games controllers.GameServicer,
	categories controllers.CategoryServicer,
	health controllers.HealthChecker,
	cfg config.HTTPServer,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(mw.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	r.NotFound(controllers.NotFound)
	r.MethodNotAllowed(controllers.NotFound)

	gameController := controllers.NewGameController(games, log)
	categoryController := controllers.NewCategoryController(categories, log)
	healthController := controllers.NewHealthController(health, log)

	r.Get("/", controllers.Index)
	r.Get("/api/health", healthController.Health)

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", gameController.GetAll)
		r.Post("/", gameController.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", gameController.GetByID)
			r.Put("/", gameController.Update)
			r.Delete("/", gameController.Delete)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", categoryController.GetAll)
		r.Post("/", categoryController.Create)
		r.Delete("/{id}", categoryController.Delete)
	})

	return r
}
