package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const Version = "1.0.0"

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthController struct {
	checker HealthChecker
	log     *slog.Logger
}

func NewHealthController(checker HealthChecker, log *slog.Logger) *HealthController {
	return &HealthController{
		checker: checker,
		log:     log,
	}
}

// Health is the liveness probe. It pings the database on every call.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.health.Health"

	if err := c.checker.Ping(r.Context()); err != nil {
		c.log.Warn("health check failed", slog.String("operation", op), slog.String("error", err.Error()))
		writeJSON(w, c.log, http.StatusServiceUnavailable, HealthResponse{
			Status:    "error",
			Message:   "database connection failed",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	writeJSON(w, c.log, http.StatusOK, HealthResponse{
		Status:    "ok",
		Message:   "backend is healthy",
		Timestamp: time.Now().UTC(),
	})
}

type IndexResponse struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

func Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, nil, http.StatusOK, IndexResponse{
		Message: "GameStore API is running",
		Version: Version,
		Endpoints: []string{
			"GET /api/health - service and database health",
			"GET /api/games - list all games",
			"GET /api/games/:id - get a game",
			"POST /api/games - create a game",
			"PUT /api/games/:id - update a game",
			"DELETE /api/games/:id - delete a game",
			"GET /api/categories - list all categories",
			"POST /api/categories - create a category",
			"DELETE /api/categories/:id - delete a category",
		},
	})
}
