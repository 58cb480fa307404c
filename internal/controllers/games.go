package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"gamestore/internal/models"
	"gamestore/internal/storage"
)

type GameServicer interface {
	GetAll(ctx context.Context) ([]models.Game, error)
	GetByID(ctx context.Context, id int64) (*models.Game, error)
	Create(ctx context.Context, g *models.Game) (int64, error)
	Update(ctx context.Context, id int64, g *models.Game) error
	Delete(ctx context.Context, id int64) error
}

type GameController struct {
	service GameServicer
	log     *slog.Logger
}

func NewGameController(s GameServicer, log *slog.Logger) *GameController {
	return &GameController{
		service: s,
		log:     log,
	}
}

func (c *GameController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetAll"

	res, err := c.service.GetAll(r.Context())
	if err != nil {
		c.log.Error(
			ErrGetGames.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		writeError(w, c.log, http.StatusInternalServerError, ErrGetGames)
		return
	}

	writeJSON(w, c.log, http.StatusOK, res)
}

func (c *GameController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetByID"

	id, err := parseID(r)
	if err != nil {
		writeError(w, c.log, http.StatusBadRequest, err)
		return
	}

	res, err := c.service.GetByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, c.log, http.StatusNotFound, ErrGameNotFound)
		return
	}
	if err != nil {
		c.log.Error(
			ErrGetGame.Error(),
			slog.String("operation", op),
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		writeError(w, c.log, http.StatusInternalServerError, ErrGetGame)
		return
	}

	writeJSON(w, c.log, http.StatusOK, res)
}

func (c *GameController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Create"

	in, ok := c.decodeGame(w, r, op)
	if !ok {
		return
	}

	id, err := c.service.Create(r.Context(), in.Game())
	if err != nil {
		c.log.Error(
			ErrCreate.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		writeError(w, c.log, http.StatusInternalServerError, ErrCreate)
		return
	}

	c.log.Info("game created", slog.Int64("id", id), slog.String("title", in.Title))

	writeJSON(w, c.log, http.StatusCreated, MessageResponse{ID: id, Message: "game created"})
}

func (c *GameController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Update"

	id, err := parseID(r)
	if err != nil {
		writeError(w, c.log, http.StatusBadRequest, err)
		return
	}

	in, ok := c.decodeGame(w, r, op)
	if !ok {
		return
	}

	err = c.service.Update(r.Context(), id, in.Game())
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, c.log, http.StatusNotFound, ErrGameNotFound)
		return
	}
	if err != nil {
		c.log.Error(
			ErrUpdate.Error(),
			slog.String("operation", op),
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		writeError(w, c.log, http.StatusInternalServerError, ErrUpdate)
		return
	}

	writeJSON(w, c.log, http.StatusOK, MessageResponse{Message: "game updated"})
}

func (c *GameController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Delete"

	id, err := parseID(r)
	if err != nil {
		writeError(w, c.log, http.StatusBadRequest, err)
		return
	}

	err = c.service.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, c.log, http.StatusNotFound, ErrGameNotFound)
		return
	}
	if err != nil {
		c.log.Error(
			ErrDelete.Error(),
			slog.String("operation", op),
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		writeError(w, c.log, http.StatusInternalServerError, ErrDelete)
		return
	}

	writeJSON(w, c.log, http.StatusOK, MessageResponse{Message: "game deleted"})
}

// decodeGame reads the body and checks it against the game contract. It
// writes the 400 response itself.
func (c *GameController) decodeGame(w http.ResponseWriter, r *http.Request, op string) (*models.GameInput, bool) {
	var in models.GameInput
	if err := decodeJSON(w, r, &in); err != nil {
		c.log.Debug(ErrBadRequest.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeError(w, c.log, http.StatusBadRequest, ErrBadRequest)
		return nil, false
	}

	if err := models.Validate(&in); err != nil {
		writeError(w, c.log, http.StatusBadRequest, err)
		return nil, false
	}

	return &in, true
}
