package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"gamestore/internal/models"
	"gamestore/internal/storage"
)

type CategoryServicer interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryController struct {
	service CategoryServicer
	log     *slog.Logger
}

func NewCategoryController(s CategoryServicer, log *slog.Logger) *CategoryController {
	return &CategoryController{
		service: s,
		log:     log,
	}
}

func (c *CategoryController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.categories.GetAll"

	res, err := c.service.GetAll(r.Context())
	if err != nil {
		c.log.Error(
			ErrGetCategories.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		writeError(w, c.log, http.StatusInternalServerError, ErrGetCategories)
		return
	}

	writeJSON(w, c.log, http.StatusOK, res)
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.categories.Create"

	var in models.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, c.log, http.StatusBadRequest, ErrBadRequest)
		return
	}

	if err := models.Validate(&in); err != nil {
		writeError(w, c.log, http.StatusBadRequest, err)
		return
	}

	id, err := c.service.Create(r.Context(), in.Category())
	if err != nil {
		c.log.Error(
			ErrCreate.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		writeError(w, c.log, http.StatusInternalServerError, ErrCreate)
		return
	}

	writeJSON(w, c.log, http.StatusCreated, MessageResponse{ID: id, Message: "category created"})
}

func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.categories.Delete"

	id, err := parseID(r)
	if err != nil {
		writeError(w, c.log, http.StatusBadRequest, err)
		return
	}

	err = c.service.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, c.log, http.StatusNotFound, ErrCategoryNotFound)
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

	writeJSON(w, c.log, http.StatusOK, MessageResponse{Message: "category deleted"})
}
