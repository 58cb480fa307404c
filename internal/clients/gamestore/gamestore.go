package gamestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gamestore/internal/models"
)

// Callers only ever see these. The cause is logged.
var (
	ErrLoadGames      = errors.New("failed to load games")
	ErrLoadGame       = errors.New("failed to load game")
	ErrCreateGame     = errors.New("failed to create game")
	ErrUpdateGame     = errors.New("failed to update game")
	ErrDeleteGame     = errors.New("failed to delete game")
	ErrLoadCategories = errors.New("failed to load categories")
	ErrCreateCategory = errors.New("failed to create category")
	ErrDeleteCategory = errors.New("failed to delete category")
)

// maxErrorBody bounds how much of a failed response is kept for the log.
const maxErrorBody = 4 << 10

type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

func New(log *slog.Logger, baseURL string, timeout time.Duration) (*Client, error) {
	const op = "gamestore.New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s: unsupported scheme %q", op, u.Scheme)
	}

	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (c *Client) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := c.do(ctx, http.MethodGet, "/games", nil, &games); err != nil {
		return nil, c.fail("gamestore.ListGames", ErrLoadGames, err)
	}
	if games == nil {
		games = []models.Game{}
	}
	return games, nil
}

func (c *Client) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	if err := c.do(ctx, http.MethodGet, gamePath(id), nil, &game); err != nil {
		return nil, c.fail("gamestore.GetGame", ErrLoadGame, err)
	}
	return &game, nil
}

// CreateGame checks the input locally and returns the new game's id. A
// contract violation is returned as *models.ValidationError without any
// request being made.
func (c *Client) CreateGame(ctx context.Context, in *models.GameInput) (int64, error) {
	if err := models.Validate(in); err != nil {
		return 0, err
	}

	var resp createdResponse
	if err := c.do(ctx, http.MethodPost, "/games", in, &resp); err != nil {
		return 0, c.fail("gamestore.CreateGame", ErrCreateGame, err)
	}
	return resp.ID, nil
}

func (c *Client) UpdateGame(ctx context.Context, id int64, in *models.GameInput) error {
	if err := models.Validate(in); err != nil {
		return err
	}

	if err := c.do(ctx, http.MethodPut, gamePath(id), in, nil); err != nil {
		return c.fail("gamestore.UpdateGame", ErrUpdateGame, err)
	}
	return nil
}

func (c *Client) DeleteGame(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, gamePath(id), nil, nil); err != nil {
		return c.fail("gamestore.DeleteGame", ErrDeleteGame, err)
	}
	return nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, c.fail("gamestore.ListCategories", ErrLoadCategories, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, in *models.CategoryInput) (int64, error) {
	if err := models.Validate(in); err != nil {
		return 0, err
	}

	var resp createdResponse
	if err := c.do(ctx, http.MethodPost, "/categories", in, &resp); err != nil {
		return 0, c.fail("gamestore.CreateCategory", ErrCreateCategory, err)
	}
	return resp.ID, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/categories/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return c.fail("gamestore.DeleteCategory", ErrDeleteCategory, err)
	}
	return nil
}

func gamePath(id int64) string {
	return "/games/" + strconv.FormatInt(id, 10)
}

func (c *Client) fail(op string, sentinel, cause error) error {
	c.log.Error(sentinel.Error(), slog.String("operation", op), slog.String("error", cause.Error()))
	return sentinel
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
