package services

import (
	"context"
	"fmt"
	"log/slog"

	"gamestore/internal/models"
	"gamestore/internal/storage"
	"gamestore/internal/storage/mariadb"

	"gorm.io/gorm"
)

const (
	listGamesQuery = `
		SELECT g.*, c.name AS category_name
		FROM games g
		LEFT JOIN categories c ON g.category_id = c.id
		ORDER BY g.created_at DESC`

	getGameQuery = `
		SELECT g.*, c.name AS category_name
		FROM games g
		LEFT JOIN categories c ON g.category_id = c.id
		WHERE g.id = ?`

	updateGameQuery = `
		UPDATE games
		SET title = ?, description = ?, genre = ?, platform = ?, price = ?,
			release_date = ?, rating = ?, image_url = ?, category_id = ?, updated_at = NOW()
		WHERE id = ?`

	deleteGameQuery = `DELETE FROM games WHERE id = ?`
)

type GameService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewGameService(s *mariadb.Storage, log *slog.Logger) *GameService {
	return &GameService{
		storage: s,
		log:     log,
	}
}

func (s *GameService) GetAll(ctx context.Context) ([]models.Game, error) {
	const op = "services.games.GetAll"

	var games []models.Game

	err := s.storage.Do(ctx, func(db *gorm.DB) error {
		return db.Raw(listGamesQuery).Scan(&games).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if games == nil {
		games = []models.Game{}
	}

	return games, nil
}

func (s *GameService) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	const op = "services.games.GetByID"

	var g models.Game

	err := s.storage.Do(ctx, func(db *gorm.DB) error {
		res := db.Raw(getGameQuery, id).Scan(&g)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &g, nil
}

func (s *GameService) Create(ctx context.Context, g *models.Game) (int64, error) {
	const op = "services.games.Create"

	err := s.storage.Do(ctx, func(db *gorm.DB) error {
		return db.Create(g).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return g.ID, nil
}

// Update overwrites every field of the game. The driver counts matched rows,
// so zero affected rows means the game does not exist.
func (s *GameService) Update(ctx context.Context, id int64, g *models.Game) error {
	const op = "services.games.Update"

	err := s.storage.Do(ctx, func(db *gorm.DB) error {
		res := db.Exec(updateGameQuery,
			g.Title,
			g.Description,
			g.Genre,
			g.Platform,
			g.Price,
			g.ReleaseDate,
			g.Rating,
			g.ImageURL,
			g.CategoryID,
			id,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *GameService) Delete(ctx context.Context, id int64) error {
	const op = "services.games.Delete"

	err := s.storage.Do(ctx, func(db *gorm.DB) error {
		res := db.Exec(deleteGameQuery, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
