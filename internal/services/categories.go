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
	listCategoriesQuery = `SELECT id, name, description, created_at FROM categories ORDER BY name`
	detachGamesQuery    = `UPDATE games SET category_id = NULL WHERE category_id = ?`
	deleteCategoryQuery = `DELETE FROM categories WHERE id = ?`
)

type CategoryService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewCategoryService(s *mariadb.Storage, log *slog.Logger) *CategoryService {
	return &CategoryService{
		storage: s,
		log:     log,
	}
}

func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	const op = "services.categories.GetAll"

	var categories []models.Category

	err := s.storage.Do(ctx, func(db *gorm.DB) error {
		return db.Raw(listCategoriesQuery).Scan(&categories).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if categories == nil {
		categories = []models.Category{}
	}

	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, c *models.Category) (int64, error) {
	const op = "services.categories.Create"

	err := s.storage.Do(ctx, func(db *gorm.DB) error {
		return db.Create(c).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return c.ID, nil
}

// Delete removes the category and detaches the games that referenced it.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	const op = "services.categories.Delete"

	err := s.storage.Do(ctx, func(db *gorm.DB) error {
		tx := db.Begin()
		if tx.Error != nil {
			return tx.Error
		}

		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
				panic(r)
			}
		}()

		if err := tx.Exec(detachGamesQuery, id).Error; err != nil {
			tx.Rollback()
			return err
		}

		res := tx.Exec(deleteCategoryQuery, id)
		if res.Error != nil {
			tx.Rollback()
			return res.Error
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return storage.ErrNotFound
		}

		return tx.Commit().Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("category deleted", slog.Int64("id", id))

	return nil
}
