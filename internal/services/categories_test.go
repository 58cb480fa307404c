package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"gamestore/internal/models"
	"gamestore/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_GetAll(t *testing.T) {
	s, mock := setupMockDB(t)
	service := NewCategoryService(s, discardLogger())
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
			AddRow(2, "Action", nil, now).
			AddRow(1, "RPG", "Role playing", now)

		mock.ExpectQuery(regexp.QuoteMeta(listCategoriesQuery)).WillReturnRows(rows)

		categories, err := service.GetAll(ctx)

		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "Action", categories[0].Name)
		assert.Nil(t, categories[0].Description)
		assert.Equal(t, "Role playing", *categories[1].Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(listCategoriesQuery)).
			WillReturnError(errors.New("query error"))

		categories, err := service.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, categories)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryService_Create(t *testing.T) {
	s, mock := setupMockDB(t)
	service := NewCategoryService(s, discardLogger())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `categories`")).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	id, err := service.Create(context.Background(), &models.Category{Name: "Indie"})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryService_Delete(t *testing.T) {
	s, mock := setupMockDB(t)
	service := NewCategoryService(s, discardLogger())
	ctx := context.Background()

	t.Run("detaches games and deletes", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(detachGamesQuery)).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(deleteCategoryQuery)).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, service.Delete(ctx, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(detachGamesQuery)).
			WithArgs(42).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(deleteCategoryQuery)).
			WithArgs(42).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := service.Delete(ctx, 42)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(detachGamesQuery)).
			WithArgs(5).
			WillReturnError(errors.New("update error"))
		mock.ExpectRollback()

		err := service.Delete(ctx, 5)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
