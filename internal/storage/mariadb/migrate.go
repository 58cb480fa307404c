package mariadb

import (
	"context"
	"fmt"
)

const createCategoriesTable = `
	CREATE TABLE IF NOT EXISTS categories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

// Deleting a category detaches its games instead of deleting them.
const createGamesTable = `
	CREATE TABLE IF NOT EXISTS games (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		genre VARCHAR(100) NOT NULL,
		platform VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		release_date DATE,
		rating DECIMAL(3,1) NOT NULL DEFAULT 0,
		image_url VARCHAR(500),
		category_id INT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_games_created_at (created_at),
		CONSTRAINT fk_games_category FOREIGN KEY (category_id)
			REFERENCES categories(id) ON DELETE SET NULL
	)`

func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.mariadb.Migrate"

	for _, query := range []string{createCategoriesTable, createGamesTable} {
		if err := s.DB.WithContext(ctx).Exec(query).Error; err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
