package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices and ratings travel as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Game struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Genre        string          `json:"genre"`
	Platform     string          `json:"platform"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	ReleaseDate  *Date           `json:"release_date" gorm:"type:date"`
	Rating       decimal.Decimal `json:"rating" gorm:"type:decimal(3,1)"`
	ImageURL     *string         `json:"image_url"`
	CategoryID   *int64          `json:"category_id"`
	CategoryName *string         `json:"category_name" gorm:"->"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ReleasedAt returns the release date, or the zero time when it is unknown.
func (g *Game) ReleasedAt() time.Time {
	if g.ReleaseDate == nil {
		return time.Time{}
	}
	return g.ReleaseDate.Time
}

func (g *Game) IsFree() bool {
	return g.Price.IsZero()
}

type Category struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
