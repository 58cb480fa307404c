package storefront

import (
	"fmt"
	"slices"
	"strings"

	"gamestore/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortCreatedAt   SortKey = "created_at"
	SortTitle       SortKey = "title"
	SortPrice       SortKey = "price"
	SortRating      SortKey = "rating"
	SortReleaseDate SortKey = "release_date"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortCreatedAt, SortTitle, SortPrice, SortRating, SortReleaseDate:
		return k, nil
	case "":
		return SortCreatedAt, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

const (
	featuredLimit = 3
	topRatedLimit = 4
)

var featuredMinRating = decimal.RequireFromString("8.5")

// Criteria narrows the catalog. Zero values impose nothing.
type Criteria struct {
	Search     string
	CategoryID int64
}

// Filter keeps games matching every set criterion. The search term matches
// title, description or genre as a case-insensitive substring.
func Filter(games []models.Game, c Criteria) []models.Game {
	fold := cases.Fold()
	term := fold.String(c.Search)

	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		if term != "" &&
			!strings.Contains(fold.String(g.Title), term) &&
			!strings.Contains(fold.String(g.Description), term) &&
			!strings.Contains(fold.String(g.Genre), term) {
			continue
		}
		if c.CategoryID != 0 && (g.CategoryID == nil || *g.CategoryID != c.CategoryID) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Sort returns a stably sorted copy. Titles are compared with the collation
// rules of tag.
func Sort(games []models.Game, key SortKey, tag language.Tag) []models.Game {
	out := slices.Clone(games)
	if out == nil {
		out = []models.Game{}
	}

	var cmp func(a, b models.Game) int
	switch key {
	case SortTitle:
		col := collate.New(tag)
		cmp = func(a, b models.Game) int {
			return col.CompareString(a.Title, b.Title)
		}
	case SortPrice:
		cmp = func(a, b models.Game) int {
			return a.Price.Cmp(b.Price)
		}
	case SortRating:
		cmp = byRatingDesc
	case SortReleaseDate:
		cmp = func(a, b models.Game) int {
			switch {
			case a.ReleaseDate == nil && b.ReleaseDate == nil:
				return 0
			case a.ReleaseDate == nil:
				return 1
			case b.ReleaseDate == nil:
				return -1
			}
			return b.ReleaseDate.Compare(a.ReleaseDate.Time)
		}
	default:
		cmp = func(a, b models.Game) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}

	slices.SortStableFunc(out, cmp)
	return out
}

func byRatingDesc(a, b models.Game) int {
	return b.Rating.Cmp(a.Rating)
}

// Featured returns up to three games rated 8.5 or higher, in source order.
func Featured(games []models.Game) []models.Game {
	out := make([]models.Game, 0, featuredLimit)
	for _, g := range games {
		if g.Rating.GreaterThanOrEqual(featuredMinRating) {
			out = append(out, g)
			if len(out) == featuredLimit {
				break
			}
		}
	}
	return out
}

// TopRated returns the four highest rated games. games is left untouched.
func TopRated(games []models.Game) []models.Game {
	out := slices.Clone(games)
	slices.SortStableFunc(out, byRatingDesc)
	if len(out) > topRatedLimit {
		out = out[:topRatedLimit]
	}
	if out == nil {
		out = []models.Game{}
	}
	return out
}

func Free(games []models.Game) []models.Game {
	out := []models.Game{}
	for _, g := range games {
		if g.IsFree() {
			out = append(out, g)
		}
	}
	return out
}
