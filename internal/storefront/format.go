package storefront

import (
	"strings"

	"github.com/shopspring/decimal"
)

const defaultPlatform = "PC"

func FormatPrice(price decimal.Decimal) string {
	if price.IsZero() {
		return "FREE"
	}
	return "$" + price.StringFixed(2)
}

// FormatRating renders one decimal place. An unrated game (zero) is "N/A".
func FormatRating(rating decimal.Decimal) string {
	if rating.IsZero() {
		return "N/A"
	}
	return rating.StringFixed(1)
}

type RatingTier string

const (
	TierExcellent RatingTier = "excellent"
	TierGood      RatingTier = "good"
	TierMixed     RatingTier = "mixed"
	TierPoor      RatingTier = "poor"
)

func Tier(rating decimal.Decimal) RatingTier {
	switch {
	case rating.GreaterThanOrEqual(decimal.NewFromInt(9)):
		return TierExcellent
	case rating.GreaterThanOrEqual(decimal.NewFromInt(7)):
		return TierGood
	case rating.GreaterThanOrEqual(decimal.NewFromInt(5)):
		return TierMixed
	}
	return TierPoor
}

// Platforms splits the comma separated platform field, dropping blanks.
func Platforms(platform string) []string {
	var out []string
	for _, p := range strings.Split(platform, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func PrimaryPlatform(platform string) string {
	if p := Platforms(platform); len(p) > 0 {
		return p[0]
	}
	return defaultPlatform
}
