package importer

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"gamestore/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

var ErrIncomplete = errors.New("store page is missing required fields")

var (
	spaces      = regexp.MustCompile(`\s+`)
	priceNumber = regexp.MustCompile(`\d[\d.,]*`)
)

var releaseLayouts = []string{
	"2 Jan, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2 January, 2006",
	time.DateOnly,
}

// platform icons on the purchase block
var platformIcons = []struct {
	class string
	name  string
}{
	{"win", "PC"},
	{"mac", "Mac"},
	{"linux", "Linux"},
}

// ParseStorePage reads a store product page and returns the game it
// describes. The result passes models.Validate.
func ParseStorePage(r io.Reader, pageURL string) (*models.GameInput, error) {
	const op = "importer.ParseStorePage"

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	in := &models.GameInput{
		Title:       firstText(doc, "#appHubAppName", "div.apphub_AppName"),
		Description: clean(doc.Find("div.game_description_snippet").First().Text()),
		Genre:       clean(doc.Find(`#genresAndManufacturer a[href*="/genre/"]`).First().Text()),
		Platform:    platforms(doc),
	}

	if in.Title == "" {
		in.Title = metaContent(doc, "og:title")
	}
	if in.Description == "" {
		in.Description = metaContent(doc, "og:description")
	}

	price, ok := parsePrice(firstText(doc, "div.discount_final_price", "div.game_purchase_price"))
	if ok {
		in.Price = &price
	}

	if t, ok := parseReleaseDate(clean(doc.Find("div.release_date div.date").First().Text())); ok {
		d := models.DateOf(t)
		in.ReleaseDate = &d
	}

	image, ok := doc.Find("img.game_header_image_full").Attr("src")
	if !ok {
		image = metaContent(doc, "og:image")
	}
	if image = absolute(pageURL, image); image != "" {
		in.ImageURL = &image
	}

	if err := models.Validate(in); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrIncomplete, err)
	}

	return in, nil
}

func clean(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if t := clean(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func metaContent(doc *goquery.Document, property string) string {
	v, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
	return clean(v)
}

func platforms(doc *goquery.Document) string {
	icons := doc.Find("div.game_area_purchase_platform span.platform_img")

	var names []string
	for _, p := range platformIcons {
		if icons.HasClass(p.class) {
			names = append(names, p.name)
		}
	}
	if len(names) == 0 {
		return "PC"
	}
	return strings.Join(names, ", ")
}

// parsePrice understands "Free", "Free to Play" and amounts such as
// "$19.99" or "19,99€".
func parsePrice(text string) (decimal.Decimal, bool) {
	if text == "" {
		return decimal.Decimal{}, false
	}
	if strings.HasPrefix(strings.ToLower(text), "free") {
		return decimal.Zero, true
	}

	num := strings.TrimRight(priceNumber.FindString(strings.Map(dropSpace, text)), ".,")
	if num == "" {
		return decimal.Decimal{}, false
	}

	// the last separator is the decimal mark only when cents follow it
	whole, frac := num, ""
	if i := strings.LastIndexAny(num, ".,"); i >= 0 && len(num)-i-1 <= 2 {
		whole, frac = num[:i], num[i+1:]
	}
	whole = strings.NewReplacer(".", "", ",", "").Replace(whole)
	if frac != "" {
		whole += "." + frac
	}

	d, err := decimal.NewFromString(whole)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}

func parseReleaseDate(text string) (time.Time, bool) {
	for _, layout := range releaseLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func absolute(pageURL, ref string) string {
	if ref == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return u.String()
}
