package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gamestore/internal/clients/gamestore"
	"gamestore/internal/config"
	"gamestore/internal/logger"
	"gamestore/internal/models"
	"gamestore/internal/storefront"

	"golang.org/x/text/language"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config yaml file")
		search     = flag.String("search", "", "search title, description and genre")
		category   = flag.Int64("category", 0, "only show games of this category id")
		sortBy     = flag.String("sort", "created_at", "created_at, title, price, rating or release_date")
		add        = flag.String("add", "", "comma separated game ids to add to the cart")
	)
	flag.Parse()

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read config: %s\n", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg.Env)

	key, err := storefront.ParseSortKey(*sortBy)
	if err != nil {
		log.Error("invalid sort", slog.String("error", err.Error()))
		os.Exit(2)
	}

	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		log.Warn("unknown locale, using en", slog.String("locale", cfg.Locale))
		locale = language.English
	}

	client, err := gamestore.New(log, cfg.APIURL, cfg.Timeout)
	if err != nil {
		log.Error("failed to create api client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := storefront.New(client, log, storefront.WithLocale(locale))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := store.Load(ctx); err != nil {
		os.Exit(1)
	}

	store.SetSearch(*search)
	store.SetCategory(*category)
	store.SetSort(key)

	for _, raw := range strings.Split(*add, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warn("invalid game id", slog.String("id", raw))
			continue
		}
		g, ok := store.Game(id)
		if !ok {
			log.Warn("game not found", slog.Int64("id", id))
			continue
		}
		store.AddToCart(g)
	}

	out := os.Stdout

	section(out, "Featured", store.Featured())
	section(out, "All games", store.View())
	section(out, "Top rated", store.TopRated())
	section(out, "Free to play", store.Free())

	fmt.Fprintf(out, "Cart: %d\n", store.CartCount())
}

func section(w io.Writer, title string, games []models.Game) {
	fmt.Fprintf(w, "== %s (%d) ==\n", title, len(games))
	if len(games) == 0 {
		fmt.Fprintln(w, "no games match the selected filters")
		fmt.Fprintln(w)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tGENRE\tPLATFORM\tCATEGORY\tRATING\tPRICE")
	for _, g := range games {
		category := "-"
		if g.CategoryName != nil {
			category = *g.CategoryName
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			g.ID,
			g.Title,
			g.Genre,
			storefront.PrimaryPlatform(g.Platform),
			category,
			storefront.FormatRating(g.Rating),
			storefront.FormatPrice(g.Price))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}
