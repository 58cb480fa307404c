package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"gamestore/internal/models"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// Catalog is the read side of the API the storefront loads from.
type Catalog interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Storefront holds the loaded catalog and the user's current search,
// category and sort selection. The view is recomputed whenever any of them
// changes. Safe for concurrent use.
type Storefront struct {
	catalog  Catalog
	notifier Notifier
	log      *slog.Logger
	locale   language.Tag

	mu         sync.RWMutex
	games      []models.Game
	categories []models.Category
	criteria   Criteria
	sortKey    SortKey
	view       []models.Game
	cart       int
}

type Option func(*Storefront)

func WithNotifier(n Notifier) Option {
	return func(s *Storefront) { s.notifier = n }
}

func WithLocale(tag language.Tag) Option {
	return func(s *Storefront) { s.locale = tag }
}

func New(catalog Catalog, log *slog.Logger, opts ...Option) *Storefront {
	s := &Storefront{
		catalog: catalog,
		log:     log,
		locale:  language.English,
		sortKey: SortCreatedAt,
		view:    []models.Game{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Log: log}
	}
	return s
}

// Load fetches games and categories in parallel. Both must succeed; on
// failure the previous state is kept.
func (s *Storefront) Load(ctx context.Context) error {
	const op = "storefront.Load"

	var (
		games      []models.Game
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		games, err = s.catalog.ListGames(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.catalog.ListCategories(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("failed to load storefront", slog.String("operation", op), slog.String("error", err.Error()))
		s.notifier.Notify(newNotification(LevelError, "failed to load data"))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.games = games
	s.categories = categories
	s.refresh()
	s.mu.Unlock()

	s.notifier.Notify(newNotification(LevelSuccess, fmt.Sprintf("%d games loaded!", len(games))))

	return nil
}

func (s *Storefront) SetGames(games []models.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = slices.Clone(games)
	s.refresh()
}

func (s *Storefront) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria.Search = term
	s.refresh()
}

// SetCategory selects a category by id. Zero clears the selection.
func (s *Storefront) SetCategory(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria.CategoryID = id
	s.refresh()
}

func (s *Storefront) SetSort(key SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sortKey = key
	s.refresh()
}

// refresh must be called with mu held.
func (s *Storefront) refresh() {
	s.view = Sort(Filter(s.games, s.criteria), s.sortKey, s.locale)
}

// View returns the filtered and sorted games.
func (s *Storefront) View() []models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.view)
}

func (s *Storefront) Games() []models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.games)
}

func (s *Storefront) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.categories)
}

// Game looks a loaded game up by id.
func (s *Storefront) Game(id int64) (models.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.games, func(g models.Game) bool { return g.ID == id })
	if i < 0 {
		return models.Game{}, false
	}
	return s.games[i], true
}

func (s *Storefront) Featured() []models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Featured(s.games)
}

func (s *Storefront) TopRated() []models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return TopRated(s.games)
}

func (s *Storefront) Free() []models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Free(s.games)
}

// AddToCart only counts locally; nothing is sent to the API.
func (s *Storefront) AddToCart(g models.Game) int {
	s.mu.Lock()
	s.cart++
	n := s.cart
	s.mu.Unlock()

	s.notifier.Notify(newNotification(LevelSuccess, g.Title+" added to cart!"))

	return n
}

func (s *Storefront) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart
}
