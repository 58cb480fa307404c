package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"gamestore/internal/models"
)

const (
	maxWorkers = 10
	MaxURLs    = 100
	batchLimit = 10 * time.Second
)

var (
	ErrNoURLs      = errors.New("no urls to import")
	ErrTooManyURLs = errors.New("too many urls, max 100")
	ErrBadStatus   = errors.New("unexpected store response")
)

// GameCreator stores an imported game and returns its id.
type GameCreator interface {
	CreateGame(ctx context.Context, in *models.GameInput) (int64, error)
}

type Importer struct {
	creator GameCreator
	http    *http.Client
	log     *slog.Logger
}

func New(creator GameCreator, log *slog.Logger, timeout time.Duration) *Importer {
	return &Importer{
		creator: creator,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type Created struct {
	URL   string
	ID    int64
	Title string
}

type Report struct {
	Created []Created
	Errors  []string
}

// Fetch downloads and parses one store page.
func (i *Importer) Fetch(ctx context.Context, pageURL string) (*models.GameInput, error) {
	const op = "importer.Fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) gamestore-import/1.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	// skip the age gate
	req.AddCookie(&http.Cookie{Name: "birthtime", Value: "473385601"})
	req.AddCookie(&http.Cookie{Name: "wants_mature_content", Value: "1"})

	resp, err := i.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: status %d", op, ErrBadStatus, resp.StatusCode)
	}

	in, err := ParseStorePage(resp.Body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return in, nil
}

// ImportMany fetches every page and creates the games it finds. It runs at
// most ten fetches at a time and gives the whole batch ten seconds. One
// failing page does not stop the others.
func (i *Importer) ImportMany(ctx context.Context, urls []string) (*Report, error) {
	const op = "importer.ImportMany"

	if len(urls) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoURLs)
	}
	if len(urls) > MaxURLs {
		return nil, fmt.Errorf("%s: %w", op, ErrTooManyURLs)
	}

	var (
		sem         = make(chan struct{}, maxWorkers)
		wg          sync.WaitGroup
		errChan     = make(chan error, len(urls))
		resultsChan = make(chan Created, len(urls))
	)

	ctx, cancel := context.WithTimeout(ctx, batchLimit)
	defer cancel()

	for _, u := range urls {
		sem <- struct{}{}
		wg.Add(1)
		go func(pageURL string) {
			defer func() {
				<-sem
				wg.Done()
			}()

			created, err := i.importOne(ctx, pageURL)
			if err != nil {
				errChan <- fmt.Errorf("%s: %w", pageURL, err)
				return
			}
			resultsChan <- created
		}(u)
	}

	wg.Wait()
	close(errChan)
	close(resultsChan)

	report := &Report{}
	for err := range errChan {
		report.Errors = append(report.Errors, err.Error())
	}
	for res := range resultsChan {
		report.Created = append(report.Created, res)
	}

	if len(report.Errors) > 0 {
		i.log.Warn("import finished with errors",
			slog.String("operation", op),
			slog.Int("success_count", len(report.Created)),
			slog.Int("error_count", len(report.Errors)))
		for _, e := range report.Errors {
			i.log.Debug("import failed", slog.String("error", e))
		}
	} else {
		i.log.Info("import finished", slog.Int("success_count", len(report.Created)))
	}

	return report, nil
}

func (i *Importer) importOne(ctx context.Context, pageURL string) (Created, error) {
	in, err := i.Fetch(ctx, pageURL)
	if err != nil {
		return Created{}, err
	}

	id, err := i.creator.CreateGame(ctx, in)
	if err != nil {
		return Created{}, err
	}

	return Created{URL: pageURL, ID: id, Title: in.Title}, nil
}
