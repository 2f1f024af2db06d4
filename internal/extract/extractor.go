// Package extract walks the upstream listing API over one time window and
// yields canonical job records. Extraction is best effort: an unparseable
// page or item degrades the result, it never fails the window.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"jobstats-etl/internal/domain"
	"jobstats-etl/internal/fetch"
	"jobstats-etl/internal/normalize"
)

// Window is one [Left, Right) extraction time range.
type Window struct {
	Left  time.Time
	Right time.Time
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Left.Format(time.RFC3339), w.Right.Format(time.RFC3339))
}

type Config struct {
	URL         string // listing endpoint
	Params      []Param
	MaxInFlight int // cap on concurrent page/detail fetches
}

type Param struct {
	Key   string
	Value string
}

type Extractor struct {
	client      *fetch.Client
	baseURL     string // listing URL with static params encoded
	maxInFlight int
}

type pagesResponse struct {
	Pages int `json:"pages"`
}

type listingPage struct {
	Items []struct {
		URL string `json:"url"`
	} `json:"items"`
}

func New(cfg Config, client *fetch.Client) (*Extractor, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("extract: parse url: %w", err)
	}

	q := u.Query()
	for _, p := range cfg.Params {
		q.Set(p.Key, p.Value)
	}
	u.RawQuery = q.Encode()

	maxInFlight := cfg.MaxInFlight
	if maxInFlight < 1 {
		maxInFlight = 16
	}

	return &Extractor{
		client:      client,
		baseURL:     u.String(),
		maxInFlight: maxInFlight,
	}, nil
}

// Extract fetches every listing page for the window concurrently, then every
// detail record those pages reference, and normalizes each into a canonical
// record. The two fan-out phases are strictly sequential: detail URLs are
// only known once all pages are in. Order of the result is not significant.
// The only error is ctx's; everything else degrades.
func (e *Extractor) Extract(ctx context.Context, w Window) ([]domain.Job, error) {
	windowURL := e.windowURL(w)

	pages, err := e.probePages(ctx, windowURL)
	if err != nil {
		return nil, err
	}

	detailURLs, err := e.fetchListings(ctx, windowURL, pages)
	if err != nil {
		return nil, err
	}

	jobs, err := e.fetchDetails(ctx, detailURLs)
	if err != nil {
		return nil, err
	}

	log.Printf("[extract] window %s: pages=%d items=%d records=%d", w, pages, len(detailURLs), len(jobs))
	return jobs, nil
}

func (e *Extractor) windowURL(w Window) string {
	u, _ := url.Parse(e.baseURL)
	q := u.Query()
	q.Set("date_from", w.Left.UTC().Format(time.RFC3339))
	q.Set("date_to", w.Right.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()
	return u.String()
}

// probePages asks the unpaged listing URL how many pages the window spans.
// A malformed response counts as zero pages.
func (e *Extractor) probePages(ctx context.Context, windowURL string) (int, error) {
	body, err := e.client.Get(ctx, windowURL)
	if err != nil {
		return 0, err
	}

	var pr pagesResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		log.Printf("[extract] page probe unparseable, treating as empty window: %v", err)
		return 0, nil
	}
	if pr.Pages < 0 {
		return 0, nil
	}
	return pr.Pages, nil
}

// fetchListings pulls all listing pages concurrently and returns the detail
// URLs they reference. A page that fails to parse contributes nothing.
func (e *Extractor) fetchListings(ctx context.Context, windowURL string, pages int) ([]string, error) {
	perPage := make([][]string, pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxInFlight)

	for p := 0; p < pages; p++ {
		p := p
		g.Go(func() error {
			pageURL := fmt.Sprintf("%s&page=%d", windowURL, p)

			body, err := e.client.Get(gctx, pageURL)
			if err != nil {
				return err
			}

			var lp listingPage
			if err := json.Unmarshal(body, &lp); err != nil {
				log.Printf("[extract] page %d unparseable, skipping: %v", p, err)
				return nil
			}

			urls := make([]string, 0, len(lp.Items))
			for _, it := range lp.Items {
				if it.URL != "" {
					urls = append(urls, it.URL)
				}
			}
			perPage[p] = urls
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, urls := range perPage {
		out = append(out, urls...)
	}
	return out, nil
}

// fetchDetails pulls every detail record concurrently and normalizes each.
// Records that fail to parse or normalize are skipped.
func (e *Extractor) fetchDetails(ctx context.Context, urls []string) ([]domain.Job, error) {
	slots := make([]*domain.Job, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxInFlight)

	for i, detailURL := range urls {
		i, detailURL := i, detailURL
		g.Go(func() error {
			body, err := e.client.Get(gctx, detailURL)
			if err != nil {
				return err
			}

			var raw normalize.Raw
			if err := json.Unmarshal(body, &raw); err != nil {
				log.Printf("[extract] detail %s unparseable, skipping: %v", detailURL, err)
				return nil
			}

			job, err := normalize.Job(raw)
			if err != nil {
				log.Printf("[extract] detail %s: %v, skipping", detailURL, err)
				return nil
			}

			slots[i] = &job
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	jobs := make([]domain.Job, 0, len(slots))
	for _, j := range slots {
		if j != nil {
			jobs = append(jobs, *j)
		}
	}
	return jobs, nil
}
