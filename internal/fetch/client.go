package fetch

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"
)

// Client wraps http.Client with indefinite retry. Any network error and any
// non-200 status is retried with a doubling delay, capped at a ceiling, until
// the request succeeds or ctx is cancelled. The pipeline would rather stall a
// window than drop data over a transient outage, so there is no attempt
// limit; 4xx and 5xx are treated the same on purpose (see DESIGN.md).
type Client struct {
	hc      *http.Client
	ua      string
	base    time.Duration
	ceiling time.Duration
	limiter *hostLimiter

	// sleep is swapped out by tests to observe backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

type Options struct {
	UserAgent      string
	BackoffBase    time.Duration // first retry delay; default 1ms
	BackoffCeiling time.Duration // delay cap; default 10s
	HostReqPerSec  float64       // per-host rate limit; <= 0 disables
	HostBurst      int
}

func New(opts Options) *Client {
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Millisecond
	}
	if opts.BackoffCeiling <= 0 {
		opts.BackoffCeiling = 10 * time.Second
	}

	var lim *hostLimiter
	if opts.HostReqPerSec > 0 {
		lim = newHostLimiter(opts.HostReqPerSec, opts.HostBurst)
	}

	return &Client{
		hc:      &http.Client{Timeout: 20 * time.Second},
		ua:      opts.UserAgent,
		base:    opts.BackoffBase,
		ceiling: opts.BackoffCeiling,
		limiter: lim,
		sleep:   sleepCtx,
	}
}

// Get fetches url and returns the body of the first 200 response. The only
// error it ever returns is ctx's, so callers can treat a non-nil error as
// "the run is over".
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	delay := c.base

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, status, err := c.once(ctx, url)
		if err == nil && status == http.StatusOK {
			return body, nil
		}

		if attempt%10 == 0 {
			if err != nil {
				log.Printf("[fetch] %s: %v (attempt %d, next retry in %s)", url, err, attempt+1, delay)
			} else {
				log.Printf("[fetch] %s: status %d (attempt %d, next retry in %s)", url, status, attempt+1, delay)
			}
		}

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
		if delay < c.ceiling {
			delay *= 2
			if delay > c.ceiling {
				delay = c.ceiling
			}
		}
	}
}

func (c *Client) once(ctx context.Context, url string) (body []byte, status int, err error) {
	if c.limiter != nil {
		if err := c.limiter.waitURL(ctx, url); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, res.StatusCode, nil
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, err
	}
	return b, res.StatusCode, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
