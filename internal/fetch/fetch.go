// Package fetch retrieves fully rendered pages from the source site through
// a headless browser. All requests in the process share one rate gate: at
// most one request per configured delay, admitted FIFO. The source embeds
// several stat tables inside HTML comments, so the fetcher only has to
// guarantee a complete document; no script execution is needed afterwards.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

// FetchError wraps a failed page retrieval. Transient errors were retried
// before being surfaced; permanent ones (4xx) were not.
type FetchError struct {
	URL       string
	Transient bool
	Err       error
}

func (e *FetchError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher drives a headless browser behind the shared rate gate.
type Fetcher struct {
	gate    *rate.Limiter
	retries int
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Fetcher. delay is the minimum spacing between any two
// requests to the source; retries is the number of additional attempts
// after a transient failure; timeout bounds each attempt.
func New(delay time.Duration, retries int, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		gate:    rate.NewLimiter(rate.Every(delay), 1),
		retries: retries,
		timeout: timeout,
		logger:  logger,
	}
}

// Browser is a headless browser session owned by one scrape batch.
// Fetches within the batch reuse the session; Close releases it.
type Browser struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// NewBrowser starts a browser session scoped to the given context.
func (f *Fetcher) NewBrowser(ctx context.Context) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Launch eagerly so batch startup fails fast when Chrome is missing.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Browser{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
	}, nil
}

// Close releases the browser session.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}

// Fetch returns the rendered outer HTML of url, or a *FetchError after
// retries are exhausted. The caller's context cancels both the gate wait
// and the navigation.
func (f *Fetcher) Fetch(ctx context.Context, b *Browser, url string) (string, error) {
	var html string
	err := f.withRetry(ctx, url, func() error {
		h, err := f.fetchTab(ctx, b, url, nil)
		if err != nil {
			return err
		}
		html = h
		return nil
	})
	if err != nil {
		return "", err
	}
	return html, nil
}

// FetchWithLocation fetches url and also returns the tab's final location
// after redirects. Used by the search flow, where the source redirects
// straight to a player page on an unambiguous hit. Retries follow the
// same policy as Fetch.
func (f *Fetcher) FetchWithLocation(ctx context.Context, b *Browser, url string) (html, location string, err error) {
	err = f.withRetry(ctx, url, func() error {
		h, err := f.fetchTab(ctx, b, url, &location)
		if err != nil {
			return err
		}
		html = h
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return html, location, nil
}

// withRetry admits each attempt through the rate gate and backs off
// exponentially between attempts. A permanent error stops the loop;
// transient ones retry until the budget runs out.
func (f *Fetcher) withRetry(ctx context.Context, url string, attempt func() error) error {
	var lastErr error
	for n := 0; n <= f.retries; n++ {
		if n > 0 {
			backoff := time.Duration(1<<uint(n-1)) * 2 * time.Second
			f.logger.Warn("Retrying fetch", "url", url, "attempt", n, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return &FetchError{URL: url, Transient: true, Err: ctx.Err()}
			}
		}

		if err := f.gate.Wait(ctx); err != nil {
			return &FetchError{URL: url, Transient: true, Err: fmt.Errorf("rate gate: %w", err)}
		}

		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err

		var fe *FetchError
		if errors.As(err, &fe) && !fe.Transient {
			return err
		}
	}
	return &FetchError{URL: url, Transient: true, Err: lastErr}
}

// fetchTab performs one navigation in a fresh tab. location, when
// non-nil, receives the tab's final URL after redirects.
func (f *Fetcher) fetchTab(ctx context.Context, b *Browser, url string, location *string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
	defer cancelTimeout()

	// Propagate caller cancellation into the tab.
	go func() {
		select {
		case <-ctx.Done():
			cancelTab()
		case <-tabCtx.Done():
		}
	}()

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(url))
	if err != nil {
		return "", &FetchError{URL: url, Transient: true, Err: err}
	}
	if resp != nil {
		status := int(resp.Status)
		if status >= http.StatusBadRequest && status < http.StatusInternalServerError &&
			status != http.StatusTooManyRequests {
			return "", &FetchError{URL: url, Transient: false, Err: fmt.Errorf("status %d", status)}
		}
		if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
			return "", &FetchError{URL: url, Transient: true, Err: fmt.Errorf("status %d", status)}
		}
	}

	var html string
	actions := []chromedp.Action{chromedp.WaitReady("body")}
	if location != nil {
		actions = append(actions, chromedp.Location(location))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html))
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", &FetchError{URL: url, Transient: true, Err: err}
	}
	if strings.TrimSpace(html) == "" {
		return "", &FetchError{URL: url, Transient: true, Err: fmt.Errorf("empty body")}
	}
	return html, nil
}
