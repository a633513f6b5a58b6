package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rohmanhakim/ravencrawl/internal/build"
	"github.com/rohmanhakim/ravencrawl/pkg/urlutil"
)

// DefaultTimeout is the per-attempt timeout applied when Options.Timeout
// is zero.
const DefaultTimeout = 10 * time.Second

// DefaultMaxRedirects is the redirect chain length applied when
// Options.MaxRedirects is zero.
const DefaultMaxRedirects = 5

// Options configures a single Fetch call.
type Options struct {
	// Timeout bounds each individual HTTP attempt, not the whole
	// redirect chain. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxRedirects is the maximum number of redirect hops followed
	// before TooManyRedirects. Zero means DefaultMaxRedirects.
	MaxRedirects int
	// UserAgent is sent on every request. Empty means build.UserAgent().
	UserAgent string
	// Client is the underlying HTTP client. Nil means a client with
	// redirects disabled is constructed for the call.
	Client *http.Client
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	if o.UserAgent == "" {
		o.UserAgent = build.UserAgent()
	}
	if o.Client == nil {
		o.Client = &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return o
}

// Fetch resolves path against base, then issues GET requests following
// redirects manually so each hop becomes its own Attempt. Timeouts
// apply per attempt, not to the whole redirect chain. It returns a
// *FetchError (satisfying failure.ClassifiedError) on any failure.
func Fetch(ctx context.Context, path string, base *url.URL, opts Options) (Result, error) {
	opts = opts.withDefaults()

	current, err := urlutil.Normalize(path, base)
	if err != nil || urlutil.IsNonCrawlable(current) {
		return Result{}, &FetchError{Cause: CauseFetchFailed, Message: "invalid or non-crawlable url"}
	}

	var attempts []Attempt
	redirects := 0

	for {
		attempt, resp, ferr := doOneRequest(ctx, current, opts)
		attempts = append(attempts, attempt)
		if ferr != nil {
			return Result{}, ferr
		}

		if attempt.IsRedirect() {
			location := resp.Header.Get("Location")
			resp.Body.Close()
			if location == "" {
				return Result{}, &FetchError{Cause: CauseMissingLocation, Message: "redirect response had no Location header"}
			}
			redirects++
			if redirects > opts.MaxRedirects {
				return Result{}, &FetchError{Cause: CauseTooManyRedirect, Message: "exceeded max redirect count"}
			}
			next, nerr := urlutil.Normalize(location, &current)
			if nerr != nil || urlutil.IsNonCrawlable(next) {
				return Result{}, &FetchError{Cause: CauseMissingLocation, Message: "redirect Location did not resolve to a crawlable url"}
			}
			current = next
			continue
		}

		if !attempt.IsSuccess() {
			resp.Body.Close()
			return Result{}, &FetchError{Cause: CauseHTTPError, StatusCode: attempt.StatusCode, Message: resp.Status}
		}

		body, rerr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if rerr != nil {
			return Result{}, &FetchError{Cause: CauseFetchFailed, Message: rerr.Error()}
		}

		return Result{
			FinalURL:    current,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
			Attempts:    attempts,
		}, nil
	}
}

// doOneRequest issues a single GET to target and returns the recorded
// Attempt alongside the raw response (caller must close Body) or a
// *FetchError when the request itself could not be completed.
func doOneRequest(ctx context.Context, target url.URL, opts Options) (Attempt, *http.Response, *FetchError) {
	reqCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		start := time.Now()
		return syntheticAttempt(target, start, start, 0), nil, &FetchError{Cause: CauseFetchFailed, Message: err.Error()}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	start := time.Now()
	resp, err := opts.Client.Do(req)
	end := time.Now()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return syntheticAttempt(target, start, end, 408), nil, &FetchError{Cause: CauseRequestTimeout, Message: "request exceeded per-attempt timeout"}
		}
		return syntheticAttempt(target, start, end, 0), nil, &FetchError{Cause: CauseFetchFailed, Message: err.Error()}
	}

	return Attempt{
		URL:            target,
		StatusCode:     resp.StatusCode,
		ResponseTimeMS: end.Sub(start).Milliseconds(),
		StartTimeMS:    start.UnixMilli(),
		EndTimeMS:      end.UnixMilli(),
	}, resp, nil
}

func syntheticAttempt(target url.URL, start, end time.Time, status int) Attempt {
	return Attempt{
		URL:            target,
		StatusCode:     status,
		ResponseTimeMS: end.Sub(start).Milliseconds(),
		StartTimeMS:    start.UnixMilli(),
		EndTimeMS:      end.UnixMilli(),
	}
}
