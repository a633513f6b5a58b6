package fetch

import (
	"net/url"
	"time"

	"github.com/rohmanhakim/ravencrawl/pkg/urlutil"
)

// Resolver is a caller-supplied stand-in for an HTTP origin: given a
// request path it returns a status code, content type, and body
// directly, with no network involved. It backs the Config boundary's
// in-process resolver origin strategy.
type Resolver func(path string) (statusCode int, contentType string, body []byte, err error)

// FetchFromResolver invokes resolver for path and wraps the outcome as
// a Result with a single-entry attempt chain. Unlike Fetch, there is
// no redirect handling: the resolver is trusted to return a final
// response directly.
func FetchFromResolver(path string, base *url.URL, resolver Resolver) (Result, error) {
	current, err := urlutil.Normalize(path, base)
	if err != nil || urlutil.IsNonCrawlable(current) {
		return Result{}, &FetchError{Cause: CauseFetchFailed, Message: "invalid or non-crawlable url"}
	}

	start := time.Now()
	status, contentType, body, rerr := resolver(path)
	end := time.Now()

	attempt := Attempt{
		URL:            current,
		StatusCode:     status,
		ResponseTimeMS: end.Sub(start).Milliseconds(),
		StartTimeMS:    start.UnixMilli(),
		EndTimeMS:      end.UnixMilli(),
	}

	if rerr != nil {
		return Result{}, &FetchError{Cause: CauseFetchFailed, Message: rerr.Error()}
	}
	if !attempt.IsSuccess() {
		return Result{}, &FetchError{Cause: CauseHTTPError, StatusCode: status, Message: "resolver returned non-success status"}
	}

	return Result{
		FinalURL:    current,
		ContentType: contentType,
		Body:        body,
		Attempts:    []Attempt{attempt},
	}, nil
}
