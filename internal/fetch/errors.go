package fetch

import (
	"fmt"

	"github.com/rohmanhakim/ravencrawl/pkg/failure"
)

// FetchErrorCause classifies why a fetch ultimately failed. Every
// cause here is recoverable at the crawl level: a single URL's fetch
// failure never halts a crawl (the crawler marks the URL failed and
// continues).
type FetchErrorCause string

const (
	CauseFetchFailed     FetchErrorCause = "fetch_failed"
	CauseRequestTimeout  FetchErrorCause = "request_timeout"
	CauseHTTPError       FetchErrorCause = "http_error"
	CauseTooManyRedirect FetchErrorCause = "too_many_redirects"
	CauseMissingLocation FetchErrorCause = "missing_location"
)

// FetchError reports why Fetch could not produce a Resource for a URL.
// StatusCode is populated only for CauseHTTPError.
type FetchError struct {
	Cause      FetchErrorCause
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.Cause == CauseHTTPError {
		return fmt.Sprintf("fetch: http status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch: %s: %s", e.Cause, e.Message)
}

func (e *FetchError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *FetchError) IsRetryable() bool {
	switch e.Cause {
	case CauseFetchFailed, CauseRequestTimeout:
		return true
	default:
		return false
	}
}

var _ failure.ClassifiedError = (*FetchError)(nil)
