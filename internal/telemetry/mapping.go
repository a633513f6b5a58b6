package telemetry

import (
	"github.com/rohmanhakim/ravencrawl/internal/fetch"
	"github.com/rohmanhakim/ravencrawl/internal/origin"
	"github.com/rohmanhakim/ravencrawl/internal/resource"
)

// MapFetchErrorToCause maps a fetch.FetchErrorCause to its
// observability-only ErrorCause. Pipeline packages translate their own
// error vocabulary here rather than inventing new ErrorCause meanings.
func MapFetchErrorToCause(cause fetch.FetchErrorCause) ErrorCause {
	switch cause {
	case fetch.CauseFetchFailed, fetch.CauseRequestTimeout:
		return CauseNetworkFailure
	case fetch.CauseHTTPError, fetch.CauseTooManyRedirect, fetch.CauseMissingLocation:
		return CauseContentInvalid
	default:
		return CauseUnknown
	}
}

// MapResourceErrorToCause maps a resource.ResourceErrorCause to its
// observability-only ErrorCause.
func MapResourceErrorToCause(cause resource.ResourceErrorCause) ErrorCause {
	switch cause {
	case resource.CauseNotHTML:
		return CauseContentInvalid
	case resource.CauseWriteFailure, resource.CauseDiskFull:
		return CauseStorageFailure
	default:
		return CauseUnknown
	}
}

// MapOriginErrorToCause maps an origin.OriginErrorCause to its
// observability-only ErrorCause.
func MapOriginErrorToCause(cause origin.OriginErrorCause) ErrorCause {
	switch cause {
	case origin.CauseBootTimeout, origin.CauseServerDied:
		return CauseNetworkFailure
	default:
		return CauseUnknown
	}
}

// MapFrontierErrorToCause maps a frontier invariant violation to its
// observability-only ErrorCause. Frontier violations always indicate
// an engine bug, not an external condition.
func MapFrontierErrorToCause() ErrorCause {
	return CauseInvariantViolation
}
