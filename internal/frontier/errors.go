package frontier

import "github.com/rohmanhakim/ravencrawl/pkg/failure"

// FrontierErrorCause classifies a Frontier invariant violation.
type FrontierErrorCause string

// CauseNotPending is returned by MarkCrawled/MarkFailed when the URL
// is not currently in the pending set — including a second MarkFailed
// on a URL already marked failed, which this package treats uniformly
// as a precondition violation rather than a no-op.
const CauseNotPending FrontierErrorCause = "not_pending"

// FrontierError reports a Frontier operation invoked in violation of
// its stated precondition. It is always a caller bug: the Crawler is
// the sole admission point into the Frontier and only calls
// MarkCrawled/MarkFailed on a URL it has just discovered or popped
// from NextPending.
type FrontierError struct {
	Cause FrontierErrorCause
	URL   string
}

func (e *FrontierError) Error() string {
	return "frontier: " + string(e.Cause) + ": " + e.URL
}

func (e *FrontierError) Severity() failure.Severity {
	return failure.SeverityFatal
}

var _ failure.ClassifiedError = (*FrontierError)(nil)
