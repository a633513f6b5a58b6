package crawler

import "github.com/rohmanhakim/ravencrawl/pkg/failure"

// LifecycleErrorCause classifies a Crawler lifecycle misuse.
type LifecycleErrorCause string

const (
	CauseAlreadyStarted  LifecycleErrorCause = "already_started"
	CauseNotStarted      LifecycleErrorCause = "not_started"
	CauseAlreadyCrawling LifecycleErrorCause = "already_crawling"
)

// LifecycleError reports a call made out of order against the
// Crawler's NotStarted -> Idle -> Crawling -> Stopped state machine.
// These are programmer errors, never recoverable at runtime.
type LifecycleError struct {
	Cause   LifecycleErrorCause
	Message string
}

func (e *LifecycleError) Error() string {
	if e.Message != "" {
		return "crawler: " + string(e.Cause) + ": " + e.Message
	}
	return "crawler: " + string(e.Cause)
}

func (e *LifecycleError) Severity() failure.Severity {
	return failure.SeverityFatal
}

var _ failure.ClassifiedError = (*LifecycleError)(nil)
