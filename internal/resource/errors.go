package resource

import "github.com/rohmanhakim/ravencrawl/pkg/failure"

// ResourceErrorCause classifies a Resource operation failure.
type ResourceErrorCause string

const (
	// CauseNotHTML is returned by Text/ExtractURLs when called on a
	// Resource whose content type is not text/html. Callers are expected
	// to check IsHTML first; this is a programmer error, not a transient
	// condition.
	CauseNotHTML ResourceErrorCause = "not_html"
	// CauseWriteFailure is returned by Save for any write failure other
	// than disk-full.
	CauseWriteFailure ResourceErrorCause = "write_failure"
	// CauseDiskFull is returned by Save when the underlying write fails
	// with ENOSPC.
	CauseDiskFull ResourceErrorCause = "disk_full"
)

// ResourceError reports a Resource operation invoked on a document
// that cannot support it, or a failure while saving one to disk.
type ResourceError struct {
	Cause     ResourceErrorCause
	URL       string
	Retryable bool
}

func (e *ResourceError) Error() string {
	return "resource: " + string(e.Cause) + ": " + e.URL
}

func (e *ResourceError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *ResourceError) IsRetryable() bool {
	return e.Retryable
}

var _ failure.ClassifiedError = (*ResourceError)(nil)
