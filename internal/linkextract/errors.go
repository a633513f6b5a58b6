package linkextract

import "github.com/rohmanhakim/ravencrawl/pkg/failure"

// ExtractionErrorCause classifies a failure to produce a URL set for a
// document. Extract itself returns no error; it scans whatever text it
// is given.
type ExtractionErrorCause string

const (
	// CauseNotHTML classifies extraction asked for on a document that
	// was never established as HTML.
	CauseNotHTML ExtractionErrorCause = "not_html"
)

// ExtractionError reports a failure to extract URLs from a document.
// It always carries SeverityFatal: extraction is only ever invoked by
// the caller's own code on its own data, so a failure here is a
// programmer error, not a transient condition.
type ExtractionError struct {
	Cause   ExtractionErrorCause
	Message string
}

func (e *ExtractionError) Error() string {
	return "linkextract: " + e.Message
}

func (e *ExtractionError) Severity() failure.Severity {
	return failure.SeverityFatal
}

var _ failure.ClassifiedError = (*ExtractionError)(nil)
