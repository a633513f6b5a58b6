package origin

import "github.com/rohmanhakim/ravencrawl/pkg/failure"

// OriginErrorCause classifies why an Origin Binding could not be
// established or why it was found dead mid-crawl.
type OriginErrorCause string

const (
	// CauseBootTimeout means a subprocess origin never answered its
	// readiness probe within the configured timeout. Fatal to Start.
	CauseBootTimeout OriginErrorCause = "boot_timeout"
	// CauseServerDied means a liveness probe failed after the origin
	// had previously been ready. Fatal to the current crawl.
	CauseServerDied OriginErrorCause = "server_died"
)

// OriginError reports an Origin Binding failure.
type OriginError struct {
	Cause   OriginErrorCause
	Message string
}

func (e *OriginError) Error() string {
	return "origin: " + string(e.Cause) + ": " + e.Message
}

func (e *OriginError) Severity() failure.Severity {
	return failure.SeverityFatal
}

var _ failure.ClassifiedError = (*OriginError)(nil)
