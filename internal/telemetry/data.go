package telemetry

import "time"

// FetchEvent records one completed fetch attempt for observability.
type FetchEvent struct {
	URL         string
	HTTPStatus  int
	Duration    time.Duration
	ContentType string
	RetryCount  int
}

// ArtifactKind classifies what RecordArtifact wrote to disk.
type ArtifactKind int

const (
	ArtifactPage ArtifactKind = iota
	ArtifactAsset
	ArtifactBundle
)

// ArtifactRecord records one resource written to disk during emission.
type ArtifactRecord struct {
	URL  string
	Path string
	Kind ArtifactKind
}

// CrawlStats is a terminal, derived summary of a completed crawl:
// aggregate counts and durations only, computed once the crawl has
// ended. It must never influence scheduling, retries, or termination
// — it is recorded, not consulted.
type CrawlStats struct {
	TotalPages       int
	TotalAssets      int
	TotalErrors      int
	DurationMS       int64
	StatusCodeCounts map[int]int
}

/*
ErrorCause is a closed, canonical classification used exclusively for
observability (logging, metrics, reporting).

Rules:
  - ErrorCause is for observability only.
  - It must never be used to derive retry, continuation, or abort decisions.
  - ErrorCause values MUST have stable, package-agnostic semantics.
  - Pipeline packages MAY map their local errors to ErrorCause, but MUST
    NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST
be used.
*/
type ErrorCause int

const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
	CauseRetryFailure
	CauseLifecycleMisuse
)

// ErrorRecord records one classified failure observed during a crawl.
type ErrorRecord struct {
	PackageName string
	Action      string
	Cause       ErrorCause
	ErrorString string
	ObservedAt  time.Time
	Attrs       []Attribute
}

// AttributeKey names a dimension attached to an ErrorRecord.
type AttributeKey string

const (
	AttrTime       AttributeKey = "time"
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrPath       AttributeKey = "path"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrAssetURL   AttributeKey = "asset_url"
	AttrWritePath  AttributeKey = "write_path"
	AttrMessage    AttributeKey = "message"
)

// Attribute is one key-value pair attached to an ErrorRecord.
type Attribute struct {
	Key   AttributeKey
	Value string
}

// NewAttr builds an Attribute.
func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{Key: key, Value: val}
}
