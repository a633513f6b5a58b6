// Package telemetry is the crawler's sole observability sink: fetch
// events, classified errors, and emitted artifacts flow through here
// for logging and reporting, and are consulted by nothing else in the
// engine — see ErrorCause's invariant that it never drives control
// flow.
package telemetry

import (
	"sync"
	"time"
)

// Sink receives observability events as a crawl progresses.
// Implementations must be safe for concurrent use: a bounded worker
// pool may report fetch outcomes from multiple goroutines at once.
type Sink interface {
	RecordFetch(FetchEvent)
	RecordError(ErrorRecord)
	RecordArtifact(ArtifactRecord)
	RecordFinalCrawlStats(CrawlStats)
}

// Recorder is the default in-memory Sink: it buffers every event for
// later inspection (tests assert against it directly) instead of
// shipping to an external system.
type Recorder struct {
	mu        sync.Mutex
	fetches   []FetchEvent
	errors    []ErrorRecord
	artifacts []ArtifactRecord
	final     *CrawlStats
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordFetch(e FetchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches = append(r.fetches, e)
}

func (r *Recorder) RecordError(e ErrorRecord) {
	if e.ObservedAt.IsZero() {
		e.ObservedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, e)
}

func (r *Recorder) RecordArtifact(a ArtifactRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = append(r.artifacts, a)
}

func (r *Recorder) RecordFinalCrawlStats(s CrawlStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := s
	r.final = &stats
}

// Fetches returns every recorded fetch event, in recording order.
func (r *Recorder) Fetches() []FetchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FetchEvent, len(r.fetches))
	copy(out, r.fetches)
	return out
}

// Errors returns every recorded error, in recording order.
func (r *Recorder) Errors() []ErrorRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ErrorRecord, len(r.errors))
	copy(out, r.errors)
	return out
}

// Artifacts returns every recorded artifact, in recording order.
func (r *Recorder) Artifacts() []ArtifactRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ArtifactRecord, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}

// FinalStats returns the recorded terminal CrawlStats, or nil if the
// crawl has not yet finished.
func (r *Recorder) FinalStats() *CrawlStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.final
}

var _ Sink = (*Recorder)(nil)
