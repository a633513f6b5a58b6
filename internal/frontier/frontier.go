// Package frontier implements the crawler's Frontier: the three
// disjoint URL sets (pending, crawled, failed) that record what has
// been discovered, what has resolved successfully, and what has
// failed, plus the one-way transitions between them.
//
// A Frontier is mutated only from the crawl control loop; its mutex
// exists to make that safe even when the loop itself dispatches fetch
// work across goroutines, not to support unrestricted concurrent
// access.
package frontier

import (
	"net/url"
	"sync"
)

// Stats is a point-in-time snapshot of set sizes, as surfaced through
// a Crawler's reported statistics.
type Stats struct {
	Pending int
	Crawled int
	Failed  int
}

// Frontier owns the pending/crawled/failed URL sets for a single
// crawl. The zero value is not usable; construct with New.
type Frontier struct {
	mu sync.Mutex

	pendingQueue *FIFOQueue[url.URL]
	pendingSet   *Set[url.URL]
	crawledSet   *Set[url.URL]
	failedSet    *Set[url.URL]
}

// New returns an empty Frontier.
func New() *Frontier {
	return &Frontier{
		pendingQueue: NewFIFOQueue[url.URL](),
		pendingSet:   NewSet[url.URL](),
		crawledSet:   NewSet[url.URL](),
		failedSet:    NewSet[url.URL](),
	}
}

// Known reports whether u is in any of the three sets.
func (f *Frontier) Known(u url.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.knownLocked(u)
}

func (f *Frontier) knownLocked(u url.URL) bool {
	return f.pendingSet.Has(u) || f.crawledSet.Has(u) || f.failedSet.Has(u)
}

// Discover adds u to the pending set unless it is already known.
// Idempotent: discovering an already-known URL is a no-op. Returns
// true if u was newly added.
func (f *Frontier) Discover(u url.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.knownLocked(u) {
		return false
	}
	f.pendingSet.Add(u)
	f.pendingQueue.Push(u)
	return true
}

// NextPending removes and returns some pending URL, or ok=false if
// none remain queued. The URL stays a member of the pending set (and
// so remains "known") until MarkCrawled or MarkFailed resolves it.
// Queue entries that were resolved without being popped are skipped.
func (f *Frontier) NextPending() (url.URL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		u, ok := f.pendingQueue.Pop()
		if !ok || f.pendingSet.Has(u) {
			return u, ok
		}
	}
}

// MarkCrawled transitions u from pending to crawled. It fails with
// CauseNotPending if u is not currently pending.
func (f *Frontier) MarkCrawled(u url.URL) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.pendingSet.Has(u) {
		return &FrontierError{Cause: CauseNotPending, URL: u.String()}
	}
	f.pendingSet.Remove(u)
	f.crawledSet.Add(u)
	return nil
}

// MarkFailed transitions u from pending to failed. It fails with
// CauseNotPending if u is not currently pending — including a second
// MarkFailed call on a URL already marked failed.
func (f *Frontier) MarkFailed(u url.URL) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.pendingSet.Has(u) {
		return &FrontierError{Cause: CauseNotPending, URL: u.String()}
	}
	f.pendingSet.Remove(u)
	f.failedSet.Add(u)
	return nil
}

// IsPending reports whether u currently has pending status.
func (f *Frontier) IsPending(u url.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingSet.Has(u)
}

// IsCrawled reports whether u has been marked crawled.
func (f *Frontier) IsCrawled(u url.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.crawledSet.Has(u)
}

// IsFailed reports whether u has been marked failed.
func (f *Frontier) IsFailed(u url.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failedSet.Has(u)
}

// HasPending reports whether any URL remains queued for NextPending.
func (f *Frontier) HasPending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.pendingQueue.IsEmpty()
}

// Stats returns a snapshot of the three set sizes.
func (f *Frontier) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Stats{
		Pending: f.pendingSet.Len(),
		Crawled: f.crawledSet.Len(),
		Failed:  f.failedSet.Len(),
	}
}
