// Package origin implements the crawler's Origin Binding: the three
// strategies (an in-process handler, a subprocess, or a caller-supplied
// resolver) that make "something serves this crawl's seed URLs"
// possible, behind one shared interface so the Crawler never needs to
// know which strategy backed a given crawl.
package origin

import "net/url"

// Binding is the Crawler's only view of an origin: where to reach it,
// whether it is still alive, and how to tear it down.
type Binding interface {
	// Origin returns the base URL seeds should be resolved against.
	Origin() url.URL
	// Alive reports whether the origin can still serve requests. It
	// must be safe to call concurrently with fetches in flight.
	Alive() bool
	// Teardown releases whatever resources back the origin. Idempotent.
	Teardown() error
}
