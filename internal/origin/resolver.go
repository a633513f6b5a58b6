package origin

import "net/url"

// dummyOrigin is the placeholder base URL used for resolver-backed
// crawls, which never touch the network.
const dummyOrigin = "http://localhost:0"

// resolverBinding wraps a caller-supplied resolver function. It has no
// network presence: Alive is always true and Teardown is a no-op.
type resolverBinding struct {
	origin url.URL
}

// NewResolver returns a Binding with no network presence, used when
// the Config supplies a resolver callable directly instead of an
// origin to fetch from.
func NewResolver() Binding {
	u, _ := url.Parse(dummyOrigin)
	return &resolverBinding{origin: *u}
}

func (b *resolverBinding) Origin() url.URL { return b.origin }
func (b *resolverBinding) Alive() bool     { return true }
func (b *resolverBinding) Teardown() error { return nil }
