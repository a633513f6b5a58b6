package origin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// handlerBinding binds an http.Handler to an ephemeral local port.
// Teardown closes the listener and drains in-flight requests.
type handlerBinding struct {
	srv *httptest.Server

	mu   sync.Mutex
	down bool
}

// NewHandler starts handler on an ephemeral local port and returns a
// Binding for it.
func NewHandler(handler http.Handler) Binding {
	srv := httptest.NewServer(handler)
	return &handlerBinding{srv: srv}
}

func (b *handlerBinding) Origin() url.URL {
	u, err := url.Parse(b.srv.URL)
	if err != nil {
		return url.URL{}
	}
	return *u
}

func (b *handlerBinding) Alive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.down
}

func (b *handlerBinding) Teardown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.down {
		return nil
	}
	b.srv.Close()
	b.down = true
	return nil
}
