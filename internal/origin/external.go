package origin

import (
	"net/http"
	"net/url"
	"sync"
	"time"
)

// externalBinding targets a server that is already running outside the
// crawler's control (no subprocess to launch or tear down).
type externalBinding struct {
	origin url.URL
	client *http.Client

	mu   sync.Mutex
	down bool
}

// NewExternal binds to an already-running server at originURL. Teardown
// is a no-op since the crawler didn't start the process.
func NewExternal(originURL url.URL) Binding {
	return &externalBinding{
		origin: originURL,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (b *externalBinding) Origin() url.URL { return b.origin }

func (b *externalBinding) Alive() bool {
	b.mu.Lock()
	down := b.down
	b.mu.Unlock()
	if down {
		return false
	}

	resp, err := b.client.Get(b.origin.String())
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

func (b *externalBinding) Teardown() error {
	b.mu.Lock()
	b.down = true
	b.mu.Unlock()
	return nil
}
