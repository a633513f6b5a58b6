package origin

import (
	"net/http"
	"net/url"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rohmanhakim/ravencrawl/pkg/failure"
	"github.com/rohmanhakim/ravencrawl/pkg/retry"
	"github.com/rohmanhakim/ravencrawl/pkg/timeutil"
)

// probeError is the ClassifiedError wrapper for a single failed
// readiness probe, always retryable until the overall timeout is hit.
type probeError struct{}

func (probeError) Error() string             { return "origin: readiness probe failed" }
func (probeError) Severity() failure.Severity { return failure.SeverityRecoverable }
func (probeError) IsRetryable() bool          { return true }

// DefaultReadyTimeout is how long NewProcess waits for a subprocess
// origin's health probe to succeed before failing with BootTimeout.
const DefaultReadyTimeout = 30 * time.Second

const (
	readyProbeInterval = 200 * time.Millisecond
	killGracePeriod    = 5 * time.Second
)

// processBinding launches argv[0] as a child process and probes
// originURL until it answers or readyTimeout elapses.
type processBinding struct {
	cmd    *exec.Cmd
	origin url.URL
	client *http.Client

	mu   sync.Mutex
	down bool
}

// NewProcess starts argv as a child process, then polls originURL's
// "/" until it answers successfully or readyTimeout (DefaultReadyTimeout
// if zero) elapses, in which case it returns a *OriginError with
// CauseBootTimeout and the process is killed.
func NewProcess(argv []string, originURL url.URL, readyTimeout time.Duration) (Binding, error) {
	if readyTimeout <= 0 {
		readyTimeout = DefaultReadyTimeout
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	b := &processBinding{
		cmd:    cmd,
		origin: originURL,
		client: &http.Client{Timeout: readyProbeInterval},
	}

	if err := b.waitReady(readyTimeout); err != nil {
		_ = b.Teardown()
		return nil, err
	}

	return b, nil
}

func (b *processBinding) waitReady(timeout time.Duration) error {
	maxAttempts := int(timeout/readyProbeInterval) + 1
	backoffParam := timeutil.NewBackoffParam(readyProbeInterval, 1.0, readyProbeInterval)
	params := retry.NewRetryParam(readyProbeInterval, 0, 1, maxAttempts, backoffParam)

	result := retry.Retry(params, func() (struct{}, failure.ClassifiedError) {
		resp, err := b.client.Get(b.origin.String())
		if err != nil {
			return struct{}{}, probeError{}
		}
		resp.Body.Close()
		return struct{}{}, nil
	})

	if result.IsFailure() {
		return &OriginError{Cause: CauseBootTimeout, Message: "subprocess origin never became ready"}
	}
	return nil
}

// Origin returns the URL the subprocess is expected to serve.
func (b *processBinding) Origin() url.URL { return b.origin }

// Alive probes the origin's liveness. It is used by the Crawler's
// periodic liveness check during crawl to abort fast if the child
// process has died.
func (b *processBinding) Alive() bool {
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

// Teardown sends SIGTERM, waits up to killGracePeriod, then SIGKILL.
func (b *processBinding) Teardown() error {
	b.mu.Lock()
	if b.down {
		b.mu.Unlock()
		return nil
	}
	b.down = true
	b.mu.Unlock()

	if b.cmd.Process == nil {
		return nil
	}

	_ = b.cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan error, 1)
	go func() { done <- b.cmd.Wait() }()

	select {
	case <-done:
		return nil
	case <-time.After(killGracePeriod):
		_ = b.cmd.Process.Signal(syscall.SIGKILL)
		<-done
		return nil
	}
}
