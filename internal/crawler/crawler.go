// Package crawler implements the Crawler orchestrator: it owns the
// Frontier, the origin binding, the resulting Resources, and the
// bounded main loop that pops pending URLs, fetches them (optionally
// in parallel via a bounded worker pool), marks them crawled or
// failed, and discovers same-origin links from HTML responses.
package crawler

import (
	"context"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/rohmanhakim/ravencrawl/internal/config"
	"github.com/rohmanhakim/ravencrawl/internal/discovery"
	"github.com/rohmanhakim/ravencrawl/internal/fetch"
	"github.com/rohmanhakim/ravencrawl/internal/frontier"
	"github.com/rohmanhakim/ravencrawl/internal/origin"
	"github.com/rohmanhakim/ravencrawl/internal/resource"
	"github.com/rohmanhakim/ravencrawl/internal/telemetry"
	"github.com/rohmanhakim/ravencrawl/pkg/concurrency"
	"github.com/rohmanhakim/ravencrawl/pkg/failure"
	"github.com/rohmanhakim/ravencrawl/pkg/urlutil"
)

// Crawler is the sole control-plane authority of a crawl: it is the
// only component that decides whether a URL enters the Frontier.
type Crawler struct {
	cfg  config.Config
	sink telemetry.Sink

	mu        sync.Mutex
	state     State
	binding   origin.Binding
	originURL url.URL
	frontier  *frontier.Frontier

	bundlePaths map[string]struct{}

	resources []*resource.Resource
	bundles   []*resource.BundleResource

	successCount int
	errorCount   int
	startTime    time.Time
	duration     time.Duration
}

// New constructs a Crawler for cfg. sink receives fetch/error/artifact
// telemetry; pass telemetry.NewRecorder() if the caller doesn't need
// to supply its own.
func New(cfg config.Config, sink telemetry.Sink) *Crawler {
	return &Crawler{
		cfg:         cfg,
		sink:        sink,
		state:       NotStarted,
		bundlePaths: map[string]struct{}{},
	}
}

// AddVisitedResource inserts a pre-built Resource into the crawled set
// (its path is marked crawled when Start builds the Frontier), for
// callers that already have content for a path (e.g. a bundle) before
// the crawl begins. It fails once the Crawler has started.
func (c *Crawler) AddVisitedResource(u url.URL, r *resource.Resource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != NotStarted {
		return &LifecycleError{Cause: CauseAlreadyStarted, Message: "add_visited_resource after start"}
	}

	c.resources = append(c.resources, r)
	c.bundlePaths[u.Path] = struct{}{}
	return nil
}

// Start acquires the origin binding, seeds the Frontier from the
// configured routes, and loads any configured bundles. It must be
// called exactly once, before Crawl.
func (c *Crawler) Start(ctx context.Context) failure.ClassifiedError {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != NotStarted {
		return &LifecycleError{Cause: CauseAlreadyStarted}
	}

	switch srv := c.cfg.Server().(type) {
	case config.ResolverServer:
		c.binding = origin.NewResolver()
	case config.HandlerServer:
		c.binding = origin.NewHandler(srv.Handler)
	case config.ProcessServer:
		target, err := url.Parse(srv.OriginURL)
		if err != nil {
			return &LifecycleError{Cause: CauseNotStarted, Message: "invalid process origin url: " + err.Error()}
		}
		if len(srv.Argv) == 0 {
			c.binding = origin.NewExternal(*target)
			break
		}
		b, berr := origin.NewProcess(srv.Argv, *target, c.cfg.ServerTimeout())
		if berr != nil {
			if cerr, ok := berr.(failure.ClassifiedError); ok {
				return cerr
			}
			return &LifecycleError{Cause: CauseNotStarted, Message: berr.Error()}
		}
		c.binding = b
	default:
		return &LifecycleError{Cause: CauseNotStarted, Message: "no server configured"}
	}

	c.originURL = c.binding.Origin()
	c.frontier = frontier.New()

	for p := range c.bundlePaths {
		u, err := urlutil.Normalize(p, &c.originURL)
		if err != nil || urlutil.IsNonCrawlable(u) {
			continue
		}
		c.frontier.Discover(u)
		_ = c.frontier.MarkCrawled(u)
	}

	if err := c.loadBundles(); err != nil {
		return err
	}

	for _, route := range c.cfg.Routes() {
		u, err := urlutil.Normalize(route, &c.originURL)
		if err != nil || urlutil.IsNonCrawlable(u) {
			continue
		}
		c.frontier.Discover(u)
	}

	c.startTime = time.Now()
	c.state = Idle
	return nil
}

func (c *Crawler) loadBundles() failure.ClassifiedError {
	for urlPath, spec := range c.cfg.Bundles() {
		body, err := os.ReadFile(spec.BodyFile)
		if err != nil {
			return &LifecycleError{Cause: CauseNotStarted, Message: "reading bundle body " + spec.BodyFile + ": " + err.Error()}
		}
		var sourceMap []byte
		if spec.SourceMapFile != "" {
			sourceMap, err = os.ReadFile(spec.SourceMapFile)
			if err != nil {
				return &LifecycleError{Cause: CauseNotStarted, Message: "reading bundle source map " + spec.SourceMapFile + ": " + err.Error()}
			}
		}

		u, err := urlutil.Normalize(urlPath, &c.originURL)
		if err != nil {
			return &LifecycleError{Cause: CauseNotStarted, Message: "invalid bundle path " + urlPath}
		}

		c.bundles = append(c.bundles, resource.NewBundleResource(u, body, sourceMap))
		c.bundlePaths[u.Path] = struct{}{}
		c.frontier.Discover(u)
		_ = c.frontier.MarkCrawled(u)
	}
	return nil
}

// Crawl runs the main loop until the Frontier drains, max_resources is
// reached, or ctx is cancelled between iterations. Single-URL fetch
// failures never abort the crawl; an origin binding dying does.
func (c *Crawler) Crawl(ctx context.Context) failure.ClassifiedError {
	c.mu.Lock()
	if c.state == NotStarted {
		c.mu.Unlock()
		return &LifecycleError{Cause: CauseNotStarted}
	}
	if c.state == Crawling {
		c.mu.Unlock()
		return &LifecycleError{Cause: CauseAlreadyCrawling}
	}
	c.state = Crawling
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.state == Crawling {
			c.state = Idle
		}
		c.mu.Unlock()
	}()

	pool := concurrency.NewPool(c.cfg.Concurrency())
	processed := 0
	maxResources := c.cfg.MaxResources()

	for processed < maxResources {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if c.binding != nil && !c.binding.Alive() {
			return &origin.OriginError{Cause: origin.CauseServerDied, Message: "origin binding is no longer alive"}
		}

		batchSize := minInt(c.cfg.Concurrency(), maxResources-processed)
		batch := make([]url.URL, 0, batchSize)
		for len(batch) < batchSize {
			u, ok := c.frontier.NextPending()
			if !ok {
				break
			}
			batch = append(batch, u)
		}
		if len(batch) == 0 {
			break
		}

		outcomes := make([]fetchOutcome, len(batch))
		for i, u := range batch {
			i, u := i, u
			pool.Go(func() {
				outcomes[i] = c.fetchOne(ctx, u)
			})
		}
		pool.Wait()

		for _, o := range outcomes {
			processed++
			c.processOutcome(o)
		}
	}

	return nil
}

// Stop tears down the origin binding and freezes statistics. Safe to
// call more than once.
func (c *Crawler) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Stopped {
		return nil
	}
	if !c.startTime.IsZero() {
		c.duration = time.Since(c.startTime)
	}
	c.state = Stopped

	totalAssets := len(c.bundles)
	statusCodeCounts := map[int]int{}
	for _, r := range c.resources {
		if r.IsAsset() {
			totalAssets++
		}
		for _, a := range r.Attempts() {
			statusCodeCounts[a.StatusCode]++
		}
	}

	c.sink.RecordFinalCrawlStats(telemetry.CrawlStats{
		TotalPages:       c.successCount,
		TotalAssets:      totalAssets,
		TotalErrors:      c.errorCount,
		DurationMS:       c.duration.Milliseconds(),
		StatusCodeCounts: statusCodeCounts,
	})

	if c.binding != nil {
		return c.binding.Teardown()
	}
	return nil
}

// Resources returns every successfully fetched Resource plus any
// pre-seeded ones, in completion order (not part of the contract).
func (c *Crawler) Resources() []*resource.Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*resource.Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

// Bundles returns every configured bundle resource.
func (c *Crawler) Bundles() []*resource.BundleResource {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*resource.BundleResource, len(c.bundles))
	copy(out, c.bundles)
	return out
}

// Stats returns the Frontier's set sizes.
func (c *Crawler) Stats() frontier.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frontier == nil {
		return frontier.Stats{}
	}
	return c.frontier.Stats()
}

type fetchOutcome struct {
	requestedURL url.URL
	result       fetch.Result
	err          failure.ClassifiedError
}

func (c *Crawler) fetchOne(ctx context.Context, u url.URL) fetchOutcome {
	if resolver, ok := c.cfg.Server().(config.ResolverServer); ok {
		res, err := fetch.FetchFromResolver(u.RequestURI(), &c.originURL, resolver.Resolve)
		return fetchOutcome{requestedURL: u, result: res, err: asClassified(err)}
	}

	res, err := fetch.Fetch(ctx, u.RequestURI(), &c.originURL, fetch.Options{
		Timeout:   c.cfg.RequestTimeout(),
		UserAgent: c.cfg.UserAgent(),
	})
	return fetchOutcome{requestedURL: u, result: res, err: asClassified(err)}
}

func asClassified(err error) failure.ClassifiedError {
	if err == nil {
		return nil
	}
	if cerr, ok := err.(failure.ClassifiedError); ok {
		return cerr
	}
	return nil
}

func (c *Crawler) processOutcome(o fetchOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.err != nil {
		_ = c.frontier.MarkFailed(o.requestedURL)
		c.errorCount++

		cause := telemetry.CauseUnknown
		if fe, ok := o.err.(*fetch.FetchError); ok {
			cause = telemetry.MapFetchErrorToCause(fe.Cause)
		}
		c.sink.RecordError(telemetry.ErrorRecord{
			PackageName: "crawler",
			Action:      "fetch",
			Cause:       cause,
			ErrorString: o.err.Error(),
			Attrs:       []telemetry.Attribute{telemetry.NewAttr(telemetry.AttrURL, o.requestedURL.String())},
		})
		return
	}

	_ = c.frontier.MarkCrawled(o.requestedURL)
	r := resource.FromFetchResult(o.requestedURL, o.result)
	c.resources = append(c.resources, r)
	c.successCount++

	status := 0
	if attempts := r.Attempts(); len(attempts) > 0 {
		status = attempts[len(attempts)-1].StatusCode
	}
	c.sink.RecordFetch(telemetry.FetchEvent{
		URL:         r.FinalURL().String(),
		HTTPStatus:  status,
		ContentType: r.ContentType(),
	})

	if r.IsHTML() && c.cfg.DiscoverEnabled() {
		c.postProcessHTML(r)
	}
}

func (c *Crawler) postProcessHTML(r *resource.Resource) {
	relative, err := r.RelativeURLs()
	if err != nil {
		return
	}

	filter := c.cfg.DiscoverFilter()
	for _, v := range relative {
		if _, ok := c.bundlePaths[v.Path]; ok {
			continue
		}
		if filter != nil && filter.Decide(v) == discovery.Ignore {
			continue
		}
		c.frontier.Discover(v)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
