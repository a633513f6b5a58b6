// Package config builds the Config boundary a Crawler runs against:
// how to reach the origin, which routes to seed, whether to discover
// further links, which paths are pre-built bundles, and the output
// sub-path. It follows the teacher's two-path loading design: a JSON
// file for the static, serializable fields, and a fluent With* builder
// for everything else (handlers, resolver functions, route functions).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rohmanhakim/ravencrawl/internal/discovery"
)

// RoutesFunc lazily produces the seed route list, for callers whose
// routes aren't known until runtime.
type RoutesFunc func() []string

type Config struct {
	server ServerSource

	routes     []string
	routesFunc RoutesFunc

	discoverEnabled bool
	discoverFilter  *discovery.Filter

	bundles map[string]BundleSpec

	basePath string

	maxResources   int
	concurrency    int
	requestTimeout time.Duration
	serverTimeout  time.Duration
	userAgent      string
}

type configDTO struct {
	OriginURL      string   `json:"originUrl,omitempty"`
	ProcessArgv    []string `json:"processArgv,omitempty"`
	Routes         []string `json:"routes,omitempty"`
	Discover       bool     `json:"discover,omitempty"`
	DiscoverIgnore []string `json:"discoverIgnore,omitempty"`
	DiscoverMaxDepth int    `json:"discoverMaxDepth,omitempty"`
	BasePath       string   `json:"basePath,omitempty"`
	MaxResources   int      `json:"maxResources,omitempty"`
	Concurrency    int      `json:"concurrency,omitempty"`
	RequestTimeoutMS int64  `json:"requestTimeoutMs,omitempty"`
	ServerTimeoutMS  int64  `json:"serverTimeoutMs,omitempty"`
	UserAgent      string   `json:"userAgent,omitempty"`
	Bundles        map[string]bundleFileDTO `json:"bundles,omitempty"`
}

type bundleFileDTO struct {
	URLPath       string `json:"urlPath"`
	BodyFile      string `json:"bodyFile"`
	SourceMapFile string `json:"sourceMapFile,omitempty"`
}

// WithDefault creates a new Config seeded with routes and default
// values for every other field. routes is mandatory; Build rejects an
// empty set.
func WithDefault(routes []string) *Config {
	return &Config{
		routes:         routes,
		bundles:        map[string]BundleSpec{},
		maxResources:   1000,
		concurrency:    8,
		requestTimeout: 10 * time.Second,
		serverTimeout:  30 * time.Second,
		userAgent:      "ravencrawl/1.0",
	}
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault(dto.Routes)

	switch {
	case len(dto.ProcessArgv) > 0:
		cfg.WithProcess(dto.ProcessArgv, dto.OriginURL)
	case dto.OriginURL != "":
		cfg.WithOrigin(dto.OriginURL)
	}

	if dto.Discover {
		filter, err := discovery.New(dto.DiscoverIgnore, dto.DiscoverMaxDepth)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
		}
		cfg.WithDiscover(filter)
	}

	if dto.BasePath != "" {
		cfg.WithBasePath(dto.BasePath)
	}
	if dto.MaxResources != 0 {
		cfg.WithMaxResources(dto.MaxResources)
	}
	if dto.Concurrency != 0 {
		cfg.WithConcurrency(dto.Concurrency)
	}
	if dto.RequestTimeoutMS != 0 {
		cfg.WithRequestTimeout(time.Duration(dto.RequestTimeoutMS) * time.Millisecond)
	}
	if dto.ServerTimeoutMS != 0 {
		cfg.WithServerTimeout(time.Duration(dto.ServerTimeoutMS) * time.Millisecond)
	}
	if dto.UserAgent != "" {
		cfg.WithUserAgent(dto.UserAgent)
	}

	for path, b := range dto.Bundles {
		cfg.bundles[path] = BundleSpec{URLPath: b.URLPath, BodyFile: b.BodyFile, SourceMapFile: b.SourceMapFile}
	}

	return cfg.Build()
}

// WithConfigFile loads a Config from a JSON file. The server, routes
// function and discover filter fields it can't express in JSON
// (handlers, resolver funcs) are layered on afterward via the With*
// builder.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	var dto configDTO
	if err := json.Unmarshal(content, &dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(dto)
}

func (c *Config) WithServer(s ServerSource) *Config {
	c.server = s
	return c
}

func (c *Config) WithOrigin(url string) *Config {
	c.server = ProcessServer{OriginURL: url}
	return c
}

func (c *Config) WithProcess(argv []string, originURL string) *Config {
	c.server = ProcessServer{Argv: argv, OriginURL: originURL}
	return c
}

func (c *Config) WithHandler(h HandlerServer) *Config {
	c.server = h
	return c
}

func (c *Config) WithResolver(r ResolverServer) *Config {
	c.server = r
	return c
}

func (c *Config) WithRoutes(routes []string) *Config {
	c.routes = routes
	c.routesFunc = nil
	return c
}

func (c *Config) WithRoutesFunc(fn RoutesFunc) *Config {
	c.routesFunc = fn
	return c
}

func (c *Config) WithDiscover(filter *discovery.Filter) *Config {
	c.discoverEnabled = true
	c.discoverFilter = filter
	return c
}

func (c *Config) WithDiscoverDisabled() *Config {
	c.discoverEnabled = false
	c.discoverFilter = nil
	return c
}

func (c *Config) WithBundle(urlPath string, spec BundleSpec) *Config {
	if c.bundles == nil {
		c.bundles = map[string]BundleSpec{}
	}
	spec.URLPath = urlPath
	c.bundles[urlPath] = spec
	return c
}

func (c *Config) WithBasePath(basePath string) *Config {
	c.basePath = basePath
	return c
}

func (c *Config) WithMaxResources(n int) *Config {
	c.maxResources = n
	return c
}

func (c *Config) WithConcurrency(n int) *Config {
	c.concurrency = n
	return c
}

func (c *Config) WithRequestTimeout(d time.Duration) *Config {
	c.requestTimeout = d
	return c
}

func (c *Config) WithServerTimeout(d time.Duration) *Config {
	c.serverTimeout = d
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) Build() (Config, error) {
	if len(c.routes) == 0 && c.routesFunc == nil {
		return Config{}, fmt.Errorf("%w: routes cannot be empty", ErrInvalidConfig)
	}
	if c.server == nil {
		return Config{}, fmt.Errorf("%w: server is required", ErrInvalidConfig)
	}
	if c.bundles == nil {
		c.bundles = map[string]BundleSpec{}
	}
	return *c, nil
}

func (c Config) Server() ServerSource {
	return c.server
}

func (c Config) Routes() []string {
	if c.routesFunc != nil {
		return c.routesFunc()
	}
	routes := make([]string, len(c.routes))
	copy(routes, c.routes)
	return routes
}

func (c Config) DiscoverEnabled() bool {
	return c.discoverEnabled
}

func (c Config) DiscoverFilter() *discovery.Filter {
	return c.discoverFilter
}

func (c Config) Bundles() map[string]BundleSpec {
	bundles := make(map[string]BundleSpec, len(c.bundles))
	for k, v := range c.bundles {
		bundles[k] = v
	}
	return bundles
}

func (c Config) BasePath() string {
	return c.basePath
}

func (c Config) MaxResources() int {
	return c.maxResources
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) RequestTimeout() time.Duration {
	return c.requestTimeout
}

func (c Config) ServerTimeout() time.Duration {
	return c.serverTimeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}
