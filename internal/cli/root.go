// Package cli is the thin command-line boundary that builds a
// config.Config from flags or a config file and drives a Crawler
// end to end: start, crawl, emit, stop.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rohmanhakim/ravencrawl/internal/config"
	"github.com/rohmanhakim/ravencrawl/internal/crawler"
	"github.com/rohmanhakim/ravencrawl/internal/discovery"
	"github.com/rohmanhakim/ravencrawl/internal/emit"
	"github.com/rohmanhakim/ravencrawl/internal/telemetry"
	"github.com/spf13/cobra"
)

var (
	cfgFile          string
	originURL        string
	processArgv      []string
	routes           []string
	outputDir        string
	basePath         string
	discover         bool
	discoverIgnore   []string
	discoverMaxDepth int
	maxResources     int
	concurrency      int
	userAgent        string
	requestTimeout   time.Duration
	serverTimeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "ravencrawl",
	Short: "A same-origin crawling static-site generator.",
	Long: `ravencrawl crawls a base origin (an HTTP server, a launched
subprocess, or a direct resolver) starting from a seed list, rewrites
internal links for a deployment sub-path, and emits the result as a
browseable directory tree on disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(routes) == 0 {
			return fmt.Errorf("--route is required: provide at least one seed path")
		}

		cfg, err := InitConfigWithError(routes)
		if err != nil {
			return err
		}

		sink := telemetry.NewRecorder()
		c := crawler.New(cfg, sink)

		ctx := context.Background()
		if err := c.Start(ctx); err != nil {
			return err
		}
		defer c.Stop()

		if err := c.Crawl(ctx); err != nil {
			return err
		}

		if err := emit.Emit(c.Resources(), c.Bundles(), outputDir, cfg.BasePath(), sink); err != nil {
			return err
		}

		stats := c.Stats()
		fmt.Printf("crawled %d, failed %d, pending %d\n", stats.Crawled, stats.Failed, stats.Pending)
		return nil
	},
}

// Execute runs the root command. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&originURL, "origin", "", "base origin URL to crawl")
	rootCmd.PersistentFlags().StringArrayVar(&processArgv, "process", nil, "subprocess argv that serves --origin (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&routes, "route", nil, "one or more seed paths (can be repeated)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "output", "root output directory for the crawled site")
	rootCmd.PersistentFlags().StringVar(&basePath, "base-path", "", "deployment sub-path prefix, e.g. /docs")
	rootCmd.PersistentFlags().BoolVar(&discover, "discover", true, "follow same-origin links found in crawled HTML")
	rootCmd.PersistentFlags().StringArrayVar(&discoverIgnore, "discover-ignore", nil, "glob pattern to exclude from discovery (repeatable)")
	rootCmd.PersistentFlags().IntVar(&discoverMaxDepth, "discover-max-depth", 0, "maximum path-segment depth to discover (0 for unbounded)")
	rootCmd.PersistentFlags().IntVar(&maxResources, "max-resources", 0, "maximum resources to fetch (0 uses the default)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "number of concurrent fetch workers (0 uses the default)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "request-timeout", 0, "per-attempt HTTP request timeout")
	rootCmd.PersistentFlags().DurationVar(&serverTimeout, "server-timeout", 0, "bound on waiting for a subprocess origin to become ready")
}

// InitConfig reads a config file or flags, exiting the process on
// error. seedRoutes is mandatory.
func InitConfig(seedRoutes []string) config.Config {
	cfg, err := InitConfigWithError(seedRoutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError is InitConfig without the exit-on-error
// behavior, to make it possible to test failure cases.
func InitConfigWithError(seedRoutes []string) (config.Config, error) {
	if len(seedRoutes) == 0 {
		return config.Config{}, fmt.Errorf("%w: routes cannot be empty", config.ErrInvalidConfig)
	}

	if cfgFile != "" {
		return config.WithConfigFile(cfgFile)
	}

	builder := config.WithDefault(seedRoutes)

	switch {
	case len(processArgv) > 0:
		builder = builder.WithProcess(processArgv, originURL)
	case originURL != "":
		builder = builder.WithOrigin(originURL)
	}

	if discover {
		filter, err := discovery.New(discoverIgnore, discoverMaxDepth)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: %s", config.ErrInvalidConfig, err.Error())
		}
		builder = builder.WithDiscover(filter)
	} else {
		builder = builder.WithDiscoverDisabled()
	}

	if basePath != "" {
		builder = builder.WithBasePath(basePath)
	}
	if maxResources > 0 {
		builder = builder.WithMaxResources(maxResources)
	}
	if concurrency > 0 {
		builder = builder.WithConcurrency(concurrency)
	}
	if userAgent != "" {
		builder = builder.WithUserAgent(userAgent)
	}
	if requestTimeout > 0 {
		builder = builder.WithRequestTimeout(requestTimeout)
	}
	if serverTimeout > 0 {
		builder = builder.WithServerTimeout(serverTimeout)
	}

	return builder.Build()
}

// SetOriginForTest and its siblings let tests drive InitConfigWithError
// without going through cobra flag parsing.
func SetOriginForTest(v string)            { originURL = v }
func SetProcessForTest(v []string)         { processArgv = v }
func SetRoutesForTest(v []string)          { routes = v }
func SetOutputDirForTest(v string)         { outputDir = v }
func SetBasePathForTest(v string)          { basePath = v }
func SetConfigFileForTest(v string)        { cfgFile = v }
func SetDiscoverForTest(v bool)            { discover = v }
func SetDiscoverIgnoreForTest(v []string)  { discoverIgnore = v }
func SetDiscoverMaxDepthForTest(v int)     { discoverMaxDepth = v }
func SetMaxResourcesForTest(v int)         { maxResources = v }
func SetConcurrencyForTest(v int)          { concurrency = v }
func SetUserAgentForTest(v string)         { userAgent = v }
func SetRequestTimeoutForTest(v time.Duration) { requestTimeout = v }
func SetServerTimeoutForTest(v time.Duration)  { serverTimeout = v }

// ResetFlags resets every package-level flag variable to its zero/default
// state, for test isolation between InitConfigWithError calls.
func ResetFlags() {
	cfgFile = ""
	originURL = ""
	processArgv = nil
	routes = nil
	outputDir = "output"
	basePath = ""
	discover = true
	discoverIgnore = nil
	discoverMaxDepth = 0
	maxResources = 0
	concurrency = 0
	userAgent = ""
	requestTimeout = 0
	serverTimeout = 0
}
