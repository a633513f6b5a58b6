package config

// BundleSpec describes a pre-built asset the crawler should emit
// without ever fetching it from the origin: bundler output such as a
// compiled JS/CSS file and its optional source map.
type BundleSpec struct {
	// URLPath is the same-origin path this bundle occupies, e.g.
	// "/static/app.js". It participates in Frontier.Known the same
	// way a discovered URL would, so the crawler never re-fetches it.
	URLPath string
	// BodyFile is a filesystem path read once at Start time.
	BodyFile string
	// SourceMapFile is optional; empty means no .map sidecar is
	// written.
	SourceMapFile string
}
