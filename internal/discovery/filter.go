// Package discovery implements the optional DiscoveryFilter a Config
// may supply to narrow which relative URLs a Crawler adds to its
// Frontier beyond plain same-origin membership.
package discovery

import (
	"net/url"

	"github.com/gobwas/glob"
)

// Outcome is the verdict a Filter returns for a candidate URL.
type Outcome int

const (
	// Crawl means the URL should be discovered.
	Crawl Outcome = iota
	// Ignore means the URL should be skipped.
	Ignore
)

// Filter narrows discovery beyond same-origin membership: a set of
// glob patterns (matched against the URL path) to exclude, plus an
// optional maximum path-segment depth.
type Filter struct {
	excludes []glob.Glob
	maxDepth int // 0 means unbounded
}

// New compiles excludePatterns (shell-style globs matched against the
// URL path, e.g. "/admin/**") and returns a Filter rejecting URLs
// whose path depth exceeds maxDepth (0 for unbounded). It returns an
// error if any pattern fails to compile.
func New(excludePatterns []string, maxDepth int) (*Filter, error) {
	compiled := make([]glob.Glob, 0, len(excludePatterns))
	for _, p := range excludePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return &Filter{excludes: compiled, maxDepth: maxDepth}, nil
}

// Decide reports whether u should be crawled.
func (f *Filter) Decide(u url.URL) Outcome {
	if f == nil {
		return Crawl
	}

	for _, g := range f.excludes {
		if g.Match(u.Path) {
			return Ignore
		}
	}

	if f.maxDepth > 0 && depth(u.Path) > f.maxDepth {
		return Ignore
	}

	return Crawl
}

func depth(path string) int {
	count := 0
	start := -1
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if start >= 0 {
				count++
			}
			start = i + 1
		}
	}
	if start >= 0 && start < len(path) {
		count++
	}
	return count
}
