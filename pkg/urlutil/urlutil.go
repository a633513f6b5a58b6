// Package urlutil implements the crawler's URL Normalizer: the single
// function that turns a string or URL into the canonical form used
// everywhere else in the system for storage and comparison.
package urlutil

import (
	"errors"
	"net/url"
	"sort"
	"strings"
)

var (
	// ErrInvalidURL is returned when input cannot be parsed even after
	// attaching a base.
	ErrInvalidURL = errors.New("urlutil: invalid url")
	// ErrMissingHost is returned when the resolved URL has no host.
	ErrMissingHost = errors.New("urlutil: missing host")
)

// nonCrawlableSchemes are URL schemes that never name a fetchable
// resource; inputs using them normalize to the sentinel instead of an
// error so callers can uniformly skip them.
var nonCrawlableSchemes = map[string]struct{}{
	"data":       {},
	"javascript": {},
	"mailto":     {},
	"tel":        {},
}

// IsNonCrawlable reports whether u is the sentinel value returned by
// Normalize for data:, javascript:, mailto:, tel:, empty, or pure-fragment
// inputs.
func IsNonCrawlable(u url.URL) bool {
	return u == url.URL{}
}

// Normalize canonicalizes input against an optional base, producing an
// absolute, comparable URL: lowercased host, default port stripped,
// collapsed duplicate path slashes, query keys sorted ascending, fragment
// cleared. Path case is preserved.
//
// Inputs that are empty/whitespace, a pure fragment, or use a
// non-crawlable scheme (data:, javascript:, mailto:, tel:) return the
// zero url.URL (see IsNonCrawlable) with no error.
func Normalize(input string, base *url.URL) (url.URL, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return url.URL{}, nil
	}

	if scheme, _, ok := strings.Cut(trimmed, ":"); ok {
		if _, nonCrawlable := nonCrawlableSchemes[strings.ToLower(scheme)]; nonCrawlable && !strings.Contains(scheme, "/") {
			return url.URL{}, nil
		}
	}

	if base == nil && looksHostLike(trimmed) {
		trimmed = "http://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return url.URL{}, ErrInvalidURL
	}

	var resolved *url.URL
	if base != nil {
		resolved = base.ResolveReference(parsed)
	} else {
		resolved = parsed
	}

	if resolved.Host == "" {
		return url.URL{}, ErrMissingHost
	}

	return canonicalize(*resolved), nil
}

// canonicalize applies the deterministic rewrite rules to an already
// absolute, resolved URL.
func canonicalize(u url.URL) url.URL {
	u.Scheme = lowerASCII(u.Scheme)
	u.Host = lowerASCII(u.Host)

	if host, port := u.Hostname(), u.Port(); port != "" {
		if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
			u.Host = host
		}
	}

	u.Path = collapseSlashes(u.Path)
	u.RawQuery = sortQuery(u.RawQuery)
	u.Fragment = ""
	u.RawFragment = ""

	return u
}

func looksHostLike(s string) bool {
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, ".") {
		return false
	}
	if idx := strings.Index(s, "://"); idx >= 0 && idx < strings.Index(s+"/", "/") {
		return false
	}
	return strings.Contains(s, ".")
}

// lowerASCII converts ASCII characters to lowercase without allocating
// when no uppercase characters are present.
func lowerASCII(s string) string {
	needsLower := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// collapseSlashes replaces runs of '/' in path with a single '/',
// preserving a trailing slash.
func collapseSlashes(path string) string {
	if path == "" {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// sortQuery re-serializes a raw query string with keys sorted ascending.
// Keys compare equal are kept in their original relative order.
func sortQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil || len(values) == 0 {
		return rawQuery
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		for j, v := range values[k] {
			if i > 0 || j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
