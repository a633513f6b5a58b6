// Package linkextract implements the crawler's Link Extractor: pulling
// every candidate URL out of an HTML document via the shared Pattern
// Registry, normalizing each one, and deduplicating by canonical form.
package linkextract

import (
	"net/url"

	"github.com/rohmanhakim/ravencrawl/internal/pattern"
	"github.com/rohmanhakim/ravencrawl/pkg/urlutil"
	"golang.org/x/net/html"
)

// directPatterns are the registry entries whose matched value is
// itself a URL, independent of any chaining.
var directPatterns = []pattern.Name{
	pattern.Links,
	pattern.Images,
	pattern.Scripts,
	pattern.Stylesheets,
	pattern.Iframes,
	pattern.MediaSrc,
	pattern.Source,
	pattern.Track,
	pattern.Embed,
	pattern.Object,
	pattern.CSSUrls,
}

// Extract returns every same- or cross-origin URL referenced by doc,
// resolved against base and canonicalized. Every returned URL is
// absolute; malformed or non-crawlable references (data:, javascript:,
// fragments, unparsable markup) are silently discarded rather than
// surfaced, per the registry's edge policy.
func Extract(doc string, base *url.URL) []url.URL {
	seen := make(map[string]struct{})
	var out []url.URL

	add := func(raw string) {
		decoded := html.UnescapeString(raw)
		normalized, err := urlutil.Normalize(decoded, base)
		if err != nil || urlutil.IsNonCrawlable(normalized) {
			return
		}
		key := normalized.String()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}

	for _, name := range directPatterns {
		p, _ := pattern.Find(name)
		for _, m := range pattern.FindAll(p, doc) {
			add(m.URL)
		}
	}

	extractCSS := func(cssText string) {
		urlPattern, _ := pattern.Find(pattern.CSSUrls)
		for _, m := range pattern.FindAll(urlPattern, cssText) {
			add(m.URL)
		}
	}

	stylePattern, _ := pattern.Find(pattern.StyleTags)
	for _, m := range pattern.FindAll(stylePattern, doc) {
		extractCSS(m.URL)
	}

	inlinePattern, _ := pattern.Find(pattern.InlineStyles)
	for _, m := range pattern.FindAll(inlinePattern, doc) {
		extractCSS(m.URL)
	}

	metaPattern, _ := pattern.Find(pattern.MetaRefresh)
	metaURLPattern, _ := pattern.Find(pattern.MetaRefreshURL)
	for _, m := range pattern.FindAll(metaPattern, doc) {
		for _, u := range pattern.FindAll(metaURLPattern, m.URL) {
			add(u.URL)
		}
	}

	return out
}
