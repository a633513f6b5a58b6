// Package linkrewrite implements the crawler's Link Rewriter: prefixing
// same-origin URLs in an emitted HTML document with a deployment
// base path, while leaving every other byte of the document untouched.
//
// It consults the same Pattern Registry the link extractor uses so the
// two never drift into recognizing different constructs.
package linkrewrite

import (
	"net/url"
	"strings"

	"github.com/rohmanhakim/ravencrawl/internal/pattern"
)

// directPatterns are registry entries whose matched value is itself a
// rewritable URL.
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

// Rewrite prepends basePath to every same-origin URL referenced by doc,
// leaving external links, non-crawlable schemes, and pure fragments
// untouched. It is a no-op returning doc unchanged when basePath is
// empty or "/".
func Rewrite(doc string, current *url.URL, basePath string) string {
	normalizedBase := NormalizeBasePath(basePath)
	if normalizedBase == "" {
		return doc
	}

	for _, name := range directPatterns {
		p, _ := pattern.Find(name)
		doc = rewritePattern(doc, p, current, normalizedBase)
	}

	metaPattern, _ := pattern.Find(pattern.MetaRefresh)
	doc = rewriteMetaRefresh(doc, metaPattern, current, normalizedBase)

	return doc
}

// NormalizeBasePath ensures the path starts with "/" and has no
// trailing "/"; "" and "/" both normalize to "" (absent).
func NormalizeBasePath(basePath string) string {
	trimmed := strings.TrimSpace(basePath)
	if trimmed == "" || trimmed == "/" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimSuffix(trimmed, "/")
}

// rewritePattern replaces every URL matched by p with its base-path
// prefixed form, leaving the rest of each match byte-identical.
func rewritePattern(doc string, p pattern.Pattern, current *url.URL, basePath string) string {
	return p.Regexp.ReplaceAllStringFunc(doc, func(match string) string {
		loc := p.Regexp.FindStringSubmatchIndex(match)
		if loc == nil {
			return match
		}
		for _, g := range p.URLGroups {
			start, end := loc[2*g], loc[2*g+1]
			if start == -1 {
				continue
			}
			raw := match[start:end]
			rewritten, changed := rewriteURL(raw, current, basePath)
			if !changed {
				return match
			}
			return match[:start] + rewritten + match[end:]
		}
		return match
	})
}

// rewriteMetaRefresh rewrites only the URL embedded in a
// `<meta http-equiv="refresh" content="N;url=X">` tag, preserving the
// "N;url=" prefix verbatim.
func rewriteMetaRefresh(doc string, metaPattern pattern.Pattern, current *url.URL, basePath string) string {
	urlPattern, _ := pattern.Find(pattern.MetaRefreshURL)

	return metaPattern.Regexp.ReplaceAllStringFunc(doc, func(match string) string {
		loc := metaPattern.Regexp.FindStringSubmatchIndex(match)
		if loc == nil {
			return match
		}
		for _, g := range metaPattern.URLGroups {
			start, end := loc[2*g], loc[2*g+1]
			if start == -1 {
				continue
			}
			content := match[start:end]
			rewrittenContent := rewriteContentURL(content, urlPattern, current, basePath)
			if rewrittenContent == content {
				return match
			}
			return match[:start] + rewrittenContent + match[end:]
		}
		return match
	})
}

func rewriteContentURL(content string, urlPattern pattern.Pattern, current *url.URL, basePath string) string {
	return urlPattern.Regexp.ReplaceAllStringFunc(content, func(match string) string {
		loc := urlPattern.Regexp.FindStringSubmatchIndex(match)
		if loc == nil {
			return match
		}
		start, end := loc[2], loc[3]
		if start == -1 {
			return match
		}
		raw := match[start:end]
		rewritten, changed := rewriteURL(raw, current, basePath)
		if !changed {
			return match
		}
		return match[:start] + rewritten + match[end:]
	})
}

// rewriteURL decides whether raw should be rewritten (same origin, not
// a special scheme, not a pure fragment) and if so returns the new
// string with basePath prepended to its path. Query and fragment are
// preserved verbatim, unlike extraction's canonicalization.
func rewriteURL(raw string, current *url.URL, basePath string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return raw, false
	}
	if scheme, _, ok := strings.Cut(trimmed, ":"); ok && !strings.Contains(scheme, "/") {
		switch strings.ToLower(scheme) {
		case "data", "javascript", "mailto", "tel":
			return raw, false
		}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return raw, false
	}

	resolved := current.ResolveReference(parsed)
	if !strings.EqualFold(resolved.Host, current.Host) || !strings.EqualFold(resolved.Scheme, current.Scheme) {
		return raw, false
	}

	path := parsed.Path
	if !strings.HasPrefix(path, "/") {
		path = resolved.Path
	}
	if strings.HasPrefix(path, basePath+"/") || path == basePath {
		return raw, false
	}

	var b strings.Builder
	b.WriteString(basePath)
	b.WriteString(path)
	if parsed.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(parsed.RawQuery)
	}
	if parsed.Fragment != "" || parsed.RawFragment != "" {
		b.WriteByte('#')
		b.WriteString(parsed.EscapedFragment())
	}
	return b.String(), true
}
