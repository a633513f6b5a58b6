// Package pattern is the single source of truth for every HTML
// construct that carries a URL. Both the link extractor and the link
// rewriter consult this registry instead of keeping their own regex
// sets — a second, independently maintained vocabulary is exactly the
// class of bug this package exists to rule out.
package pattern

import "regexp"

// Name identifies one registered pattern.
type Name string

const (
	Links            Name = "LINKS"
	Images           Name = "IMAGES"
	Scripts          Name = "SCRIPTS"
	Stylesheets      Name = "STYLESHEETS"
	Iframes          Name = "IFRAMES"
	MediaSrc         Name = "MEDIA_SRC"
	Source           Name = "SOURCE"
	Track            Name = "TRACK"
	Embed            Name = "EMBED"
	Object           Name = "OBJECT"
	CSSUrls          Name = "CSS_URLS"
	StyleTags        Name = "STYLE_TAGS"
	InlineStyles     Name = "INLINE_STYLES"
	MetaRefresh      Name = "META_REFRESH"
	MetaRefreshURL   Name = "META_REFRESH_URL"
)

// attrValue matches a double-quoted, single-quoted, or unquoted
// attribute value. Group 1 is the dq body, group 2 the sq body, group 3
// the unquoted body — exactly one fires per match.
const attrValue = `(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`

// Pattern is one named, immutable entry in the registry: a global,
// case-insensitive regex plus which capture groups carry the URL.
type Pattern struct {
	Name        Name
	Description string
	Regexp      *regexp.Regexp
	// URLGroups lists, in priority order, the capture-group indices that
	// may carry the URL value for a given match (dq, sq, unquoted).
	URLGroups []int
}

// Match is one occurrence of a Pattern in a document, with the URL
// substring already resolved out of whichever alternative fired plus
// its byte offsets within the searched text (for byte-preserving
// rewrite).
type Match struct {
	Pattern  Name
	URL      string
	Start    int // offset of URL within the searched text
	End      int
	FullText string // the entire matched construct
}

var registry = []Pattern{
	{Links, "<a href=X>", regexp.MustCompile(`(?is)<a\b[^>]*?\bhref\s*=\s*`+attrValue), []int{1, 2, 3}},
	{Images, "<img src=X>", regexp.MustCompile(`(?is)<img\b[^>]*?\bsrc\s*=\s*`+attrValue), []int{1, 2, 3}},
	{Scripts, "<script src=X>", regexp.MustCompile(`(?is)<script\b[^>]*?\bsrc\s*=\s*`+attrValue), []int{1, 2, 3}},
	{Stylesheets, "<link href=X>", regexp.MustCompile(`(?is)<link\b[^>]*?\bhref\s*=\s*`+attrValue), []int{1, 2, 3}},
	{Iframes, "<iframe src=X>", regexp.MustCompile(`(?is)<iframe\b[^>]*?\bsrc\s*=\s*`+attrValue), []int{1, 2, 3}},
	{MediaSrc, "<video|audio src=X>", regexp.MustCompile(`(?is)<(?:video|audio)\b[^>]*?\bsrc\s*=\s*`+attrValue), []int{1, 2, 3}},
	{Source, "<source src=X>", regexp.MustCompile(`(?is)<source\b[^>]*?\bsrc\s*=\s*`+attrValue), []int{1, 2, 3}},
	{Track, "<track src=X>", regexp.MustCompile(`(?is)<track\b[^>]*?\bsrc\s*=\s*`+attrValue), []int{1, 2, 3}},
	{Embed, "<embed src=X>", regexp.MustCompile(`(?is)<embed\b[^>]*?\bsrc\s*=\s*`+attrValue), []int{1, 2, 3}},
	{Object, "<object data=X>", regexp.MustCompile(`(?is)<object\b[^>]*?\bdata\s*=\s*`+attrValue), []int{1, 2, 3}},
	{CSSUrls, "url(X)", regexp.MustCompile(`(?is)url\(\s*`+attrValue+`\s*\)`), []int{1, 2, 3}},
	{StyleTags, "<style>body</style>", regexp.MustCompile(`(?is)<style\b[^>]*>(.*?)</style>`), []int{1}},
	{InlineStyles, `style="value"`, regexp.MustCompile(`(?is)\bstyle\s*=\s*`+attrValue), []int{1, 2, 3}},
	{MetaRefresh, `<meta http-equiv=refresh content=V>`, regexp.MustCompile(`(?is)<meta\b[^>]*\bhttp-equiv\s*=\s*(?:"refresh"|'refresh'|refresh)[^>]*\bcontent\s*=\s*`+attrValue), []int{1, 2, 3}},
	{MetaRefreshURL, `url=X inside V`, regexp.MustCompile(`(?is)url\s*=\s*(\S+)`), []int{1}},
}

// byName indexes the registry for O(1) lookup by Find.
var byName = func() map[Name]Pattern {
	m := make(map[Name]Pattern, len(registry))
	for _, p := range registry {
		m[p.Name] = p
	}
	return m
}()

// Find returns the registered pattern for name and whether it exists.
func Find(name Name) (Pattern, bool) {
	p, ok := byName[name]
	return p, ok
}

// All returns every registered pattern in stable declaration order.
func All() []Pattern {
	out := make([]Pattern, len(registry))
	copy(out, registry)
	return out
}

// FindAll scans text for every occurrence of p, returning one Match per
// hit with the URL already resolved from whichever quoting alternative
// fired.
func FindAll(p Pattern, text string) []Match {
	locs := p.Regexp.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return nil
	}

	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		for _, g := range p.URLGroups {
			start, end := loc[2*g], loc[2*g+1]
			if start == -1 {
				continue
			}
			matches = append(matches, Match{
				Pattern:  p.Name,
				URL:      text[start:end],
				Start:    start,
				End:      end,
				FullText: text[loc[0]:loc[1]],
			})
			break
		}
	}
	return matches
}
