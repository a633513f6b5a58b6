package resource

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/rohmanhakim/ravencrawl/internal/linkrewrite"
)

// TargetPath computes the on-disk path for u relative to destRoot,
// following the emission layout: HTML documents land at
// ".../index.html" (or "<path>/index.html" for non-root paths), and
// assets land verbatim at their URL path. basePath is prepended to
// both when set.
func TargetPath(destRoot string, u url.URL, basePath string, isHTML bool) string {
	normalizedBase := linkrewrite.NormalizeBasePath(basePath)

	segments := []string{destRoot}
	if normalizedBase != "" {
		segments = append(segments, strings.TrimPrefix(normalizedBase, "/"))
	}

	urlPath := u.Path
	if isHTML {
		if urlPath == "" || urlPath == "/" {
			segments = append(segments, "index.html")
		} else {
			segments = append(segments, strings.Trim(urlPath, "/"), "index.html")
		}
	} else {
		segments = append(segments, strings.TrimPrefix(urlPath, "/"))
	}

	return filepath.Join(segments...)
}
