package resource

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/rohmanhakim/ravencrawl/pkg/failure"
	"github.com/rohmanhakim/ravencrawl/pkg/fileutil"
)

// BundleResource is a pre-built JS bundle with an optional source map.
// Unlike Resource it is never run through the link rewriter: a bundle
// is built once for a fixed deployment path and is never discovered
// during a crawl.
type BundleResource struct {
	finalURL   url.URL
	body       []byte
	sourceMap  []byte
	hasSourceMap bool
}

// NewBundleResource constructs a BundleResource served at finalURL.
// sourceMap may be nil when no map is available.
func NewBundleResource(finalURL url.URL, body []byte, sourceMap []byte) *BundleResource {
	return &BundleResource{
		finalURL:     finalURL,
		body:         body,
		sourceMap:    sourceMap,
		hasSourceMap: sourceMap != nil,
	}
}

// FinalURL returns the URL the bundle is served at.
func (b *BundleResource) FinalURL() url.URL { return b.finalURL }

// IsHTML is always false for a bundle.
func (b *BundleResource) IsHTML() bool { return false }

// Save writes the bundle body at its asset path, plus a ".map" sidecar
// alongside it when a source map is present. basePath is prepended the
// same way it is for every other Resource, so a bundle lands under the
// deployment sub-path along with everything else.
func (b *BundleResource) Save(destRoot, basePath string) failure.ClassifiedError {
	target := TargetPath(destRoot, b.finalURL, basePath, false)

	if err := fileutil.EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}
	if err := os.WriteFile(target, b.body, 0644); err != nil {
		return &ResourceError{Cause: CauseWriteFailure, URL: b.finalURL.String()}
	}

	if b.hasSourceMap {
		if err := os.WriteFile(target+".map", b.sourceMap, 0644); err != nil {
			return &ResourceError{Cause: CauseWriteFailure, URL: b.finalURL.String() + ".map"}
		}
	}
	return nil
}
