// Package emit drives writing a finished crawl's resources to disk: it
// walks the crawl's Resources and BundleResources, delegates the
// per-file layout and rewriting work to internal/resource, and reports
// each write to telemetry.
package emit

import (
	"github.com/rohmanhakim/ravencrawl/internal/resource"
	"github.com/rohmanhakim/ravencrawl/internal/telemetry"
	"github.com/rohmanhakim/ravencrawl/pkg/failure"
)

// Emit writes every resource in resources and bundle in bundles under
// destRoot, rewriting same-origin links in HTML documents when
// basePath is set. It stops at the first write failure and returns it;
// bundles and resources are otherwise independent (two resources never
// collide on a path, since the Frontier only ever holds one entry per
// canonical URL).
func Emit(resources []*resource.Resource, bundles []*resource.BundleResource, destRoot, basePath string, sink telemetry.Sink) failure.ClassifiedError {
	for _, r := range resources {
		if err := r.Save(destRoot, basePath); err != nil {
			return err
		}
		kind := telemetry.ArtifactPage
		if r.IsAsset() {
			kind = telemetry.ArtifactAsset
		}
		sink.RecordArtifact(telemetry.ArtifactRecord{
			URL:  r.FinalURL().String(),
			Kind: kind,
		})
	}

	for _, b := range bundles {
		if err := b.Save(destRoot, basePath); err != nil {
			return err
		}
		sink.RecordArtifact(telemetry.ArtifactRecord{
			URL:  b.FinalURL().String(),
			Kind: telemetry.ArtifactBundle,
		})
	}

	return nil
}
