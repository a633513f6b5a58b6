// Package resource implements the crawler's Resource and
// BundleResource: an immutable fetched document plus the lazily
// computed, memoized views over it (decoded text, extracted URLs) and
// the logic for writing it to disk.
package resource

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/rohmanhakim/ravencrawl/internal/fetch"
	"github.com/rohmanhakim/ravencrawl/internal/linkextract"
	"github.com/rohmanhakim/ravencrawl/internal/linkrewrite"
	"github.com/rohmanhakim/ravencrawl/pkg/failure"
	"github.com/rohmanhakim/ravencrawl/pkg/fileutil"
	"github.com/rohmanhakim/ravencrawl/pkg/hashutil"
)

// Resource is a single fetched document: its final (post-redirect)
// URL, the URL it was originally requested at, its content type and
// body, and the chronological chain of attempts that produced it.
type Resource struct {
	finalURL    url.URL
	baseURL     url.URL
	contentType string
	body        []byte
	attempts    []fetch.Attempt

	mu            sync.Mutex
	text          *string
	extractedURLs []url.URL
	extracted     bool
}

// New constructs a Resource directly from its fields. finalURL is the
// URL the document actually resolved to after any redirects; baseURL
// is the URL it was requested at (identical to finalURL when there
// were no redirects).
func New(finalURL, baseURL url.URL, contentType string, body []byte, attempts []fetch.Attempt) *Resource {
	return &Resource{
		finalURL:    finalURL,
		baseURL:     baseURL,
		contentType: contentType,
		body:        body,
		attempts:    attempts,
	}
}

// FromFetchResult wraps a fetch.Result as a Resource, with baseURL set
// to the URL originally requested.
func FromFetchResult(requestedURL url.URL, result fetch.Result) *Resource {
	return New(result.FinalURL, requestedURL, result.ContentType, result.Body, result.Attempts)
}

// FinalURL returns the URL the document resolved to.
func (r *Resource) FinalURL() url.URL { return r.finalURL }

// BaseURL returns the URL the document was originally requested at.
func (r *Resource) BaseURL() url.URL { return r.baseURL }

// ContentType returns the response's declared content type.
func (r *Resource) ContentType() string { return r.contentType }

// Body returns the raw response bytes.
func (r *Resource) Body() []byte { return r.body }

// Attempts returns the chronological attempt chain.
func (r *Resource) Attempts() []fetch.Attempt { return r.attempts }

// IsHTML reports whether the content type indicates an HTML document.
func (r *Resource) IsHTML() bool {
	return strings.Contains(strings.ToLower(r.contentType), "text/html")
}

// IsAsset reports whether the resource is not HTML.
func (r *Resource) IsAsset() bool {
	return !r.IsHTML()
}

// ContentHash returns a content-addressed hash of the body, purely for
// observability (deduplication reporting, change detection in
// telemetry) — it never determines where the resource is written.
func (r *Resource) ContentHash() string {
	hash, err := hashutil.HashBytes(r.body, hashutil.HashAlgoBLAKE3)
	if err != nil {
		return ""
	}
	return hash
}

// Text decodes the body as UTF-8, memoizing the result. It fails with
// CauseNotHTML if the resource is not HTML.
func (r *Resource) Text() (string, error) {
	if !r.IsHTML() {
		return "", &ResourceError{Cause: CauseNotHTML, URL: r.finalURL.String()}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.text == nil {
		decoded := string(r.body)
		r.text = &decoded
	}
	return *r.text, nil
}

// ExtractURLs returns every URL referenced by the document, resolved
// against its final URL, memoizing the result. It fails with
// CauseNotHTML if the resource is not HTML.
func (r *Resource) ExtractURLs() ([]url.URL, error) {
	text, err := r.Text()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.extracted {
		base := r.finalURL
		r.extractedURLs = linkextract.Extract(text, &base)
		r.extracted = true
	}
	return r.extractedURLs, nil
}

// RelativeURLs returns the subset of ExtractURLs sharing the
// resource's origin (scheme and host).
func (r *Resource) RelativeURLs() ([]url.URL, error) {
	all, err := r.ExtractURLs()
	if err != nil {
		return nil, err
	}
	var out []url.URL
	for _, u := range all {
		if r.sameOrigin(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// ExternalURLs returns the subset of ExtractURLs with a different
// origin than the resource's own.
func (r *Resource) ExternalURLs() ([]url.URL, error) {
	all, err := r.ExtractURLs()
	if err != nil {
		return nil, err
	}
	var out []url.URL
	for _, u := range all {
		if !r.sameOrigin(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *Resource) sameOrigin(u url.URL) bool {
	return strings.EqualFold(u.Scheme, r.finalURL.Scheme) && strings.EqualFold(u.Host, r.finalURL.Host)
}

// Save writes the resource under destRoot following the on-disk
// layout, rewriting same-origin links to account for basePath when
// the document is HTML and basePath is non-empty.
func (r *Resource) Save(destRoot string, basePath string) failure.ClassifiedError {
	target := TargetPath(destRoot, r.finalURL, basePath, r.IsHTML())

	if err := fileutil.EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}

	body := r.body
	if r.IsHTML() {
		text, err := r.Text()
		if err != nil {
			return err.(failure.ClassifiedError)
		}
		body = []byte(linkrewrite.Rewrite(text, &r.finalURL, basePath))
	}

	if err := os.WriteFile(target, body, 0644); err != nil {
		cause := CauseWriteFailure
		retryable := false
		if errors.Is(err, syscall.ENOSPC) {
			cause = CauseDiskFull
			retryable = true
		}
		return &ResourceError{Cause: cause, URL: r.finalURL.String(), Retryable: retryable}
	}
	return nil
}
