package registry

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// FileSource serves registration-index and flat-listing documents from a
// local directory laid out as a mirrored registry, for offline use and
// tests. It advertises both [RegistrationSource] and [FlatListSource];
// [New] picks protocol-R whenever the source satisfies it, so a FileSource
// used with New always resolves via the registration path unless the
// caller wraps it to hide that capability.
//
// Rather than a parallel implementation that reads files itself,
// FileSource only computes file:// URLs and leaves fetching to the
// regular [fetcher] pipeline via the *http.Client returned by
// [FileSource.HTTPClient] — so the session cache, singleflight
// coalescing, and 404-as-absent handling all apply uniformly whether a
// resolve call hits HTTP or disk.
type FileSource struct {
	root string
}

// NewFileSource creates a FileSource rooted at the given local directory.
//
// The directory must follow this layout:
//
//	registrations/<lower-cased id>/index.json
//	flat/<lower-cased id>/index.json
func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

// RegistrationURL returns the file:// URL for id's registration index.
func (f *FileSource) RegistrationURL(id string) string {
	return f.fileURL("registrations", id)
}

// FlatListingURL returns the file:// URL for id's flat listing document.
func (f *FileSource) FlatListingURL(id string) string {
	return f.fileURL("flat", id)
}

func (f *FileSource) fileURL(kind, id string) string {
	p := filepath.Join(f.root, kind, strings.ToLower(id), "index.json")
	return "file://" + filepath.ToSlash(absPath(p))
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// HTTPClient returns an *http.Client able to dereference the file://
// URLs this source produces, for use as the client argument to [New].
// Missing files resolve as a 404 response, matching this module's
// index-level absence contract without any special-casing in the fetcher.
func (f *FileSource) HTTPClient() *http.Client {
	return &http.Client{Transport: newFileRoundTripper()}
}

// fileRoundTripper dereferences file:// URLs via http.NewFileTransport,
// which already serves a 404 response for a missing path. transport is set
// once at construction, not lazily inside RoundTrip: RoundTrip must be safe
// for concurrent use (the page fan-out in resolver_r.go dispatches one
// goroutine per page through the same *http.Client), and a lazy
// check-then-assign would race.
type fileRoundTripper struct {
	transport http.RoundTripper
}

func newFileRoundTripper() *fileRoundTripper {
	return &fileRoundTripper{transport: http.NewFileTransport(http.Dir("/"))}
}

func (t *fileRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// http.NewFileTransport expects req.URL.Path relative to its root;
	// our URLs already carry an absolute path, and the root above is "/".
	clone := req.Clone(req.Context())
	clone.URL = &url.URL{Scheme: "file", Path: clone.URL.Path}
	return t.transport.RoundTrip(clone)
}
