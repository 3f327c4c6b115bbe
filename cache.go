package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// document is a parsed-but-untyped JSON body, kept around as raw bytes
// until a component needs its specific shape (registration index,
// registration page, or catalog entry).
type document = json.RawMessage

// sessionCache is a mutable URL -> parsed-document mapping local to one
// top-level resolver call (§3 "Session cache"). It is safe for concurrent
// get/put, and its singleflight group coalesces concurrent fetches of the
// same URL into a single in-flight HTTP request so that I5 ("exactly one
// HTTP request is issued") holds even when a page is needed by two
// concurrently-dispatched fetches in the same call, not merely "allowed"
// by a redundant-parse race.
//
// No sessionCache outlives the call that created it; see [newSessionCache].
type sessionCache struct {
	mu   sync.RWMutex
	docs map[string]document
	sf   singleflight.Group
}

func newSessionCache() *sessionCache {
	return &sessionCache{docs: make(map[string]document)}
}

func (c *sessionCache) get(url string) (document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.docs[url]
	return d, ok
}

func (c *sessionCache) store(url string, d document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[url] = d
}

// fetcher issues HTTP GETs on behalf of a resolver call, honouring the
// session cache (C2). A nil, nil return means the URL resolved to absence
// (404): the caller decides whether that is expected (index-level lookup)
// or a protocol violation (a page a registration index pointed to).
type fetcher struct {
	http   *http.Client
	logger *logrus.Logger
}

func newFetcher(client *http.Client, logger *logrus.Logger) *fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &fetcher{http: client, logger: logger}
}

func (f *fetcher) fetch(ctx context.Context, cache *sessionCache, url string) (document, error) {
	if d, ok := cache.get(url); ok {
		f.logger.WithField("url", url).Debug("session cache hit")
		return d, nil
	}

	v, err, shared := cache.sf.Do(url, func() (any, error) {
		if d, ok := cache.get(url); ok {
			return d, nil
		}
		doc, err := f.doFetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			cache.store(url, doc)
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	f.logger.WithFields(logrus.Fields{"url": url, "coalesced": shared}).Debug("fetched document")
	if v == nil {
		return nil, nil
	}
	return v.(document), nil
}

func (f *fetcher) doFetch(ctx context.Context, url string) (document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &CancelledError{Err: ctxErr}
		}
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode/100 != 2 {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("reading response: %w", err)}
	}
	if !json.Valid(data) {
		return nil, &BadDocumentError{URL: url, Err: errors.New("response body is not valid JSON")}
	}
	return document(data), nil
}
