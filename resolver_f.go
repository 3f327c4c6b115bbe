package registry

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// flatListingResponse is this module's JSON contract for protocol-F: the
// full set of versions for one package id, each with its dependency
// groups, returned in a single document.
type flatListingResponse struct {
	Versions []flatVersionEntry `json:"versions"`
}

type flatVersionEntry struct {
	Version          string         `json:"version"`
	DependencyGroups []depGroupJSON `json:"dependencyGroups,omitempty"`
}

// protocolFResolver is C6: a thin adapter presenting a flat-listing
// repository through the same DependencyInfo shape protocol-R produces.
type protocolFResolver struct {
	fetcher *fetcher
	source  FlatListSource
	logger  *logrus.Logger
}

// resolveAll lists every known version of id, pre-release included,
// wrapping any failure as a [ProtocolError] naming the query and source
// URL (§4.6).
func (res *protocolFResolver) resolveAll(ctx context.Context, id string, cache *sessionCache) ([]DependencyInfo, error) {
	url := res.source.FlatListingURL(id)
	res.logger.WithFields(logrus.Fields{"id": id, "url": url}).Debug("fetching flat listing")

	doc, err := res.fetcher.fetch(ctx, cache, url)
	if err != nil {
		return nil, &ProtocolError{Query: id, SourceURL: url, Err: err}
	}
	if doc == nil {
		return nil, nil
	}

	var resp flatListingResponse
	if err := json.Unmarshal(doc, &resp); err != nil {
		return nil, &ProtocolError{Query: id, SourceURL: url, Err: &BadDocumentError{URL: url, Err: err}}
	}

	out := make([]DependencyInfo, 0, len(resp.Versions))
	for _, entry := range resp.Versions {
		v, err := ParseVersion(entry.Version)
		if err != nil {
			return nil, &ProtocolError{Query: id, SourceURL: url, Err: &BadVersionError{Input: entry.Version, Err: err}}
		}
		groups, err := parseDependencyGroups(entry.DependencyGroups, true)
		if err != nil {
			return nil, &ProtocolError{Query: id, SourceURL: url, Err: &BadDocumentError{URL: url, Err: err}}
		}
		out = append(out, DependencyInfo{
			Identity: PackageIdentity{ID: id, Version: v},
			Groups:   groups,
		})
	}
	return out, nil
}

// resolveOne fetches id's full flat listing (via resolveAll) and returns the
// entry whose version equals v, or nil if the version isn't present.
func (res *protocolFResolver) resolveOne(ctx context.Context, id string, v Version, cache *sessionCache) (*DependencyInfo, error) {
	all, err := res.resolveAll(ctx, id, cache)
	if err != nil {
		return nil, err
	}
	for _, info := range all {
		if info.Identity.Version.Equal(v) {
			return &info, nil
		}
	}
	return nil, nil
}
