package registry

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// protocolRResolver is C5: it orchestrates C2-C4 to answer one
// registration-index query.
type protocolRResolver struct {
	fetcher     *fetcher
	source      RegistrationSource
	logger      *logrus.Logger
	concurrency int
}

// resolve implements §4.5. A present index with no matching entries
// returns an empty, non-nil slice; an absent index (404) returns (nil,
// nil) (I4). Any other failure aborts the call and returns no partial
// results (§4.5 "Failure semantics").
func (res *protocolRResolver) resolve(ctx context.Context, id string, r VersionRange, cache *sessionCache) ([]DependencyInfo, error) {
	indexURL := res.source.RegistrationURL(id)
	res.logger.WithFields(logrus.Fields{"id": id, "url": indexURL}).Debug("fetching registration index")

	indexDoc, err := res.fetcher.fetch(ctx, cache, indexURL)
	if err != nil {
		return nil, err
	}
	if indexDoc == nil {
		return nil, nil
	}

	var idx registrationIndex
	if err := json.Unmarshal(indexDoc, &idx); err != nil {
		return nil, &BadDocumentError{URL: indexURL, Err: err}
	}

	pages, err := selectRequiredPages(&idx, r)
	if err != nil {
		return nil, err
	}

	leaves, err := res.materializePages(ctx, pages, cache)
	if err != nil {
		return nil, err
	}

	return res.decodeLeaves(ctx, leaves, r)
}

// materializePages launches a concurrent fetch per page that isn't
// already inline (§5 "Fan-out: page fetches are dispatched without
// serialization"), aborting all outstanding fetches on the first error
// (§4.5/§7 "the first terminal error aborts").
func (res *protocolRResolver) materializePages(ctx context.Context, pages []requiredPage, cache *sessionCache) ([][]registrationLeaf, error) {
	leaves := make([][]registrationLeaf, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	if res.concurrency > 0 {
		g.SetLimit(res.concurrency)
	}

	for i, p := range pages {
		if p.inline != nil {
			leaves[i] = p.inline
			continue
		}
		i, url := i, p.url
		g.Go(func() error {
			doc, err := res.fetcher.fetch(gctx, cache, url)
			if err != nil {
				return err
			}
			if doc == nil {
				// The index pointed at this page; its absence is a
				// protocol violation, not "package absent" (§4.5 step 5).
				return &BadDocumentError{URL: url, Err: errors.New("registration page not found")}
			}
			var page registrationPage
			if err := json.Unmarshal(doc, &page); err != nil {
				return &BadDocumentError{URL: url, Err: err}
			}
			leaves[i] = page.Items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return leaves, nil
}

// decodeLeaves runs C4 over every catalog entry across all materialized
// pages, deduplicating by PackageIdentity (I3). This is the "recursive
// result enumeration" of §9, implemented eagerly (an acceptable,
// spec-sanctioned conformant choice) with a cancellation checkpoint at
// each entry.
func (res *protocolRResolver) decodeLeaves(ctx context.Context, leaves [][]registrationLeaf, r VersionRange) ([]DependencyInfo, error) {
	byIdentity := make(map[string]DependencyInfo)
	for _, pageLeaves := range leaves {
		for _, leaf := range pageLeaves {
			if err := ctx.Err(); err != nil {
				return nil, &CancelledError{Err: err}
			}
			info, ok, err := decodeCatalogEntry(leaf.CatalogEntry, r)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			byIdentity[info.Identity.key()] = info
		}
	}

	out := make([]DependencyInfo, 0, len(byIdentity))
	for _, info := range byIdentity {
		out = append(out, info)
	}
	return out, nil
}
