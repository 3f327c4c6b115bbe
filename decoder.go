package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// catalogEntry is the per-version record carrying id, version, listing
// state, and declared dependencies.
type catalogEntry struct {
	ID               string         `json:"id"`
	Version          string         `json:"version"`
	Published        string         `json:"published,omitempty"`
	DependencyGroups []depGroupJSON `json:"dependencyGroups,omitempty"`
}

type depGroupJSON struct {
	TargetFramework string    `json:"targetFramework,omitempty"`
	Dependencies    []depJSON `json:"dependencies,omitempty"`
}

type depJSON struct {
	ID    string `json:"id"`
	Range string `json:"range,omitempty"`
}

// unlistedSentinel is the normalized publish date signalling a package
// version hidden from listings.
const unlistedSentinel = "19000101"

// decodeCatalogEntry implements C4: convert one catalog entry JSON blob
// into a DependencyInfo, applying the unlisted filter (I2) and the
// caller's requested range (I1). The second return value is false when
// the entry was dropped (unlisted, or out of range) rather than erroring.
func decodeCatalogEntry(raw json.RawMessage, r VersionRange) (DependencyInfo, bool, error) {
	var e catalogEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return DependencyInfo{}, false, &BadDocumentError{Err: fmt.Errorf("decoding catalog entry: %w", err)}
	}

	v, err := ParseVersion(e.Version)
	if err != nil {
		return DependencyInfo{}, false, &BadDocumentError{Err: fmt.Errorf("catalog entry %q: %w", e.ID, err)}
	}

	if e.Published != "" && normalizePublished(e.Published) == unlistedSentinel {
		return DependencyInfo{}, false, nil
	}

	if !r.Satisfies(v) {
		return DependencyInfo{}, false, nil
	}

	groups, err := parseDependencyGroups(e.DependencyGroups, r.includePre)
	if err != nil {
		return DependencyInfo{}, false, &BadDocumentError{Err: fmt.Errorf("catalog entry %q: %w", e.ID, err)}
	}

	return DependencyInfo{
		Identity: PackageIdentity{ID: e.ID, Version: v},
		Groups:   groups,
	}, true, nil
}

// parseDependencyGroups converts the wire dependencyGroups shape, shared
// by both the protocol-R decoder (C4) and the protocol-F adapter (C6).
//
// A dependency's range is tolerant per §4.4: an absent range yields nil
// (any version); a present-but-unparseable range is a hard failure.
func parseDependencyGroups(raw []depGroupJSON, includePre bool) ([]PackageDependencyGroup, error) {
	groups := make([]PackageDependencyGroup, 0, len(raw))
	for _, g := range raw {
		deps := make([]PackageDependency, 0, len(g.Dependencies))
		for _, d := range g.Dependencies {
			if d.ID == "" {
				return nil, errors.New("dependency missing id")
			}
			var rng *VersionRange
			if d.Range != "" {
				parsed, err := ParseVersionRange(d.Range)
				if err != nil {
					return nil, fmt.Errorf("dependency %q: %w", d.ID, err)
				}
				parsed = parsed.WithPre(includePre)
				rng = &parsed
			}
			deps = append(deps, PackageDependency{ID: d.ID, Range: rng})
		}
		groups = append(groups, PackageDependencyGroup{
			Framework: ParseFrameworkTag(g.TargetFramework),
			Deps:      deps,
		})
	}
	return groups, nil
}

// publishedLayouts are the ISO-8601 datetime forms a registration index
// has been observed to use for the "published" field.
var publishedLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// normalizePublished reduces an ISO datetime to YYYYMMDD for comparison
// against the unlisted sentinel.
func normalizePublished(s string) string {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("20060102")
		}
	}
	// Unparseable dates can't be the sentinel; let range/listing checks
	// decide the entry's fate instead of failing the whole call over a
	// field the decoder doesn't otherwise depend on.
	return ""
}
