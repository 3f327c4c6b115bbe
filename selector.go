package registry

import "encoding/json"

// registrationIndex is the top-level protocol-R document: a package id's
// versions partitioned into pages by version range.
type registrationIndex struct {
	Items []registrationItem `json:"items"`
}

// registrationItem describes one page: the version range it covers, the
// URL to fetch it from, and optionally its catalog entries already
// inlined (no second fetch required).
type registrationItem struct {
	ID    string             `json:"@id"`
	Lower string             `json:"lower"`
	Upper string             `json:"upper"`
	Items []registrationLeaf `json:"items,omitempty"`
}

// registrationPage is the shape of a page fetched from registrationItem.ID.
type registrationPage struct {
	Items []registrationLeaf `json:"items"`
}

// registrationLeaf is one entry within a page.
type registrationLeaf struct {
	CatalogEntry json.RawMessage `json:"catalogEntry"`
}

// requiredPage is one page C3 has decided must be materialized: either
// its leaves are already inline, or url names where to fetch them.
type requiredPage struct {
	inline []registrationLeaf
	url    string
}

// selectRequiredPages implements C3: given the index and a requested
// range, decide which pages must be materialized.
//
// The selector is intentionally inclusive: it may over-fetch pages that
// share only a boundary version with the query, leaving the per-entry
// filter in C4 as the final source of truth for membership.
func selectRequiredPages(idx *registrationIndex, r VersionRange) ([]requiredPage, error) {
	q := r.WithPre(true)

	pages := make([]requiredPage, 0, len(idx.Items))
	for _, item := range idx.Items {
		lower, err := ParseVersion(item.Lower)
		if err != nil {
			return nil, &BadDocumentError{URL: item.ID, Err: &BadVersionError{Input: item.Lower, Err: err}}
		}
		upper, err := ParseVersion(item.Upper)
		if err != nil {
			return nil, &BadDocumentError{URL: item.ID, Err: &BadVersionError{Input: item.Upper, Err: err}}
		}

		var required bool
		if q.HasBothBounds() {
			page := newInclusivePageRange(lower, upper)
			required = page.Satisfies(*q.lo) || page.Satisfies(*q.hi)
		} else {
			required = q.Satisfies(lower) || q.Satisfies(upper)
		}
		if !required {
			continue
		}

		if len(item.Items) > 0 {
			pages = append(pages, requiredPage{inline: item.Items})
		} else {
			pages = append(pages, requiredPage{url: item.ID})
		}
	}
	return pages, nil
}
