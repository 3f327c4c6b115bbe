package registry

import (
	"fmt"
	"strings"
)

// VersionRange is a bounded or half-bounded interval over [Version]s, with
// an independent flag controlling whether pre-release versions inside the
// interval are considered a match.
//
// The zero value is the unbounded "all versions" range with pre-release
// excluded; use [NewAnyRange] for clarity at call sites.
type VersionRange struct {
	lo, hi                   *Version
	loInclusive, hiInclusive bool
	includePre               bool
}

// NewAnyRange returns a range that is satisfied by every non-prerelease
// version. Combine with [VersionRange.WithPre] to include pre-releases.
func NewAnyRange() VersionRange {
	return VersionRange{}
}

// NewExactRange returns a range satisfied by exactly v, regardless of
// whether v itself carries a pre-release tag.
func NewExactRange(v Version) VersionRange {
	lo, hi := v, v
	return VersionRange{
		lo: &lo, hi: &hi,
		loInclusive: true, hiInclusive: true,
		includePre: true,
	}
}

// newInclusivePageRange returns the range covered by one registration page,
// bounded inclusively at both ends.
func newInclusivePageRange(lower, upper Version) VersionRange {
	lo, hi := lower, upper
	return VersionRange{
		lo: &lo, hi: &hi,
		loInclusive: true, hiInclusive: true,
		includePre: true,
	}
}

// Equal reports whether r and other describe the same interval.
func (r VersionRange) Equal(other VersionRange) bool {
	if r.loInclusive != other.loInclusive || r.hiInclusive != other.hiInclusive || r.includePre != other.includePre {
		return false
	}
	if (r.lo == nil) != (other.lo == nil) {
		return false
	}
	if r.lo != nil && !r.lo.Equal(*other.lo) {
		return false
	}
	if (r.hi == nil) != (other.hi == nil) {
		return false
	}
	if r.hi != nil && !r.hi.Equal(*other.hi) {
		return false
	}
	return true
}

// HasBothBounds reports whether the range has both a lower and upper bound.
func (r VersionRange) HasBothBounds() bool {
	return r.lo != nil && r.hi != nil
}

// WithPre returns a copy of r with include_pre set to b.
func (r VersionRange) WithPre(b bool) VersionRange {
	r.includePre = b
	return r
}

// Satisfies reports whether v falls within the range.
func (r VersionRange) Satisfies(v Version) bool {
	if !r.includePre && v.IsPrerelease() {
		return false
	}
	if r.lo != nil {
		cmp := v.Compare(*r.lo)
		if r.loInclusive {
			if cmp < 0 {
				return false
			}
		} else if cmp <= 0 {
			return false
		}
	}
	if r.hi != nil {
		cmp := v.Compare(*r.hi)
		if r.hiInclusive {
			if cmp > 0 {
				return false
			}
		} else if cmp >= 0 {
			return false
		}
	}
	return true
}

// ParseVersionRange parses interval notation mirroring the ecosystem
// convention this resolver targets:
//
//	""               -> all versions, unbounded
//	"1.0.0"           -> minimum version 1.0.0, inclusive, unbounded above
//	"[1.0.0]"         -> exactly 1.0.0
//	"[1.0.0,2.0.0)"   -> 1.0.0 inclusive .. 2.0.0 exclusive
//	"(1.0.0,2.0.0]"   -> 1.0.0 exclusive .. 2.0.0 inclusive
//	"(,2.0.0)"        -> unbounded below .. 2.0.0 exclusive
//	"[1.0.0,)"        -> 1.0.0 inclusive .. unbounded above
func ParseVersionRange(s string) (VersionRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NewAnyRange(), nil
	}

	if s[0] != '[' && s[0] != '(' {
		v, err := ParseVersion(s)
		if err != nil {
			return VersionRange{}, &BadRangeError{Input: s, Err: err}
		}
		return VersionRange{lo: &v, loInclusive: true}, nil
	}

	if len(s) < 2 {
		return VersionRange{}, &BadRangeError{Input: s, Err: fmt.Errorf("interval too short")}
	}
	loInclusive := s[0] == '['
	last := s[len(s)-1]
	if last != ']' && last != ')' {
		return VersionRange{}, &BadRangeError{Input: s, Err: fmt.Errorf("interval must end in ] or )")}
	}
	hiInclusive := last == ']'
	body := s[1 : len(s)-1]

	if !strings.Contains(body, ",") {
		// "[1.0.0]" - exact version.
		if !(loInclusive && hiInclusive) {
			return VersionRange{}, &BadRangeError{Input: s, Err: fmt.Errorf("single-version interval must be [v]")}
		}
		v, err := ParseVersion(body)
		if err != nil {
			return VersionRange{}, &BadRangeError{Input: s, Err: err}
		}
		return NewExactRange(v).WithPre(false), nil
	}

	parts := strings.SplitN(body, ",", 2)
	loStr, hiStr := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	r := VersionRange{loInclusive: loInclusive, hiInclusive: hiInclusive}
	if loStr != "" {
		v, err := ParseVersion(loStr)
		if err != nil {
			return VersionRange{}, &BadRangeError{Input: s, Err: err}
		}
		r.lo = &v
	}
	if hiStr != "" {
		v, err := ParseVersion(hiStr)
		if err != nil {
			return VersionRange{}, &BadRangeError{Input: s, Err: err}
		}
		r.hi = &v
	}
	return r, nil
}
