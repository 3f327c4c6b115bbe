package registry

import (
	"fmt"
	"strings"

	hcversion "github.com/hashicorp/go-version"
)

// Version is a total-ordered semantic version: major, minor, patch, an
// optional pre-release tag, and optional build metadata. Comparison is
// case-insensitive on identifier segments and ignores build metadata,
// matching the ecosystem convention this resolver targets.
//
// Parsing is delegated to [github.com/hashicorp/go-version], which already
// accepts the pragmatic 4-part numeric prefix this model requires; the
// identifier segments are lower-cased before being handed to it so that
// precedence comparison stays case-insensitive.
type Version struct {
	raw   string
	inner *hcversion.Version
}

// ParseVersion parses s per the semantic-versioning grammar, with the
// pragmatic extension that a 4-part numeric prefix ("1.2.3.4") is accepted.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, &BadVersionError{Input: s, Err: fmt.Errorf("empty version string")}
	}
	v, err := hcversion.NewVersion(strings.ToLower(trimmed))
	if err != nil {
		return Version{}, &BadVersionError{Input: s, Err: err}
	}
	return Version{raw: trimmed, inner: v}, nil
}

// MustParseVersion is like [ParseVersion] but panics on error. Intended for
// tests and package-level constants, not for decoding untrusted input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the original textual form the version was parsed from.
func (v Version) String() string {
	if v.inner == nil {
		return ""
	}
	return v.raw
}

// IsZero reports whether v is the zero Version (never successfully parsed).
func (v Version) IsZero() bool {
	return v.inner == nil
}

// IsPrerelease reports whether v carries a pre-release tag.
func (v Version) IsPrerelease() bool {
	return v.inner != nil && v.inner.Prerelease() != ""
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other. Build metadata is ignored, matching the ecosystem's precedence
// rules; pre-release versions sort below the same numeric tuple without a
// pre-release tag.
func (v Version) Compare(other Version) int {
	if v.inner == nil || other.inner == nil {
		return strings.Compare(v.raw, other.raw)
	}
	return v.inner.Compare(other.inner)
}

// Equal reports whether v and other compare equal, ignoring build metadata.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// canonicalKey returns a string that is identical for any two versions that
// compare Equal, built from the numeric segments and pre-release tag alone
// (never the raw parsed text, which may carry differing build metadata for
// otherwise-equal versions).
func (v Version) canonicalKey() string {
	if v.inner == nil {
		return ""
	}
	segs := v.inner.Segments64()
	// Trailing zero segments past the third do not affect Equal ("1.0.0.0"
	// equals "1.0.0"), so they are left out of the key as well.
	for len(segs) > 3 && segs[len(segs)-1] == 0 {
		segs = segs[:len(segs)-1]
	}
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ".") + "-" + strings.ToLower(v.inner.Prerelease())
}
