package registry

import "strings"

// PackageIdentity is the pair (id, version) that uniquely names one
// package release. Equality and hashing are case-insensitive on id. In
// protocol-R results the textual id preserved is the server's casing from
// the catalog entry, not the caller's query, since the server's casing is
// canonical; protocol-F listings carry no per-version id, so those results
// keep the id as queried.
type PackageIdentity struct {
	ID      string
	Version Version
}

// Equal reports whether p and other name the same release, comparing id
// case-insensitively and version ignoring build metadata.
func (p PackageIdentity) Equal(other PackageIdentity) bool {
	return strings.EqualFold(p.ID, other.ID) && p.Version.Equal(other.Version)
}

// key returns a case-normalized string suitable for use as a map key when
// deduplicating a result set under PackageIdentity equality (I3).
func (p PackageIdentity) key() string {
	return strings.ToLower(p.ID) + "@" + normalizeVersionKey(p.Version)
}

func normalizeVersionKey(v Version) string {
	// Must match Version.Equal exactly: the raw parsed text can't be used
	// here since two versions differing only in build metadata (ignored by
	// Equal/Compare) would otherwise produce different keys.
	return v.canonicalKey()
}

func (p PackageIdentity) String() string {
	return p.ID + " " + p.Version.String()
}

// FrameworkTag is an opaque token naming a target platform profile that a
// [PackageDependencyGroup] applies to. Equality is structural.
type FrameworkTag string

// AnyFramework is the framework tag used when a dependency group does not
// declare a specific target framework.
const AnyFramework FrameworkTag = "any"

// ParseFrameworkTag converts a raw moniker into a [FrameworkTag], mapping
// the empty string to [AnyFramework].
func ParseFrameworkTag(moniker string) FrameworkTag {
	if moniker == "" {
		return AnyFramework
	}
	return FrameworkTag(moniker)
}

// PackageDependency is a dependency on another package, optionally
// constrained to a version range. A nil Range means any version.
type PackageDependency struct {
	ID    string
	Range *VersionRange
}

// PackageDependencyGroup is a set of direct dependencies scoped to one
// target framework.
type PackageDependencyGroup struct {
	Framework FrameworkTag
	Deps      []PackageDependency
}

// DependencyInfo is the uniform result record produced by both back-ends:
// one package release and its declared dependency groups.
type DependencyInfo struct {
	Identity PackageIdentity
	Groups   []PackageDependencyGroup
}

// Equal reports whether info and other name the same identity and carry
// the same dependency groups, comparing groups as unordered sets as
// required by the data model.
func (info DependencyInfo) Equal(other DependencyInfo) bool {
	if !info.Identity.Equal(other.Identity) {
		return false
	}
	return sameGroupSet(info.Groups, other.Groups)
}

func sameGroupSet(a, b []PackageDependencyGroup) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ga := range a {
		matched := false
		for j, gb := range b {
			if used[j] {
				continue
			}
			if groupEqual(ga, gb) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func groupEqual(a, b PackageDependencyGroup) bool {
	if a.Framework != b.Framework {
		return false
	}
	if len(a.Deps) != len(b.Deps) {
		return false
	}
	used := make([]bool, len(b.Deps))
	for _, da := range a.Deps {
		matched := false
		for j, db := range b.Deps {
			if used[j] {
				continue
			}
			if depEqual(da, db) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func depEqual(a, b PackageDependency) bool {
	if !strings.EqualFold(a.ID, b.ID) {
		return false
	}
	if (a.Range == nil) != (b.Range == nil) {
		return false
	}
	if a.Range == nil {
		return true
	}
	return a.Range.Equal(*b.Range)
}

// SortByIdentity sorts infos in place by (id, version), for callers that
// require stable ordering; the resolver itself makes no ordering guarantee.
func SortByIdentity(infos []DependencyInfo) {
	sortByIdentity(infos)
}
