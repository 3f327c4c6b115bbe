package registry

import "sort"

// sortByIdentity sorts infos by (id, version) case-insensitively on id.
func sortByIdentity(infos []DependencyInfo) {
	sort.Slice(infos, func(i, j int) bool {
		a, b := infos[i].Identity, infos[j].Identity
		ai, bi := lowerID(a.ID), lowerID(b.ID)
		if ai != bi {
			return ai < bi
		}
		return a.Version.Compare(b.Version) < 0
	})
}

func lowerID(id string) string {
	out := make([]byte, len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// NearestFramework picks the dependency group whose framework is the
// closest match for target out of groups, the way an earlier revision of
// this resolver used to do internally before deferring the choice to the
// caller (spec §9). Only an exact structural match or the catch-all
// [AnyFramework] group are considered "nearest" here: this resolver does
// not model full target-framework compatibility (net6.0 vs netstandard2.0
// and the like) the way a full framework-reducer would, so callers that
// need that richer compatibility matrix must apply it themselves against
// the groups a resolve already returned.
func NearestFramework(groups []PackageDependencyGroup, target FrameworkTag) (PackageDependencyGroup, bool) {
	var anyGroup PackageDependencyGroup
	haveAny := false
	for _, g := range groups {
		if g.Framework == target {
			return g, true
		}
		if g.Framework == AnyFramework {
			anyGroup = g
			haveAny = true
		}
	}
	if haveAny {
		return anyGroup, true
	}
	return PackageDependencyGroup{}, false
}
