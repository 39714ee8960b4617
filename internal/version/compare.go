package version

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/quantmind-br/freshen/internal/core"
)

// Default returns the comparator used when callers do not supply one.
// Versions are ordered as semantic versions; when either side is not valid
// semver both are compared as dotted numeric sequences ("1.2.3.4" > "1.2.3").
func Default() core.Comparator {
	return core.ComparatorFunc(Newer)
}

// Newer reports whether candidate is strictly newer than current
func Newer(current, candidate string) bool {
	cur, curErr := semver.NewVersion(current)
	cand, candErr := semver.NewVersion(candidate)
	if curErr == nil && candErr == nil {
		return cand.GreaterThan(cur)
	}

	c, ok := CompareDotted(candidate, current)
	return ok && c > 0
}

// CompareDotted compares two dotted numeric versions such as "1.10.0" and "1.9".
// Missing trailing parts count as zero. ok is false when either side has a
// non-numeric part.
func CompareDotted(a, b string) (c int, ok bool) {
	pa, ok := parseDotted(a)
	if !ok {
		return 0, false
	}

	pb, ok := parseDotted(b)
	if !ok {
		return 0, false
	}

	for i := 0; i < max(len(pa), len(pb)); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}

		if x != y {
			if x > y {
				return 1, true
			}
			return -1, true
		}
	}

	return 0, true
}

func parseDotted(s string) ([]int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return nil, false
	}

	fields := strings.Split(s, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, false
		}
		parts[i] = n
	}

	return parts, true
}
