// Package version selects the newest release from a scanned asset index.
package version

import "github.com/quantmind-br/freshen/internal/core"

// Select returns the asset with the greatest version strictly above baseline.
//
// Entries are visited in URL order and only a strictly newer version replaces the
// running best, so among several assets sharing the maximal version the one with
// the lexically smallest URL wins. found is false when nothing beats baseline,
// including when the index is empty. A nil cmp uses Default().
func Select(index core.AssetIndex, baseline string, cmp core.Comparator) (candidate core.UpdateCandidate, found bool) {
	if cmp == nil {
		cmp = Default()
	}

	best := baseline
	for _, asset := range index.Assets() {
		if cmp.Newer(best, asset.Version) {
			candidate = core.UpdateCandidate{URL: asset.URL, Version: asset.Version}
			best = asset.Version
			found = true
		}
	}

	return candidate, found
}
