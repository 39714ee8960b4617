package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// VersionedAsset is a downloadable release artifact discovered on a listing page
type VersionedAsset struct {
	URL     string `json:"url"`
	Version string `json:"version"`
}

// AssetIndex maps absolute asset URLs to the version embedded in their name
type AssetIndex map[string]string

// Assets returns the index entries ordered by URL
func (idx AssetIndex) Assets() []VersionedAsset {
	assets := make([]VersionedAsset, 0, len(idx))
	for url, version := range idx {
		assets = append(assets, VersionedAsset{URL: url, Version: version})
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].URL < assets[j].URL
	})

	return assets
}

// UpdateCandidate is the newest asset found above the caller's baseline.
// It is only meaningful when returned together with found == true.
type UpdateCandidate struct {
	URL     string `json:"url"`
	Version string `json:"version"`
}

// ReplacementPlan describes how the running application is swapped for a new payload.
// NewItem and OldItem may each be a single file or a directory tree. EntryPoint is
// relative to the parent directory of OldItem.
type ReplacementPlan struct {
	NewItem    string
	OldItem    string
	EntryPoint string
}

// ResolvedPlan is a ReplacementPlan with every path made absolute
type ResolvedPlan struct {
	NewItem       string
	OldItem       string
	TargetDir     string
	EntryPointAbs string

	NewIsDir bool
	OldIsDir bool
}

// Resolve makes all plan paths absolute and checks that both items exist
func (p ReplacementPlan) Resolve() (ResolvedPlan, error) {
	if p.NewItem == "" || p.OldItem == "" || p.EntryPoint == "" {
		return ResolvedPlan{}, fmt.Errorf("%w: new item, old item and entry point are required", ErrInvalidOptions)
	}

	newItem, err := filepath.Abs(p.NewItem)
	if err != nil {
		return ResolvedPlan{}, fmt.Errorf("resolve new item: %w", err)
	}

	oldItem, err := filepath.Abs(p.OldItem)
	if err != nil {
		return ResolvedPlan{}, fmt.Errorf("resolve old item: %w", err)
	}

	newInfo, err := os.Stat(newItem)
	if err != nil {
		return ResolvedPlan{}, &ReplacementError{Op: "stat", Path: newItem, Err: err}
	}

	oldInfo, err := os.Stat(oldItem)
	if err != nil {
		return ResolvedPlan{}, &ReplacementError{Op: "stat", Path: oldItem, Err: err}
	}

	targetDir := filepath.Dir(oldItem)

	return ResolvedPlan{
		NewItem:       newItem,
		OldItem:       oldItem,
		TargetDir:     targetDir,
		EntryPointAbs: filepath.Join(targetDir, p.EntryPoint),
		NewIsDir:      newInfo.IsDir(),
		OldIsDir:      oldInfo.IsDir(),
	}, nil
}

// Exit codes returned by the freshen CLI
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitInvalidArgs = 2
	ExitScanFailed  = 4
	ExitNetwork     = 5
	ExitExtraction  = 6
	ExitReplacement = 7
	ExitInterrupted = 130
)
