package ui

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("operation cancelled by user")

// ConfirmPrompt asks a yes/no confirmation question
func ConfirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	return confirmResult(prompt.Run())
}

func confirmResult(result string, err error) (bool, error) {
	if err != nil {
		// promptui reports "n" on a confirm prompt as ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirm: %w", err)
	}

	return result == "y" || result == "Y", nil
}

// FuzzyFilter returns the items matching query, best matches first.
// An empty query returns items unchanged.
func FuzzyFilter(query string, items []string) []string {
	if query == "" {
		return items
	}

	ranks := fuzzy.RankFindNormalizedFold(query, items)
	sort.Stable(ranks)

	matched := make([]string, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, r.Target)
	}
	return matched
}
