package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/freshen/internal/core"
	"github.com/quantmind-br/freshen/internal/ui"
	"github.com/quantmind-br/freshen/internal/version"
	"github.com/spf13/cobra"
)

// listEntry is one row of `freshen list`
type listEntry struct {
	URL     string `json:"url"`
	Version string `json:"version"`
	Newer   bool   `json:"newer"`
	Latest  bool   `json:"latest"`
}

// newListCmd creates the list command
func newListCmd(e *env) *cobra.Command {
	var (
		jsonOutput bool
		match      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List releases found on the listing page",
		Long:  `List every archive on the listing page that matches the pattern, marking versions newer than the current one.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := e.updater()
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}

			index, err := u.Index(cmd.Context())
			if err != nil {
				ui.PrintError("failed to scan listing: %v", err)
				return fmt.Errorf("list: %w", err)
			}

			entries := buildEntries(index, e.flags.current, match)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				if match != "" {
					ui.PrintWarning("No releases found matching %q", match)
				} else {
					ui.PrintInfo("No releases found")
				}
				return nil
			}

			ui.PrintHeader(cmd.OutOrStdout(), "Releases on "+e.flags.url)
			printTable(cmd, entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&match, "match", "", "fuzzy filter on release URLs")

	return cmd
}

// buildEntries orders the index by URL, or by match quality when filtering
func buildEntries(index core.AssetIndex, current, match string) []listEntry {
	latest, found := version.Select(index, current, nil)
	cmp := version.Default()

	urls := make([]string, 0, len(index))
	for _, asset := range index.Assets() {
		urls = append(urls, asset.URL)
	}

	entries := make([]listEntry, 0, len(urls))
	for _, url := range ui.FuzzyFilter(match, urls) {
		v := index[url]
		entries = append(entries, listEntry{
			URL:     url,
			Version: v,
			Newer:   cmp.Newer(current, v),
			Latest:  found && url == latest.URL,
		})
	}
	return entries
}

func printTable(cmd *cobra.Command, entries []listEntry) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Version", "Status", "URL"}),
		tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, entry := range entries {
		status := "-"
		switch {
		case entry.Latest:
			status = "latest"
		case entry.Newer:
			status = "newer"
		}

		table.Append(ui.ColorizeVersion(entry.Version, entry.Newer), status, entry.URL)
	}

	table.Render()
}
