package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/fuzzy"
	"github.com/grovetools/palette/pkg/resolver"
)

func newSearchCmd() *cobra.Command {
	var (
		wf     windowFlags
		limit  int
		scorer string
		output string
	)

	cmd := newCommand("search <query>", "Rank the actions for a context against a query")
	cmd.Long = `Resolve the actions for a window context and rank them against a query,
the same way the palette does as you type.

Examples:
  palette search "new tab" --foreground chrome.exe
  palette search nt --foreground chrome.exe --scorer sahilm`
	cmd.Args = cobra.MaximumNArgs(1)
	wf.register(cmd.Flags())
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results (default max_results from config)")
	cmd.Flags().StringVar(&scorer, "scorer", "", "Scorer: subsequence or sahilm (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		s := appConfig.ScorerImpl()
		if scorer != "" {
			var ok bool
			if s, ok = fuzzy.ByName(scorer); !ok {
				return fmt.Errorf("unknown scorer %q (want subsequence or sahilm)", scorer)
			}
		}
		if limit <= 0 {
			limit = appConfig.MaxResults
		}

		root, err := windowContext(cmd.Context(), wf)
		if err != nil {
			return fmt.Errorf("failed to read window context: %w", err)
		}
		ranked := rankActions(s, query, resolver.Resolve(buildRegistry(), root), limit)

		w := cmd.OutOrStdout()
		type searchResult struct {
			resolvedAction `yaml:",inline"`
			Score          int   `json:"score" yaml:"score"`
			Positions      []int `json:"positions,omitempty" yaml:"positions,omitempty"`
		}
		structured := make([]searchResult, 0, len(ranked))
		for _, r := range ranked {
			structured = append(structured, searchResult{
				resolvedAction: toResolved(r.Item),
				Score:          r.Match.Score,
				Positions:      r.Match.Positions,
			})
		}
		if ok, err := writeStructured(w, output, structured); ok {
			return err
		}

		if len(ranked) == 0 {
			fmt.Fprintln(w, faintStyle.Render("No matches."))
			return nil
		}
		for _, r := range ranked {
			fmt.Fprintf(w, "%4d  %s  %s\n",
				r.Match.Score, highlightMatches(r.Item.Label(), r.Match.Positions, matchStyle),
				chordStyle.Render(r.Item.Chord.String()))
		}
		return nil
	}
	return cmd
}

// rankActions ranks actions against query, breaking score ties by
// application priority, and keeps at most limit results.
func rankActions(s fuzzy.Scorer, query string, actions []resolver.UnitAction, limit int) []fuzzy.Ranked[resolver.UnitAction] {
	ranked := fuzzy.Rank(s, query, actions, func(a, b resolver.UnitAction) bool {
		return a.Priority < b.Priority
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// highlightMatches renders the runes of label at positions with style.
func highlightMatches(label string, positions []int, style lipgloss.Style) string {
	if len(positions) == 0 {
		return label
	}
	hit := make(map[int]bool, len(positions))
	for _, p := range positions {
		hit[p] = true
	}
	var b strings.Builder
	for i, r := range []rune(label) {
		if hit[i] {
			b.WriteString(style.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
