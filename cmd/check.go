package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/keys"
	"github.com/grovetools/palette/pkg/registry"
)

// newCheckCmd creates the 'palette check' command.
func newCheckCmd() *cobra.Command {
	var strict bool

	cmd := newCommand("check", "Check definitions for errors, unknown keys and chord conflicts")
	cmd.Long = `Load every definition for the target OS and report problems.

Checks:
- Definition files that fail to load (parse errors, missing OS binding)
- Actions that were skipped (missing chord, focus state or invalid chord)
- Unknown keys, with a suggestion when a known key is close
- Chords bound to more than one action in the same application and focus state

Chords shared across applications are NOT reported because they are never
offered from the same window.`
	cmd.Args = cobra.NoArgs
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat unknown keys and skipped actions as errors")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.OutOrStdout(), strict)
	}
	return cmd
}

func runCheck(w io.Writer, strict bool) error {
	dir := appConfig.DefinitionsDir
	fmt.Fprintln(w, headerStyle.Render("Palette definitions check"))
	fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("%s (%s)", dir, targetOS())))
	fmt.Fprintln(w)

	reg, err := registry.Build(dir, targetOS())
	if err != nil {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(iconError), err)
		return errChecksFailed
	}
	report := reg.Report()

	errorsFound := 0
	warningsFound := 0

	for _, f := range report.Failures {
		errorsFound++
		fmt.Fprintf(w, "%s %s: %s\n",
			errorStyle.Render(iconError), boldStyle.Render(filepath.Base(f.File)), f.Err)
	}
	for _, issue := range report.SkippedActions {
		warningsFound++
		fmt.Fprintf(w, "%s %s\n", warningStyle.Render(iconWarning), issue)
	}

	unknown := checkUnknownKeys(w, dir)
	warningsFound += unknown

	conflicts := keys.DetectConflicts(reg.Bindings())
	byApp := keys.GroupConflictsByApp(conflicts)
	for _, id := range reg.IDs() {
		app, _ := reg.Application(id)
		appConflicts := byApp[string(id)]
		if len(appConflicts) == 0 {
			fmt.Fprintf(w, "%s %s: %s (%d actions)\n",
				successStyle.Render(iconSuccess),
				boldStyle.Render(app.Name),
				successStyle.Render("No conflicts"),
				app.Len())
			continue
		}
		errorsFound += len(appConflicts)
		fmt.Fprintf(w, "%s %s: %s\n",
			errorStyle.Render(iconError),
			boldStyle.Render(app.Name),
			errorStyle.Render(fmt.Sprintf("%d conflict(s)", len(appConflicts))))
		for _, c := range appConflicts {
			var actions []string
			for _, b := range c.Bindings {
				actions = append(actions, b.ActionKey)
			}
			fmt.Fprintf(w, "     %s [%s]: %s\n",
				highlightStyle.Render(c.Chord.String()), c.Bucket, strings.Join(actions, ", "))
		}
	}

	fmt.Fprintln(w)
	if strict {
		errorsFound += warningsFound
		warningsFound = 0
	}
	switch {
	case errorsFound > 0:
		fmt.Fprintf(w, "%s error(s), %d warning(s) found.\n",
			boldStyle.Render(fmt.Sprintf("%d", errorsFound)), warningsFound)
		return errChecksFailed
	case warningsFound > 0:
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("%d warning(s) found.", warningsFound)))
	default:
		fmt.Fprintln(w, successStyle.Render(iconSuccess+" All definitions are valid and conflict-free!"))
	}
	return nil
}

// checkUnknownKeys reports keys no definition field consumed and returns how
// many were found. Files that fail to decode are already counted as
// failures, so they are skipped here.
func checkUnknownKeys(w io.Writer, dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := definition.FormatForPath(e.Name()); ok && !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	found := 0
	for _, name := range names {
		def, err := definition.LoadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		for _, key := range def.Undecoded() {
			found++
			msg := fmt.Sprintf("%s %s: unknown key %s",
				warningStyle.Render(iconWarning), boldStyle.Render(name), highlightStyle.Render(key))
			last := key[strings.LastIndex(key, ".")+1:]
			if suggestion := findClosestMatch(last, definition.KnownKeys(key)); suggestion != "" {
				msg += faintStyle.Render(fmt.Sprintf(" (did you mean %q?)", suggestion))
			}
			fmt.Fprintln(w, msg)
		}
	}
	return found
}

// findClosestMatch finds the closest match to target in the validKeys list using Levenshtein distance.
func findClosestMatch(target string, validKeys []string) string {
	bestDistance := 999
	bestMatch := ""

	for _, key := range validKeys {
		dist := levenshtein(target, key)
		if dist < bestDistance && dist <= 3 { // Threshold for "close enough"
			bestDistance = dist
			bestMatch = key
		}
	}
	return bestMatch
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	n, m := len(r1), len(r2)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= n; i++ {
		cur[0] = i
		for j := 1; j <= m; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[m]
}
