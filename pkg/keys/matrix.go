package keys

import "sort"

// MatrixRow represents a single chord and what it triggers in each application.
type MatrixRow struct {
	Chord      string            `json:"chord" yaml:"chord"`
	Apps       map[string]string `json:"apps" yaml:"apps"`
	Consistent bool              `json:"consistent" yaml:"consistent"`
}

// MatrixReport contains the full matrix view of chords across applications.
type MatrixReport struct {
	Rows     []MatrixRow `json:"rows" yaml:"rows"`
	AppNames []string    `json:"apps" yaml:"apps"`
}

// BuildMatrix creates a matrix view showing what each chord does in each
// application. A row is consistent when every application that binds the
// chord uses it for an action with the same normalized name.
func BuildMatrix(bindings []Binding) MatrixReport {
	rowMap := make(map[KeyChord]*MatrixRow)
	appSet := make(map[string]bool)

	for _, b := range bindings {
		if b.Chord.IsZero() {
			continue
		}
		appSet[b.App] = true
		row := rowMap[b.Chord]
		if row == nil {
			row = &MatrixRow{
				Chord: b.Chord.String(),
				Apps:  make(map[string]string),
			}
			rowMap[b.Chord] = row
		}
		if existing, ok := row.Apps[b.App]; ok && existing != NormalizeAction(b.Action) {
			row.Apps[b.App] = existing + ", " + NormalizeAction(b.Action)
			continue
		}
		row.Apps[b.App] = NormalizeAction(b.Action)
	}

	report := MatrixReport{}
	for a := range appSet {
		report.AppNames = append(report.AppNames, a)
	}
	sort.Strings(report.AppNames)

	for _, row := range rowMap {
		first := ""
		consistent := true
		for _, action := range row.Apps {
			if first == "" {
				first = action
			} else if action != first {
				consistent = false
				break
			}
		}
		row.Consistent = consistent
		report.Rows = append(report.Rows, *row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Chord < report.Rows[j].Chord
	})

	return report
}
