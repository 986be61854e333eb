package keys

import (
	"sort"
)

// DetectConflicts finds chords bound to more than one action inside the same
// application and focus bucket. Chords shared across applications, or across
// buckets of one application, are NOT reported because they are never offered
// from the same context.
func DetectConflicts(bindings []Binding) []Conflict {
	var conflicts []Conflict

	type scope struct {
		app    string
		bucket string
	}

	// Group by application and bucket
	scopes := make(map[scope][]Binding)
	for _, b := range bindings {
		s := scope{app: b.App, bucket: b.Bucket}
		scopes[s] = append(scopes[s], b)
	}

	for s, scoped := range scopes {
		usage := make(map[KeyChord][]Binding)
		for _, b := range scoped {
			if b.Chord.IsZero() {
				continue
			}
			usage[b.Chord] = append(usage[b.Chord], b)
		}

		for chord, usages := range usage {
			if len(usages) < 2 {
				continue
			}
			// Deduplicate: the same action key may be listed twice
			seen := make(map[string]bool)
			var unique []Binding
			for _, u := range usages {
				if !seen[u.ActionKey] {
					seen[u.ActionKey] = true
					unique = append(unique, u)
				}
			}
			if len(unique) > 1 {
				sort.Slice(unique, func(i, j int) bool {
					return unique[i].ActionKey < unique[j].ActionKey
				})
				conflicts = append(conflicts, Conflict{
					Chord:    chord,
					App:      s.app,
					Bucket:   s.bucket,
					Bindings: unique,
				})
			}
		}
	}

	// Sort by app, bucket, then chord for consistent output
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].App != conflicts[j].App {
			return conflicts[i].App < conflicts[j].App
		}
		if conflicts[i].Bucket != conflicts[j].Bucket {
			return conflicts[i].Bucket < conflicts[j].Bucket
		}
		return conflicts[i].Chord.String() < conflicts[j].Chord.String()
	})

	return conflicts
}

// GroupConflictsByApp returns conflicts organized by application id.
func GroupConflictsByApp(conflicts []Conflict) map[string][]Conflict {
	result := make(map[string][]Conflict)
	for _, c := range conflicts {
		result[c.App] = append(result[c.App], c)
	}
	return result
}
