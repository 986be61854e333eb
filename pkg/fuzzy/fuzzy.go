// Package fuzzy scores free-text queries against candidate labels.
package fuzzy

import (
	"sort"
	"unicode"

	sahilm "github.com/sahilm/fuzzy"
)

const (
	baseScore   = 100
	prefixBonus = 50
)

// MatchResult is the outcome of scoring one target against one query. The
// zero value means "no match". Positions are rune indices into the target.
type MatchResult struct {
	Score     int
	Positions []int
}

// Matched reports whether r represents a successful match.
func (r MatchResult) Matched() bool {
	return len(r.Positions) > 0
}

// Score matches query against target as a case-insensitive subsequence,
// greedily taking the first occurrence of each query rune. A match scores
// 100 minus the matched span, plus 50 when the match starts at position 0,
// and never less than 1 so a match always outranks no match. An empty
// query, or one that is not a subsequence, yields the zero result.
func Score(target, query string) MatchResult {
	if query == "" {
		return MatchResult{}
	}
	t := []rune(target)
	positions := make([]int, 0, len(query))

	ti := 0
	for _, qr := range query {
		qr = unicode.ToLower(qr)
		found := false
		for ; ti < len(t); ti++ {
			if unicode.ToLower(t[ti]) == qr {
				positions = append(positions, ti)
				ti++
				found = true
				break
			}
		}
		if !found {
			return MatchResult{}
		}
	}

	first, last := positions[0], positions[len(positions)-1]
	score := baseScore - (last - first + 1)
	if first == 0 {
		score += prefixBonus
	}
	if score < 1 {
		score = 1
	}
	return MatchResult{Score: score, Positions: positions}
}

// Scorer is a replaceable scoring policy. Implementations must return the
// zero MatchResult for no match and must favour prefix matches. Callers
// decide membership with Matched, never by comparing scores against zero.
type Scorer interface {
	Score(target, query string) MatchResult
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(target, query string) MatchResult

// Score implements Scorer.
func (f ScorerFunc) Score(target, query string) MatchResult {
	return f(target, query)
}

// Subsequence is the default scorer.
var Subsequence Scorer = ScorerFunc(Score)

// Sahilm scores with github.com/sahilm/fuzzy, which rewards word
// boundaries and camel case as well as adjacency and prefixes.
var Sahilm Scorer = ScorerFunc(sahilmScore)

func sahilmScore(target, query string) MatchResult {
	if query == "" {
		return MatchResult{}
	}
	matches := sahilm.Find(query, []string{target})
	if len(matches) == 0 {
		return MatchResult{}
	}
	m := matches[0]
	// sahilm reports byte offsets; convert to rune indices.
	positions := make([]int, 0, len(m.MatchedIndexes))
	runeIndex := make(map[int]int, len(target))
	i := 0
	for b := range target {
		runeIndex[b] = i
		i++
	}
	for _, b := range m.MatchedIndexes {
		positions = append(positions, runeIndex[b])
	}
	// Scores can be negative; shift so every match ranks above no match.
	score := m.Score
	if score < 1 {
		score = 1
	}
	return MatchResult{Score: score, Positions: positions}
}

// ByName returns the scorer registered under name. Unknown names fall back
// to Subsequence and ok is false.
func ByName(name string) (s Scorer, ok bool) {
	switch name {
	case "", "subsequence":
		return Subsequence, true
	case "sahilm":
		return Sahilm, true
	}
	return Subsequence, false
}

// Candidate is anything that can be ranked.
type Candidate interface {
	Label() string
}

// Ranked pairs a candidate with its match.
type Ranked[T Candidate] struct {
	Item  T
	Match MatchResult
}

// Rank scores every candidate against query, drops non-matches and sorts
// by score descending. Ties keep input order unless tie reports a
// preference. An empty query keeps every candidate in input order.
func Rank[T Candidate](s Scorer, query string, candidates []T, tie func(a, b T) bool) []Ranked[T] {
	out := make([]Ranked[T], 0, len(candidates))
	if query == "" {
		for _, c := range candidates {
			out = append(out, Ranked[T]{Item: c})
		}
		return out
	}
	for _, c := range candidates {
		m := s.Score(c.Label(), query)
		if !m.Matched() {
			continue
		}
		out = append(out, Ranked[T]{Item: c, Match: m})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Match.Score != out[j].Match.Score {
			return out[i].Match.Score > out[j].Match.Score
		}
		if tie != nil {
			return tie(out[i].Item, out[j].Item)
		}
		return false
	})
	return out
}
