package fuzzy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		want      int
		positions []int
	}{
		{name: "empty query", target: "Chrome", query: "", want: 0},
		{name: "no match", target: "Tab", query: "xt", want: 0},
		{name: "query longer than target", target: "ab", query: "abc", want: 0},
		{name: "spread prefix", target: "New Tab", query: "nt", want: 145, positions: []int{0, 4}},
		{name: "tight prefix", target: "New Tab", query: "ne", want: 148, positions: []int{0, 1}},
		{name: "case insensitive", target: "new tab", query: "NT", want: 145, positions: []int{0, 4}},
		{name: "inner match", target: "Close Tab", query: "tab", want: 97, positions: []int{6, 7, 8}},
		{name: "greedy first occurrence", target: "abab", query: "ab", want: 148, positions: []int{0, 1}},
		{name: "rune indices", target: "Ärger", query: "rg", want: 98, positions: []int{1, 2}},
		{name: "repeated letters", target: "aaa", query: "aaaa", want: 0},
		{name: "wide prefix span floors at one", target: "x" + strings.Repeat(".", 200) + "y", query: "xy", want: 1, positions: []int{0, 201}},
		{name: "wide inner span floors at one", target: "-x" + strings.Repeat(".", 120) + "y", query: "xy", want: 1, positions: []int{1, 122}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.target, tt.query)
			assert.Equal(t, tt.want, got.Score)
			assert.Equal(t, tt.positions, nilIfEmpty(got.Positions))
			assert.Equal(t, tt.positions != nil, got.Matched())
		})
	}
}

func nilIfEmpty(p []int) []int {
	if len(p) == 0 {
		return nil
	}
	return p
}

func TestScoreOrderingProperties(t *testing.T) {
	assert.Less(t, Score("New Tab", "nt").Score, Score("New Tab", "ne").Score)
	assert.Greater(t, Score("Tab", "ta").Score, Score("Close Tab", "ta").Score, "prefix wins")
	assert.Greater(t, Score("Close Tab", "ta").Score, Score("Tab", "xt").Score, "any match beats no match")
}

func TestSahilmScorer(t *testing.T) {
	assert.False(t, Sahilm.Score("Chrome", "").Matched())
	assert.False(t, Sahilm.Score("Tab", "xt").Matched())

	m := Sahilm.Score("New Tab", "nt")
	require.True(t, m.Matched())
	assert.Equal(t, []int{0, 4}, m.Positions)
	assert.Positive(t, m.Score)

	assert.Greater(t, Sahilm.Score("Tab", "ta").Score, Sahilm.Score("Close Tab", "ta").Score)
}

func TestByName(t *testing.T) {
	s, ok := ByName("sahilm")
	assert.True(t, ok)
	assert.NotNil(t, s)

	_, ok = ByName("")
	assert.True(t, ok)

	s, ok = ByName("levenshtein")
	assert.False(t, ok)
	assert.Equal(t, 145, s.Score("New Tab", "nt").Score)
}

type item struct {
	label    string
	priority int
}

func (i item) Label() string { return i.label }

func TestRank(t *testing.T) {
	items := []item{
		{label: "Close Tab", priority: 4},
		{label: "New Tab", priority: 4},
		{label: "Tab Search", priority: 5},
		{label: "Downloads", priority: 4},
		{label: "Tab Groups", priority: 3},
	}

	t.Run("drops misses and sorts by score", func(t *testing.T) {
		ranked := Rank(Subsequence, "tab", items, nil)
		var labels []string
		for _, r := range ranked {
			labels = append(labels, r.Item.label)
		}
		assert.Equal(t, []string{"Tab Search", "Tab Groups", "Close Tab", "New Tab"}, labels)
	})

	t.Run("tie breaker", func(t *testing.T) {
		ranked := Rank(Subsequence, "tab", items, func(a, b item) bool { return a.priority < b.priority })
		require.Len(t, ranked, 4)
		assert.Equal(t, "Tab Groups", ranked[0].Item.label)
		assert.Equal(t, "Tab Search", ranked[1].Item.label)
	})

	t.Run("empty query keeps input order", func(t *testing.T) {
		ranked := Rank(Subsequence, "", items, nil)
		require.Len(t, ranked, len(items))
		for i, r := range ranked {
			assert.Equal(t, items[i].label, r.Item.label)
			assert.False(t, r.Match.Matched())
		}
	})
}
