package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	assert.Equal(t, 100, Score("sites", "sites"))
	assert.Equal(t, 100, Score("Sites", "SITES"))
	assert.Equal(t, 0, Score("", "sites"))
	assert.Equal(t, 0, Score("sites", ""))
	assert.Equal(t, 0, Score("xyz", "sites"))
	assert.Equal(t, 0, Score("sitesandmore", "sites"))

	partial := Score("site", "sites")
	assert.Greater(t, partial, 0)
	assert.Less(t, partial, 100)
}

func TestScoreOrdering(t *testing.T) {
	prefix := Score("dom", "domains")
	scattered := Score("dom", "dashboard-dataviews-view-plugins-mobile")
	assert.Greater(t, prefix, scattered)

	consecutive := Score("plug", "plugins")
	spread := Score("plug", "p-l-u-g")
	assert.Greater(t, consecutive, spread)
}

func TestRank(t *testing.T) {
	candidates := []string{"plugins", "sites", "site-settings", "domains"}

	ranked := Rank("site", candidates, 0)
	if assert.Len(t, ranked, 2) {
		assert.Equal(t, "sites", ranked[0].Text)
		assert.Equal(t, "site-settings", ranked[1].Text)
	}

	assert.Empty(t, Rank("zzz", candidates, 0))
	assert.Empty(t, Rank("site", candidates, 101))
}

func TestClosest(t *testing.T) {
	candidates := []string{"sites", "domains", "plugins"}

	tests := []struct {
		word string
		want string
		ok   bool
	}{
		{word: "site", want: "sites", ok: true},
		{word: "domain", want: "domains", ok: true},
		{word: "sties", want: "sites", ok: true},
		{word: "plugnis", want: "plugins", ok: true},
		{word: "invoices", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := Closest(tt.word, candidates)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, distance("abc", "abc"))
	assert.Equal(t, 1, distance("abc", "abd"))
	assert.Equal(t, 3, distance("", "abc"))
	assert.Equal(t, 2, distance("sties", "sites"))
}

func BenchmarkRank(b *testing.B) {
	candidates := []string{"sites", "domains", "plugins", "site-settings", "subscribers", "stats"}
	for i := 0; i < b.N; i++ {
		Rank("st", candidates, 0)
	}
}
