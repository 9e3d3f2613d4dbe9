// Package fuzzy ranks short identifiers (slugs, preference names) against
// what a user typed.
package fuzzy

import (
	"slices"
	"strings"
)

type Match struct {
	Text  string
	Score int
}

// Score rates how well pattern matches text as a case-insensitive
// subsequence, from 0 (no match) to 100 (equal).
func Score(pattern, text string) int {
	if pattern == "" || text == "" {
		return 0
	}

	p := []rune(strings.ToLower(pattern))
	t := []rune(strings.ToLower(text))

	if string(p) == string(t) {
		return 100
	}

	positions := subsequence(p, t)
	if positions == nil {
		return 0
	}

	score := 40 + 30*len(p)/len(t)

	if positions[0] == 0 {
		score += 10
	}

	run := longestRun(positions)
	score += 15 * run / len(p)

	for _, pos := range positions {
		if pos > 0 && isSeparator(t[pos-1]) {
			score += 2
		}
	}

	// matches packed at the front beat matches spread across the text
	span := positions[len(positions)-1] - positions[0] + 1
	score -= (span - len(p)) / 2

	return min(max(score, 1), 99)
}

// Rank scores every candidate and returns those at or above threshold, best
// first. Ties keep candidate order.
func Rank(pattern string, candidates []string, threshold int) []Match {
	var matches []Match
	for _, c := range candidates {
		if s := Score(pattern, c); s > 0 && s >= threshold {
			matches = append(matches, Match{Text: c, Score: s})
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return b.Score - a.Score
	})
	return matches
}

// Closest suggests the candidate a mistyped word most likely meant. It tries
// subsequence matching first and falls back to edit distance for typos.
func Closest(word string, candidates []string) (string, bool) {
	if ranked := Rank(word, candidates, 50); len(ranked) > 0 {
		return ranked[0].Text, true
	}

	best, bestDist := "", -1
	w := strings.ToLower(word)
	for _, c := range candidates {
		d := distance(w, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	// a swapped pair costs 2, beyond that a third of the word may be wrong
	if bestDist < 0 || bestDist > max(2, len([]rune(word))/3) {
		return "", false
	}
	return best, true
}

func subsequence(p, t []rune) []int {
	positions := make([]int, 0, len(p))
	j := 0
	for i := 0; i < len(t) && j < len(p); i++ {
		if t[i] == p[j] {
			positions = append(positions, i)
			j++
		}
	}
	if j < len(p) {
		return nil
	}
	return positions
}

func longestRun(positions []int) int {
	best, cur := 1, 1
	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			cur++
			best = max(best, cur)
		} else {
			cur = 1
		}
	}
	return best
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == ' ' || r == '/' || r == '.'
}

// Levenshtein distance over runes
func distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
