package utils

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics so "José" matches "jose"
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// MatchScore compares a query with one candidate field, lower is better:
// 0 exact, 1 prefix, 2 substring, then 3 plus the edit distance
func MatchScore(query, candidate string) int {
	q, c := Fold(query), Fold(candidate)
	switch {
	case q == c:
		return 0
	case strings.HasPrefix(c, q):
		return 1
	case strings.Contains(c, q):
		return 2
	}
	return 3 + levenshtein.ComputeDistance(q, c)
}

// RankByRelevance sorts items by their best MatchScore over fields(item).
// The sort is stable so equally relevant items keep their input order.
func RankByRelevance[T any](query string, items []T, fields func(T) []string) []T {
	scores := make([]int, len(items))
	for i, item := range items {
		best := -1
		for _, f := range fields(item) {
			if f == "" {
				continue
			}
			if s := MatchScore(query, f); best < 0 || s < best {
				best = s
			}
		}
		if best < 0 {
			best = int(^uint(0) >> 1)
		}
		scores[i] = best
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})

	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	return sorted
}
