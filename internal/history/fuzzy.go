package history

import "strings"

// FuzzyScore implements spec.md §4.6's scoring: exact equality scores
// 1000, a prefix match 500, a substring match 200; otherwise every query
// character must appear in order in the candidate (+10 per match, +5 for
// a consecutive run, +10 at a word boundary), and any unmatched query
// character disqualifies the candidate (score 0). Matching is
// case-insensitive, grounded on fuzzy.rs's fuzzy_score.
func FuzzyScore(query, candidate string) int {
	if query == "" {
		return 0
	}
	q := strings.ToLower(query)
	c := strings.ToLower(candidate)

	if c == q {
		return 1000
	}
	if strings.HasPrefix(c, q) {
		return 500
	}
	if strings.Contains(c, q) {
		return 200
	}
	return fuzzyCharScore(q, c)
}

func fuzzyCharScore(query, candidate string) int {
	qr := []rune(query)
	cr := []rune(candidate)

	score := 0
	qi := 0
	lastMatch := -1

	for ci := 0; ci < len(cr) && qi < len(qr); ci++ {
		if cr[ci] != qr[qi] {
			continue
		}
		score += 10
		if lastMatch >= 0 && lastMatch == ci-1 {
			score += 5
		}
		if ci == 0 || isWordBoundary(cr[ci-1]) {
			score += 10
		}
		lastMatch = ci
		qi++
	}

	if qi < len(qr) {
		return 0
	}
	return score
}

func isWordBoundary(r rune) bool {
	return r == '/' || r == ' ' || r == '_' || r == '-'
}

// FuzzyResult pairs an entry with its computed score.
type FuzzyResult struct {
	Entry Entry
	Score int
}

// FuzzySearch scores every entry against query and returns up to limit
// results, highest score first, deduplicated by command text (keeping the
// highest-scored occurrence), per smart_history.rs's search().
func (h *History) FuzzySearch(query string, limit int) []FuzzyResult {
	h.mu.Lock()
	entries := make([]Entry, len(h.entries))
	copy(entries, h.entries)
	h.mu.Unlock()

	var results []FuzzyResult
	seen := make(map[string]int) // command -> index in results
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		score := FuzzyScore(query, e.Command)
		if score == 0 {
			continue
		}
		if idx, ok := seen[e.Command]; ok {
			if score > results[idx].Score {
				results[idx] = FuzzyResult{Entry: e, Score: score}
			}
			continue
		}
		seen[e.Command] = len(results)
		results = append(results, FuzzyResult{Entry: e, Score: score})
	}

	sortFuzzyResults(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func sortFuzzyResults(r []FuzzyResult) {
	for i := 1; i < len(r); i++ {
		j := i
		for j > 0 && r[j].Score > r[j-1].Score {
			r[j], r[j-1] = r[j-1], r[j]
			j--
		}
	}
}
