package domain

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultSearchLimit caps SearchName results when the caller passes no limit.
const DefaultSearchLimit = 10

// SearchResult is a storm matched by name with a similarity score in [0, 1].
type SearchResult struct {
	Storm *Storm
	Score float64
}

// SearchName finds storms by name. Exact matches, ignoring case, win outright.
// Otherwise names sharing the query's first letter are scored by edit
// distance, falling back to every name when none share it.
func (r *Record) SearchName(name string, limit int) []SearchResult {
	query := strings.ToUpper(strings.TrimSpace(name))
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var results []SearchResult
	for _, st := range r.storms {
		if st.name == query {
			results = append(results, SearchResult{Storm: st, Score: 1})
		}
	}

	if len(results) == 0 {
		var candidates []*Storm
		for _, st := range r.storms {
			if st.Named() && st.name[0] == query[0] {
				candidates = append(candidates, st)
			}
		}
		if len(candidates) == 0 {
			for _, st := range r.storms {
				if st.Named() {
					candidates = append(candidates, st)
				}
			}
		}
		for _, st := range candidates {
			results = append(results, SearchResult{Storm: st, Score: similarity(query, st.name)})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Storm.id < results[j].Storm.id
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
