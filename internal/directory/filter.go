package directory

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/samber/lo"

	"github.com/jwulff/f1grid/internal/openf1"
)

// Filter returns the drivers whose full name or team name contains query,
// ignoring case. An empty query returns dir itself. The result keeps the
// order of dir and dir is never modified.
func Filter(dir Directory, query string) Directory {
	if query == "" {
		return dir
	}
	q := strings.ToLower(query)
	return lo.Filter(dir, func(d openf1.Driver, _ int) bool {
		return strings.Contains(strings.ToLower(d.FullName), q) ||
			strings.Contains(strings.ToLower(d.TeamName), q)
	})
}

// Suggest proposes a search term close to query, for use when Filter finds
// nothing. Candidates are the full names, team names and their individual
// words. It returns "" when nothing is close enough.
func Suggest(dir Directory, query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(dir) == 0 {
		return ""
	}

	var candidates []string
	for _, d := range dir {
		candidates = append(candidates, d.FullName, d.TeamName)
		candidates = append(candidates, strings.Fields(d.FullName)...)
		candidates = append(candidates, strings.Fields(d.TeamName)...)
	}
	candidates = lo.Uniq(candidates)

	limit := max(2, len([]rune(q))/2)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(q, strings.ToLower(c))
		if dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}
