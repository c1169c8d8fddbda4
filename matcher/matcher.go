// Package matcher ranks scan records against a query string using a
// longest-common-subsequence similarity ratio. Scoring is pure string work
// over the in-memory record set; it never touches the filesystem.
package matcher

import (
	"errors"
	"math"
	"sort"
	"strings"

	"dirscout/scanner"
)

var (
	ErrInvalidCutoff = errors.New("cutoff must be within [0, 1]")
	ErrInvalidLimit  = errors.New("limit must not be negative")
)

// Strategy selects the candidate string a record is scored on.
type Strategy string

const (
	// StrategyBasename scores the query against the record's basename.
	StrategyBasename Strategy = "basename"
	// StrategyPath scores against the full path. Explicit opt-in; it is
	// not mixed into the default ranking.
	StrategyPath Strategy = "path"
)

type Options struct {
	// Cutoff excludes candidates scoring strictly below it.
	Cutoff float64
	// Limit caps the result length; 0 yields an empty result.
	Limit    int
	Strategy Strategy
}

// Match pairs a normalized similarity score in [0, 1] with its record.
type Match struct {
	Score  float64            `json:"score"`
	Record scanner.PathRecord `json:"record"`
}

// Rank scores every record against query and returns the survivors ordered
// by score descending, ties broken by shorter path then path string, capped
// at Limit. Parameter errors are reported before any scoring work.
func Rank(query string, records []scanner.PathRecord, opts Options) ([]Match, error) {
	if math.IsNaN(opts.Cutoff) || opts.Cutoff < 0 || opts.Cutoff > 1 {
		return nil, ErrInvalidCutoff
	}
	if opts.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	if opts.Limit == 0 || len(records) == 0 {
		return []Match{}, nil
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyBasename
	}

	q := []rune(strings.ToLower(query))
	matches := make([]Match, 0, len(records))
	for i := range records {
		candidate := records[i].Name
		if strategy == StrategyPath {
			candidate = records[i].Path
		}
		score := Ratio(q, []rune(strings.ToLower(candidate)))
		if score < opts.Cutoff {
			continue
		}
		matches = append(matches, Match{Score: score, Record: records[i]})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		pi, pj := matches[i].Record.Path, matches[j].Record.Path
		if len(pi) != len(pj) {
			return len(pi) < len(pj)
		}
		return pi < pj
	})

	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

// Ratio is the similarity of two rune sequences: twice the length of their
// longest common subsequence over the sum of their lengths. Equal sequences
// score 1.0; an empty sequence on either side scores 0.
func Ratio(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	lcs := lcsLength(a, b)
	return 2 * float64(lcs) / float64(len(a)+len(b))
}

// lcsLength is the classic two-row dynamic program.
func lcsLength(a, b []rune) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := 1; i <= len(b); i++ {
		for j := 1; j <= len(a); j++ {
			if b[i-1] == a[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}
