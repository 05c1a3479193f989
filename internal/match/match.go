// Package match implements the license plate matching primitives used by the
// search engine: Levenshtein distance, similarity scoring, tiered fuzzy
// ranking and search term validation. All functions are pure and safe for
// concurrent use.
package match

import (
	"fmt"
	"sort"
	"strings"
)

// Mode selects which scoring strategies apply during a plate search.
type Mode string

const (
	ModeExact   Mode = "exact"
	ModePartial Mode = "partial"
	ModeFuzzy   Mode = "fuzzy"
	ModeAll     Mode = "all"
)

// Tiered scores for non-fuzzy strategies.
const (
	scoreExact    = 1.0
	scorePrefix   = 0.9
	scoreContains = 0.8
)

const maxSearchTermLength = 20

// ParseMode decodes a mode string from the transport layer. Empty input
// defaults to ModeAll.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return ModeAll, nil
	case ModeExact:
		return ModeExact, nil
	case ModePartial:
		return ModePartial, nil
	case ModeFuzzy:
		return ModeFuzzy, nil
	case ModeAll:
		return ModeAll, nil
	default:
		return "", fmt.Errorf("unknown match mode %q", raw)
	}
}

// MatchType identifies the strategy that produced a match. Lower values have
// higher ranking priority.
type MatchType int

const (
	MatchExact MatchType = iota
	MatchPartial
	MatchFuzzy
)

func (t MatchType) String() string {
	switch t {
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// ScoredMatch is a single ranked plate match. Score is in [0, 1]; a MatchExact
// result always carries score 1.
type ScoredMatch struct {
	Plate string    `json:"plate"`
	Score float64   `json:"score"`
	Type  MatchType `json:"-"`
}

// Options controls SearchLicensePlates. Callers are expected to have bounded
// Threshold and MaxResults already; the matcher does not re-validate them.
type Options struct {
	Mode       Mode
	Threshold  float64
	MaxResults int
}

// Distance returns the Levenshtein edit distance between a and b: the minimum
// number of single character insertions, deletions and substitutions needed to
// transform a into b. Plates are at most a few characters, so the full
// O(len(a)*len(b)) table is fine.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	rows := len(b) + 1
	cols := len(a) + 1
	table := make([][]int, rows)
	for i := range table {
		table[i] = make([]int, cols)
		table[i][0] = i
	}
	for j := 1; j < cols; j++ {
		table[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if b[i-1] == a[j-1] {
				cost = 0
			}
			table[i][j] = min3(
				table[i-1][j]+1,      // deletion
				table[i][j-1]+1,      // insertion
				table[i-1][j-1]+cost, // substitution
			)
		}
	}

	return table[rows-1][cols-1]
}

// Similarity returns a normalized similarity score in [0, 1]. Identical
// strings score 1; if exactly one string is empty the score is 0; otherwise
// the score is 1 - distance/maxLen.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	return 1 - float64(Distance(a, b))/float64(maxLen)
}

// FuzzyMatch is a generic scored candidate produced by FindFuzzyMatches.
type FuzzyMatch struct {
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// FuzzyOptions controls FindFuzzyMatches.
type FuzzyOptions struct {
	Threshold  float64
	MaxResults int
	// ExactFirst forces all score-1 candidates ahead of every other
	// candidate, as a strict partition rather than a sort tiebreak.
	ExactFirst bool
}

// FindFuzzyMatches scores candidates against search using a tiered strategy:
// exact equality (1.0), prefix (0.9), substring (0.8), then Levenshtein
// similarity. Only the highest tier that fires is used for a candidate.
// Candidates below the threshold are dropped, the rest are sorted by score
// descending and truncated to MaxResults.
func FindFuzzyMatches(search string, candidates []string, opts FuzzyOptions) []FuzzyMatch {
	searchUpper := strings.ToUpper(search)

	matches := make([]FuzzyMatch, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}

		candidateUpper := strings.ToUpper(candidate)

		var score float64
		switch {
		case candidateUpper == searchUpper:
			score = scoreExact
		case strings.HasPrefix(candidateUpper, searchUpper):
			score = scorePrefix
		case strings.Contains(candidateUpper, searchUpper):
			score = scoreContains
		default:
			score = Similarity(searchUpper, candidateUpper)
		}

		if score < opts.Threshold {
			continue
		}
		matches = append(matches, FuzzyMatch{Value: candidate, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if opts.ExactFirst {
			iExact := matches[i].Score == scoreExact
			jExact := matches[j].Score == scoreExact
			if iExact != jExact {
				return iExact
			}
		}
		return matches[i].Score > matches[j].Score
	})

	if opts.MaxResults > 0 && len(matches) > opts.MaxResults {
		matches = matches[:opts.MaxResults]
	}

	return matches
}

// SearchLicensePlates scores plates against search according to opts.Mode.
//
// In ModeAll each plate contributes at most one match: strategies are tried in
// priority order (exact, then partial, then fuzzy) and the first one that
// fires wins. Results are ordered by match type priority first, then score
// descending, and truncated to opts.MaxResults.
func SearchLicensePlates(search string, plates []string, opts Options) []ScoredMatch {
	searchUpper := strings.ToUpper(search)

	matches := make([]ScoredMatch, 0, len(plates))
	for _, plate := range plates {
		if plate == "" {
			continue
		}

		plateUpper := strings.ToUpper(plate)

		if opts.Mode == ModeExact || opts.Mode == ModeAll {
			if plateUpper == searchUpper {
				matches = append(matches, ScoredMatch{Plate: plate, Score: scoreExact, Type: MatchExact})
				continue
			}
			if opts.Mode == ModeExact {
				continue
			}
		}

		if opts.Mode == ModePartial || opts.Mode == ModeAll {
			if strings.Contains(plateUpper, searchUpper) {
				score := scoreContains
				if strings.HasPrefix(plateUpper, searchUpper) {
					score = scorePrefix
				}
				matches = append(matches, ScoredMatch{Plate: plate, Score: score, Type: MatchPartial})
				continue
			}
			if opts.Mode == ModePartial {
				continue
			}
		}

		if opts.Mode == ModeFuzzy || opts.Mode == ModeAll {
			if score := Similarity(searchUpper, plateUpper); score >= opts.Threshold {
				matches = append(matches, ScoredMatch{Plate: plate, Score: score, Type: MatchFuzzy})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Type != matches[j].Type {
			return matches[i].Type < matches[j].Type
		}
		return matches[i].Score > matches[j].Score
	})

	if opts.MaxResults > 0 && len(matches) > opts.MaxResults {
		matches = matches[:opts.MaxResults]
	}

	return matches
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
