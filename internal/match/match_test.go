package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"classic kitten sitting", "KITTEN", "SITTING", 3},
		{"identical", "ABC123", "ABC123", 0},
		{"empty both", "", "", 0},
		{"empty left", "", "ABC", 3},
		{"empty right", "ABC", "", 3},
		{"single substitution", "ABC123", "ABD123", 1},
		{"single insertion", "ABC123", "ABC1234", 1},
		{"completely different", "AAA", "BBB", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"KITTEN", "SITTING"},
		{"ABC123", "XYZ789"},
		{"", "PLATE"},
		{"AB12", "AB12CD"},
	}
	for _, pair := range pairs {
		assert.Equal(t, Distance(pair[0], pair[1]), Distance(pair[1], pair[0]),
			"distance(%q, %q) must be symmetric", pair[0], pair[1])
	}
}

func TestSimilarity(t *testing.T) {
	t.Run("identical strings score 1", func(t *testing.T) {
		for _, s := range []string{"", "A", "ABC123", "ZZZZZZZZZZ"} {
			assert.Equal(t, 1.0, Similarity(s, s))
		}
	})

	t.Run("one empty string scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Similarity("", "ABC"))
		assert.Equal(t, 0.0, Similarity("ABC", ""))
	})

	t.Run("normalized inverse of distance", func(t *testing.T) {
		// distance("ABC", "ABD") == 1, max len 3
		assert.InDelta(t, 1.0-1.0/3.0, Similarity("ABC", "ABD"), 1e-9)
	})

	t.Run("bounded to [0,1]", func(t *testing.T) {
		pairs := [][2]string{
			{"ABC123", "XYZ789"},
			{"A", "ZZZZZZZZZZ"},
			{"SAME", "SAME"},
			{"", "X"},
		}
		for _, pair := range pairs {
			score := Similarity(pair[0], pair[1])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})

	t.Run("closer strings score higher", func(t *testing.T) {
		assert.Greater(t, Similarity("ABC123", "ABC124"), Similarity("ABC123", "ABC999"))
	})
}

func TestNormalizeLicensePlate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"abc-123", "ABC123"},
		{"  AB 12 CD  ", "AB12CD"},
		{"a1-b2_c3!", "A1B2C3"},
		{"", ""},
		{"---", ""},
		{"ABC123", "ABC123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLicensePlate(tt.raw))
	}
}

func TestNormalizeLicensePlateIdempotent(t *testing.T) {
	for _, raw := range []string{"abc-123", "AB 12", "##", "x9y8z7"} {
		once := NormalizeLicensePlate(raw)
		assert.Equal(t, once, NormalizeLicensePlate(once))
	}
}

func TestValidateSearchTerm(t *testing.T) {
	t.Run("empty term", func(t *testing.T) {
		result := ValidateSearchTerm("")
		require.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "Search term cannot be empty")
		assert.Empty(t, result.Normalized)
	})

	t.Run("whitespace only", func(t *testing.T) {
		result := ValidateSearchTerm("   ")
		require.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "Search term cannot be empty")
	})

	t.Run("too long", func(t *testing.T) {
		result := ValidateSearchTerm("ABCDEFGHIJ-ABCDEFGHIJ")
		require.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "Search term is too long (max 20 characters)")
	})

	t.Run("invalid characters", func(t *testing.T) {
		for _, term := range []string{"AB*12", "AB_12", "AB!12", "плита"} {
			result := ValidateSearchTerm(term)
			require.False(t, result.IsValid, "term %q should be invalid", term)
			assert.Contains(t, result.Errors, "Search term contains invalid characters")
		}
	})

	t.Run("valid term is normalized", func(t *testing.T) {
		result := ValidateSearchTerm("ab-12 cd")
		require.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
		assert.Equal(t, "AB12CD", result.Normalized)
	})

	t.Run("boundary length is valid", func(t *testing.T) {
		result := ValidateSearchTerm("ABCDEFGHIJ1234567890")
		assert.True(t, result.IsValid)
	})
}

func TestFindFuzzyMatches(t *testing.T) {
	candidates := []string{"ABC123", "ABC999", "XABC12", "ZZZ000", ""}

	t.Run("tiered scoring", func(t *testing.T) {
		matches := FindFuzzyMatches("ABC123", candidates, FuzzyOptions{Threshold: 0.1, MaxResults: 10})
		require.NotEmpty(t, matches)
		assert.Equal(t, "ABC123", matches[0].Value)
		assert.Equal(t, 1.0, matches[0].Score)

		byValue := map[string]float64{}
		for _, m := range matches {
			byValue[m.Value] = m.Score
		}
		// ABC999 does not start with or contain ABC123; pure similarity.
		assert.InDelta(t, 0.5, byValue["ABC999"], 1e-9)
	})

	t.Run("prefix scores 0.9 and contains 0.8", func(t *testing.T) {
		matches := FindFuzzyMatches("ABC", candidates, FuzzyOptions{Threshold: 0.6, MaxResults: 10})
		byValue := map[string]float64{}
		for _, m := range matches {
			byValue[m.Value] = m.Score
		}
		assert.Equal(t, 0.9, byValue["ABC123"])
		assert.Equal(t, 0.9, byValue["ABC999"])
		assert.Equal(t, 0.8, byValue["XABC12"])
	})

	t.Run("threshold drops low scores", func(t *testing.T) {
		matches := FindFuzzyMatches("ABC", candidates, FuzzyOptions{Threshold: 0.85, MaxResults: 10})
		for _, m := range matches {
			assert.GreaterOrEqual(t, m.Score, 0.85)
		}
	})

	t.Run("max results truncation", func(t *testing.T) {
		matches := FindFuzzyMatches("ABC", candidates, FuzzyOptions{Threshold: 0.1, MaxResults: 2})
		assert.Len(t, matches, 2)
	})

	t.Run("empty candidates are skipped", func(t *testing.T) {
		matches := FindFuzzyMatches("ABC", []string{"", "", "ABC"}, FuzzyOptions{Threshold: 0.1, MaxResults: 10})
		require.Len(t, matches, 1)
		assert.Equal(t, "ABC", matches[0].Value)
	})

	t.Run("exact first keeps score-1 candidates ahead", func(t *testing.T) {
		matches := FindFuzzyMatches("AB12", []string{"AB123", "AB12", "ab12"}, FuzzyOptions{
			Threshold:  0.1,
			MaxResults: 10,
			ExactFirst: true,
		})
		require.Len(t, matches, 3)
		assert.Equal(t, 1.0, matches[0].Score)
		assert.Equal(t, 1.0, matches[1].Score)
		assert.Equal(t, 0.9, matches[2].Score)
	})

	t.Run("case insensitive equality", func(t *testing.T) {
		matches := FindFuzzyMatches("ab12cd", []string{"AB12CD"}, FuzzyOptions{Threshold: 0.5, MaxResults: 10})
		require.Len(t, matches, 1)
		assert.Equal(t, 1.0, matches[0].Score)
	})
}

func TestSearchLicensePlates(t *testing.T) {
	t.Run("all mode ranks prefix above contains", func(t *testing.T) {
		matches := SearchLicensePlates("ABC", []string{"ABC123", "XABC9", "ZZZ000"}, Options{
			Mode:       ModeAll,
			Threshold:  0.6,
			MaxResults: 10,
		})
		require.Len(t, matches, 2)
		assert.Equal(t, "ABC123", matches[0].Plate)
		assert.Equal(t, 0.9, matches[0].Score)
		assert.Equal(t, MatchPartial, matches[0].Type)
		assert.Equal(t, "XABC9", matches[1].Plate)
		assert.Equal(t, 0.8, matches[1].Score)
	})

	t.Run("exact mode", func(t *testing.T) {
		matches := SearchLicensePlates("AB1234", []string{"AB1234", "AB1235", "XAB1234"}, Options{
			Mode:       ModeExact,
			Threshold:  0.6,
			MaxResults: 10,
		})
		require.Len(t, matches, 1)
		assert.Equal(t, "AB1234", matches[0].Plate)
		assert.Equal(t, 1.0, matches[0].Score)
		assert.Equal(t, MatchExact, matches[0].Type)
	})

	t.Run("exact mode matches always score 1", func(t *testing.T) {
		matches := SearchLicensePlates("ab1234", []string{"AB1234", "ab1234"}, Options{
			Mode:       ModeExact,
			MaxResults: 10,
		})
		require.Len(t, matches, 2)
		for _, m := range matches {
			assert.Equal(t, 1.0, m.Score)
			assert.Equal(t, MatchExact, m.Type)
		}
	})

	t.Run("partial mode only", func(t *testing.T) {
		matches := SearchLicensePlates("BC1", []string{"ABC123", "BC100", "XXX"}, Options{
			Mode:       ModePartial,
			MaxResults: 10,
		})
		require.Len(t, matches, 2)
		assert.Equal(t, "BC100", matches[0].Plate) // starts with, 0.9
		assert.Equal(t, "ABC123", matches[1].Plate)
		assert.Equal(t, 0.8, matches[1].Score)
	})

	t.Run("fuzzy mode respects threshold", func(t *testing.T) {
		matches := SearchLicensePlates("ABC123", []string{"ABD124", "ZZZZZZ"}, Options{
			Mode:       ModeFuzzy,
			Threshold:  0.6,
			MaxResults: 10,
		})
		require.Len(t, matches, 1)
		assert.Equal(t, "ABD124", matches[0].Plate)
		assert.Equal(t, MatchFuzzy, matches[0].Type)
		assert.InDelta(t, 1.0-2.0/6.0, matches[0].Score, 1e-9)
	})

	t.Run("all mode reports each plate at most once", func(t *testing.T) {
		// ABC123 qualifies as exact, partial and fuzzy; it must appear only
		// once, under the exact strategy.
		matches := SearchLicensePlates("ABC123", []string{"ABC123"}, Options{
			Mode:       ModeAll,
			Threshold:  0.1,
			MaxResults: 10,
		})
		require.Len(t, matches, 1)
		assert.Equal(t, MatchExact, matches[0].Type)
		assert.Equal(t, 1.0, matches[0].Score)
	})

	t.Run("ordering is type priority then score", func(t *testing.T) {
		matches := SearchLicensePlates("ABC123", []string{"ABD124", "XABC123X", "ABC123"}, Options{
			Mode:       ModeAll,
			Threshold:  0.5,
			MaxResults: 10,
		})
		require.Len(t, matches, 3)
		assert.Equal(t, MatchExact, matches[0].Type)
		assert.Equal(t, MatchPartial, matches[1].Type)
		assert.Equal(t, MatchFuzzy, matches[2].Type)

		for i := 1; i < len(matches); i++ {
			if matches[i-1].Type == matches[i].Type {
				assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
			} else {
				assert.Less(t, matches[i-1].Type, matches[i].Type)
			}
		}
	})

	t.Run("max results truncation", func(t *testing.T) {
		plates := []string{"AB1", "AB2", "AB3", "AB4", "AB5"}
		matches := SearchLicensePlates("AB", plates, Options{Mode: ModeAll, Threshold: 0.6, MaxResults: 3})
		assert.Len(t, matches, 3)
	})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		raw  string
		want Mode
	}{
		{"", ModeAll},
		{"all", ModeAll},
		{"exact", ModeExact},
		{"Partial", ModePartial},
		{" FUZZY ", ModeFuzzy},
	}
	for _, tt := range tests {
		mode, err := ParseMode(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, mode)
	}

	_, err := ParseMode("phonetic")
	assert.Error(t, err)
}

func TestHighlight(t *testing.T) {
	t.Run("middle match", func(t *testing.T) {
		h := Highlight("BC1", "ABC123")
		assert.True(t, h.Found)
		assert.Equal(t, "A", h.Prefix)
		assert.Equal(t, "BC1", h.Match)
		assert.Equal(t, "23", h.Suffix)
	})

	t.Run("case insensitive", func(t *testing.T) {
		h := Highlight("abc", "ABC123")
		assert.True(t, h.Found)
		assert.Equal(t, "ABC", h.Match)
	})

	t.Run("no match", func(t *testing.T) {
		h := Highlight("ZZZ", "ABC123")
		assert.False(t, h.Found)
		assert.Equal(t, "ABC123", h.Prefix)
		assert.Empty(t, h.Match)
	})

	t.Run("empty search", func(t *testing.T) {
		h := Highlight("", "ABC123")
		assert.False(t, h.Found)
		assert.Equal(t, "ABC123", h.Prefix)
	})
}
