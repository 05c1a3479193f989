package match

import "strings"

// ValidationResult is the outcome of ValidateSearchTerm. Normalized is set
// only when IsValid is true.
type ValidationResult struct {
	IsValid    bool     `json:"is_valid"`
	Errors     []string `json:"errors,omitempty"`
	Normalized string   `json:"normalized,omitempty"`
}

// ValidateSearchTerm checks a raw user supplied search term. Validation
// failures are reported as structured errors, never panics: an empty term, a
// trimmed length over 20 characters, or characters outside letters, digits,
// spaces and hyphens all fail.
func ValidateSearchTerm(input string) ValidationResult {
	trimmed := strings.TrimSpace(input)

	var errs []string
	if trimmed == "" {
		errs = append(errs, "Search term cannot be empty")
	} else {
		if len(trimmed) > maxSearchTermLength {
			errs = append(errs, "Search term is too long (max 20 characters)")
		}
		if !isValidSearchTerm(trimmed) {
			errs = append(errs, "Search term contains invalid characters")
		}
	}

	if len(errs) > 0 {
		return ValidationResult{IsValid: false, Errors: errs}
	}

	return ValidationResult{IsValid: true, Normalized: NormalizeLicensePlate(trimmed)}
}

func isValidSearchTerm(term string) bool {
	for i := 0; i < len(term); i++ {
		c := term[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == ' ' || c == '-':
		default:
			return false
		}
	}
	return true
}

// NormalizeLicensePlate reduces a raw plate to its canonical form: uppercase
// with every non alphanumeric character removed. It is total and idempotent.
func NormalizeLicensePlate(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'A' && c <= 'Z' || c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	return b.String()
}

// Highlighted is a candidate split around a matched fragment.
type Highlighted struct {
	Prefix string `json:"prefix"`
	Match  string `json:"match"`
	Suffix string `json:"suffix"`
	Found  bool   `json:"found"`
}

// Highlight splits candidate around the first case-insensitive occurrence of
// search so callers can emphasize the matched fragment. Found is false when
// search is empty or does not occur in candidate; the full candidate is then
// returned as Prefix.
func Highlight(search, candidate string) Highlighted {
	if search == "" {
		return Highlighted{Prefix: candidate}
	}
	idx := strings.Index(strings.ToUpper(candidate), strings.ToUpper(search))
	if idx < 0 {
		return Highlighted{Prefix: candidate}
	}
	end := idx + len(search)
	return Highlighted{
		Prefix: candidate[:idx],
		Match:  candidate[idx:end],
		Suffix: candidate[end:],
		Found:  true,
	}
}
