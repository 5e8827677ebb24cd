package util

import "strings"

// SplitSymbols parses a comma or whitespace separated symbol list. Symbols are
// upper-cased and deduplicated, keeping first-seen order.
func SplitSymbols(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == ';'
	})
	return NormalizeSymbols(fields)
}

// NormalizeSymbols trims, upper-cases and deduplicates symbols.
func NormalizeSymbols(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
