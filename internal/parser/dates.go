package parser

import "regexp"

// maxDates caps dates_found: past five distinct dates the rest is almost
// always line-item noise.
const maxDates = 5

// Date extraction is a union, not a cascade: every pattern contributes all of
// its matches, then duplicates are removed as a set. Order after dedup is
// unspecified.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}[./-]\d{1,2}[./-]\d{4})\b`),
	regexp.MustCompile(`\b(\d{4}[./-]\d{1,2}[./-]\d{1,2})\b`),
	regexp.MustCompile(`(?i)date\s*:?\s*(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`),
}

func extractDates(text string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, pat := range datePatterns {
		for _, m := range pat.FindAllStringSubmatch(text, -1) {
			d := m[1]
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
			if len(out) == maxDates {
				return out
			}
		}
	}
	return out
}
