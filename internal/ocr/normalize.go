package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF     = regexp.MustCompile(`\r\n?`)
	reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)
)

// CleanText removes line noise from raw tesseract output. Lines under 2
// characters are dropped and intra-line whitespace is collapsed, but lines
// are never reordered or deduplicated: positional heuristics downstream
// (vendor name near the top, first-occurrence-wins fields) depend on order.
func CleanText(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reBoxNoise.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if len(ln) < 2 {
			continue
		}
		cleaned = append(cleaned, ln)
	}
	return strings.Join(cleaned, "\n")
}
