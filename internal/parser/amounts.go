package parser

import "strings"

// digitShapeFixes maps letters tesseract confuses for digits. Applied ONLY
// inside numeric captures; running this over free text corrupts valid words.
var digitShapeFixes = strings.NewReplacer(
	"O", "0",
	"o", "0",
	"l", "1",
	"I", "1",
	"S", "5",
	"B", "8",
)

// normalizeAmount turns a captured amount into a currency-prefixed figure:
// thousands separators stripped, currency symbol re-attached in front.
// "1,234.56" with a leading "$" becomes "$1234.56".
func normalizeAmount(raw string) string {
	raw = strings.TrimSpace(raw)

	sym := ""
	for _, s := range []string{"€", "$", "£", "¥"} {
		if strings.Contains(raw, s) {
			sym = s
			break
		}
	}

	fixed := digitShapeFixes.Replace(raw)
	var b strings.Builder
	for _, r := range fixed {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	num := strings.Trim(b.String(), ".")
	if num == "" {
		return ""
	}
	return sym + num
}
