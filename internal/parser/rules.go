package parser

import "regexp"

// Each semantic field owns an ordered pattern cascade: most specific,
// labelled form first. The first pattern that matches anywhere in the text
// wins and the rest of the cascade is never tried. Fields are independent of
// each other.
type fieldRule struct {
	field    string
	patterns []*regexp.Regexp
	clean    func(string) string
}

// dateToken matches the date layouts invoices actually use; two-digit years
// included because OCR often eats leading century digits.
const dateToken = `\d{1,2}[./-]\d{1,2}[./-]\d{2,4}|\d{4}[./-]\d{1,2}[./-]\d{1,2}`

// amountToken requires a digit-led figure with optional currency symbol.
// Amount rules anchor it to a labelling keyword or a currency symbol so a
// date or identifier is never misread as an amount.
const amountToken = `([€$£¥]?\s*\d[\d,.]*\d|[€$£¥]\s*\d)`

var fieldRules = []fieldRule{
	{
		field: "invoice_number",
		patterns: compile(
			`(?i)invoice\s*(?:no\.?|number|#)\s*:?\s*([A-Z0-9][A-Z0-9\-_/]*)`,
			`(?i)invoice\s+#?\s*([A-Z0-9][A-Z0-9\-_/]{2,})`,
			`(?i)\binv[-_]?(\d+)`,
			`#\s*([A-Za-z0-9][A-Za-z0-9\-_/]*)`,
		),
	},
	{
		field: "customer_number",
		patterns: compile(
			`(?i)customer\s*(?:no\.?|number|#)\s*:?\s*([A-Z0-9][A-Z0-9\-_/]*)`,
			`(?i)\bcust\.?\s*(?:no\.?|#)?\s*:?\s*(\d[A-Z0-9\-_/]*)`,
		),
	},
	{
		field: "customer_name",
		patterns: compile(
			`(?i)(?:bill(?:ed)?\s*to|sold\s*to)\s*:\s*([^\n]+)`,
			`(?i)customer\s*name\s*:\s*([^\n]+)`,
		),
		clean: cleanLine,
	},
	{
		field: "po_number",
		patterns: compile(
			`(?i)(?:p\.?o\.?|purchase\s*order)\s*(?:no\.?|number)?\s*:?\s*#?\s*([A-Z0-9][A-Z0-9\-_/]*)`,
		),
	},
	{
		field: "vat_number",
		patterns: compile(
			`(?i)vat\s*(?:no\.?|number|id|reg\.?(?:\s*no\.?)?)?\s*:?\s*([A-Z]{0,2}\s?\d[A-Z0-9]*)`,
			`(?i)tax\s*(?:id|no\.?|number)\s*:?\s*([A-Z0-9][A-Z0-9\-]*)`,
		),
	},
	{
		field: "total_amount",
		patterns: compile(
			`(?i)\b(?:grand\s*total|total\s*due|amount\s*due|balance\s*due|total\s*amount|total)\b\s*:?\s*`+amountToken,
			`(?i)\b(?:amount|sum)\b\s*:?\s*([€$£¥]\s*\d[\d,.]*)`,
			`(?i)([€$£¥]\s*\d[\d,.]*)\s*total\b`,
		),
		clean: normalizeAmount,
	},
	{
		field: "subtotal",
		patterns: compile(
			`(?i)\bsub\s*-?\s*total\b\s*:?\s*`+amountToken,
			`(?i)\bnet\s*(?:amount|total)\b\s*:?\s*`+amountToken,
		),
		clean: normalizeAmount,
	},
	{
		field: "tax_amount",
		patterns: compile(
			`(?i)\b(?:vat|tax|mwst\.?|sales\s*tax)\b\s*(?:\(?\d{1,2}(?:[.,]\d+)?\s*%\)?)?\s*:?\s*`+amountToken,
		),
		clean: normalizeAmount,
	},
	{
		field: "currency",
		patterns: compile(
			`(?i)currency\s*:?\s*([A-Z]{3})\b`,
			`\b(USD|EUR|GBP|CAD|AUD|CHF|JPY|INR)\b`,
			`([€$£¥])`,
		),
	},
	{
		field: "invoice_date",
		patterns: compile(
			`(?i)(?:invoice\s*date|date\s*of\s*issue|issue\s*date)\s*:?\s*(`+dateToken+`)`,
			`(?mi)^\s*date\s*:?\s*(`+dateToken+`)`,
		),
	},
	{
		field: "due_date",
		patterns: compile(
			`(?i)(?:due\s*date|payment\s*due|due\s*by)\s*:?\s*(` + dateToken + `)`,
		),
	},
	{
		field: "payment_terms",
		patterns: compile(
			`(?i)(?:payment\s*terms|terms\s*of\s*payment)\s*:?\s*([^\n]+)`,
			`(?i)\b(net\s*\d{1,3})\b`,
			`(?i)\b(due\s*(?:on|upon)\s*receipt)\b`,
		),
		clean: cleanLine,
	},
	{
		field: "description",
		patterns: compile(
			`(?i)description\s*:\s*([^\n]+)`,
			`(?i)\bre\s*:\s*([^\n]+)`,
		),
		clean: cleanLine,
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}
