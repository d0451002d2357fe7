package parser

import (
	"regexp"
	"strings"

	"github.com/MohdAli056/invoice-processor-backend/internal/invoice"
)

// vendorScanLines bounds the header scan: the issuing company sits at the top
// of an invoice, and scanning further just picks up line items.
const vendorScanLines = 10

var legalSuffixes = []string{"GMBH", "LLC", "INC", "LTD", "CORP", "PLC", "S.A.", "AG "}

var (
	reEmail       = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	rePhone       = regexp.MustCompile(`\+?\d[\d \t()\-.]{7,}\d`)
	reDigitLead   = regexp.MustCompile(`^\d`)
	reHeaderLabel = regexp.MustCompile(`(?i)^(invoice|total|sub\s*-?\s*total|amount|date|due|tax|vat|customer|bill|page|payment|description)\b`)
)

// applyVendorInfo fills the vendor block: name and address from the leading
// lines, email and phone from a single scan over the whole text.
func applyVendorInfo(rec *invoice.Record, text string) {
	lines := strings.Split(text, "\n")
	if len(lines) > vendorScanLines {
		lines = lines[:vendorScanLines]
	}

	nameIdx := -1
	fallbackIdx := -1
	for i, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if hasLegalSuffix(ln) {
			nameIdx = i
			break
		}
		if fallbackIdx < 0 && looksLikeName(ln) {
			fallbackIdx = i
		}
	}
	if nameIdx < 0 {
		nameIdx = fallbackIdx
	}
	if nameIdx >= 0 {
		name := strings.TrimSpace(lines[nameIdx])
		rec.VendorName = &name
		if addr := addressAfter(lines, nameIdx); addr != "" {
			rec.VendorAddress = &addr
		}
	}

	if m := reEmail.FindString(text); m != "" {
		rec.VendorEmail = &m
	}
	if m := phoneCandidate(text); m != "" {
		rec.VendorPhone = &m
	}
}

func hasLegalSuffix(line string) bool {
	up := strings.ToUpper(line) + " "
	for _, s := range legalSuffixes {
		if strings.Contains(up, s) {
			return true
		}
	}
	return false
}

// looksLikeName accepts a multi-token line that is neither a numeric header
// nor an obvious field label.
func looksLikeName(line string) bool {
	return !reDigitLead.MatchString(line) &&
		!reHeaderLabel.MatchString(line) &&
		len(strings.Fields(line)) >= 2
}

// addressAfter returns the line following the vendor name when it reads like
// a street address (contains a digit, is not a labelled field).
func addressAfter(lines []string, nameIdx int) string {
	for i := nameIdx + 1; i < len(lines); i++ {
		ln := strings.TrimSpace(lines[i])
		if ln == "" {
			continue
		}
		if reHeaderLabel.MatchString(ln) || reEmail.MatchString(ln) {
			return ""
		}
		if strings.ContainsAny(ln, "0123456789") {
			return ln
		}
		return ""
	}
	return ""
}

// phoneCandidate finds the first phone-shaped run with enough digits that a
// date or amount cannot satisfy it.
func phoneCandidate(text string) string {
	for _, m := range rePhone.FindAllString(text, -1) {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 9 {
			return strings.TrimSpace(m)
		}
	}
	return ""
}
