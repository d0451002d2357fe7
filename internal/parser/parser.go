// Package parser builds a best-effort invoice record from OCR text with an
// ordered cascade of patterns per semantic field. Extraction is a pure
// function of the text: no network, no files, no state between calls.
package parser

import (
	"strings"

	"github.com/MohdAli056/invoice-processor-backend/internal/invoice"
)

// Extract runs every field cascade over the text and returns a complete
// record. A field whose cascade never matches stays nil; a miss on one field
// never affects another.
func Extract(text string) invoice.Record {
	var rec invoice.Record

	slots := map[string]**string{
		"invoice_number":  &rec.InvoiceNumber,
		"customer_number": &rec.CustomerNumber,
		"customer_name":   &rec.CustomerName,
		"po_number":       &rec.PONumber,
		"vat_number":      &rec.VATNumber,
		"total_amount":    &rec.TotalAmount,
		"subtotal":        &rec.Subtotal,
		"tax_amount":      &rec.TaxAmount,
		"currency":        &rec.Currency,
		"invoice_date":    &rec.InvoiceDate,
		"due_date":        &rec.DueDate,
		"payment_terms":   &rec.PaymentTerms,
		"description":     &rec.Description,
	}

	for _, rule := range fieldRules {
		slot, ok := slots[rule.field]
		if !ok {
			continue
		}
		for _, pat := range rule.patterns {
			m := pat.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			v := strings.TrimSpace(m[1])
			if rule.clean != nil {
				v = rule.clean(v)
			}
			if v != "" {
				*slot = &v
			}
			break // first matching pattern wins; the rest are never tried
		}
	}

	applyVendorInfo(&rec, text)
	rec.DatesFound = extractDates(text)
	return rec
}

// cleanLine trims a free-text capture down to something presentable.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,;:")
	return strings.TrimSpace(s)
}
