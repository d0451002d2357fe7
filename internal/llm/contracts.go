package llm

import (
	"context"

	"github.com/MohdAli056/invoice-processor-backend/internal/invoice"
)

// Fields is the exact JSON object the vision model must return: twelve keys,
// each a string or explicit null, plus the dates array.
type Fields struct {
	VendorName    *string  `json:"vendor_name"`
	VendorEmail   *string  `json:"vendor_email"`
	VendorPhone   *string  `json:"vendor_phone"`
	InvoiceNumber *string  `json:"invoice_number"`
	InvoiceDate   *string  `json:"invoice_date"`
	PONumber      *string  `json:"po_number"`
	VATNumber     *string  `json:"vat_number"`
	TotalAmount   *string  `json:"total_amount"`
	Subtotal      *string  `json:"subtotal"`
	TaxAmount     *string  `json:"tax_amount"`
	PaymentTerms  *string  `json:"payment_terms"`
	DatesFound    []string `json:"dates_found"`
}

// ToRecord maps the model's reply into the canonical record shape shared
// with the pattern path.
func (f Fields) ToRecord() invoice.Record {
	dates := f.DatesFound
	if dates == nil {
		dates = []string{}
	}
	return invoice.Record{
		VendorName:    f.VendorName,
		VendorEmail:   f.VendorEmail,
		VendorPhone:   f.VendorPhone,
		InvoiceNumber: f.InvoiceNumber,
		InvoiceDate:   f.InvoiceDate,
		PONumber:      f.PONumber,
		VATNumber:     f.VATNumber,
		TotalAmount:   f.TotalAmount,
		Subtotal:      f.Subtotal,
		TaxAmount:     f.TaxAmount,
		PaymentTerms:  f.PaymentTerms,
		DatesFound:    dates,
	}
}

// ImageExtractor is the hosted-model boundary: one page image in, fields out.
type ImageExtractor interface {
	ExtractImage(ctx context.Context, imagePath string) (Fields, error)
}
