package invoice

import (
	"time"

	"github.com/MohdAli056/invoice-processor-backend/constants"
)

// Record is the canonical extraction output. Both strategies populate this
// same shape. A nil field means "not found" and serializes as an explicit
// null; the key is never omitted.
type Record struct {
	VendorName     *string  `json:"vendor_name"`
	VendorAddress  *string  `json:"vendor_address"`
	VendorEmail    *string  `json:"vendor_email"`
	VendorPhone    *string  `json:"vendor_phone"`
	InvoiceNumber  *string  `json:"invoice_number"`
	InvoiceDate    *string  `json:"invoice_date"`
	DueDate        *string  `json:"due_date"`
	PONumber       *string  `json:"po_number"`
	CustomerName   *string  `json:"customer_name"`
	CustomerNumber *string  `json:"customer_number"`
	VATNumber      *string  `json:"vat_number"`
	TotalAmount    *string  `json:"total_amount"`
	Subtotal       *string  `json:"subtotal"`
	TaxAmount      *string  `json:"tax_amount"`
	Currency       *string  `json:"currency"`
	PaymentTerms   *string  `json:"payment_terms"`
	Description    *string  `json:"description"`
	DatesFound     []string `json:"dates_found"`
}

// Result is the envelope every extraction run produces, success or not.
// It is the only object crossing the pipeline boundary.
type Result struct {
	Success          bool                 `json:"success"`
	ProcessingMethod string               `json:"processing_method"`
	ExtractedData    *Record              `json:"extracted_data,omitempty"`
	Confidence       constants.Confidence `json:"confidence,omitempty"`
	Error            string               `json:"error,omitempty"`

	Filename      string               `json:"filename,omitempty"`
	FileSizeBytes int64                `json:"file_size_bytes,omitempty"`
	FileFormat    constants.FileFormat `json:"file_format,omitempty"`
	ProcessedAt   time.Time            `json:"processed_at"`
}
