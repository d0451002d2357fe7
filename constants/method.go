package constants

// Processing-method tags reported in result envelopes. Stable values: clients
// switch on these exact strings.
const (
	MethodAIVision   = "ai-vision"
	MethodOCRPattern = "ocr-pattern"
)

// Confidence is a coarse label naming which strategy produced a result,
// not a statistical score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceNone   Confidence = ""
)
