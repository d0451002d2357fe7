package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTextCollapsesIntraLineWhitespace(t *testing.T) {
	got := CleanText("Invoice   Number:\t INV-001\nTotal:     $5.00")
	assert.Equal(t, "Invoice Number: INV-001\nTotal: $5.00", got)
}

func TestCleanTextDropsShortLines(t *testing.T) {
	got := CleanText("CPB SOFTWARE GMBH\n|\n.\nx\nTotal: $5.00")
	assert.Equal(t, "CPB SOFTWARE GMBH\nTotal: $5.00", got)
}

func TestCleanTextRemovesBoxNoise(t *testing.T) {
	got := CleanText("Header\n------\n______\nFooter line")
	assert.Equal(t, "Header\nFooter line", got)
}

func TestCleanTextNormalizesCRLF(t *testing.T) {
	got := CleanText("line one\r\nline two\rline three")
	assert.Equal(t, "line one\nline two\nline three", got)
}

func TestCleanTextPreservesLineOrderAndDuplicates(t *testing.T) {
	in := "Total: $5.00\nItem line\nTotal: $5.00"
	assert.Equal(t, in, CleanText(in))
}

func TestCleanTextEmptyInput(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("  \n \n "))
}
