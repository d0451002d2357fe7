package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"bare json":         {`{"a":1}`, `{"a":1}`},
		"json fence":        {"```json\n{\"a\":1}\n```", `{"a":1}`},
		"plain fence":       {"```\n{\"a\":1}\n```", `{"a":1}`},
		"surrounding space": {"  \n```json\n{\"a\":1}\n```  \n", `{"a":1}`},
		"unterminated":      {"```json\n{\"a\":1}", `{"a":1}`},
		"empty":             {"", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFence(tc.in))
		})
	}
}
