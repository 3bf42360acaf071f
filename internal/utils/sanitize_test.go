package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveNonWord(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		replace  string
		expected string
	}{
		{"PlainReference", "ZVWN7D2Q64FXZ275", "", "ZVWN7D2Q64FXZ275"},
		{"Underscore kept", "REFUND_FAILED", "", "REFUND_FAILED"},
		{"StripsSpacesAndDashes", "order 42-b", "", "order42b"},
		{"ReplacesWithUnderscore", "psp:ref/1", "_", "psp_ref_1"},
		{"NewlinesRemoved", "line1\nline2", "", "line1line2"},
		{"Empty", "", "_", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RemoveNonWord(tc.raw, tc.replace))
		})
	}
}
