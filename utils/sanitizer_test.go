package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskToken(t *testing.T) {
	tests := map[string]struct {
		token    string
		expected string
	}{
		"long_token": {
			token:    "abcdefghijklmnop",
			expected: "abcdefgh...",
		},
		"short_token": {
			token:    "abc",
			expected: "a...",
		},
		"exact_prefix_length": {
			token:    "abcdefgh",
			expected: "a...",
		},
		"empty": {
			token:    "",
			expected: "none",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MaskToken(tc.token))
		})
	}
}
