package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and strips punctuation",
			input:    "Book a PICKUP, please!",
			expected: "book a pickup please",
		},
		{
			name:     "collapses whitespace runs",
			input:    "rate   from\tMumbai\n to Delhi",
			expected: "rate from mumbai to delhi",
		},
		{
			name:     "keeps digits and underscores",
			input:    "send 5kg to sector_12",
			expected: "send 5kg to sector_12",
		},
		{
			name:     "punctuation becomes separators",
			input:    "mumbai-delhi,5kg",
			expected: "mumbai delhi 5kg",
		},
		{
			name:     "only punctuation collapses to empty",
			input:    "?!...",
			expected: "",
		},
		{
			name:     "empty stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "devanagari letters survive",
			input:    "कल pickup चाहिए",
			expected: "कल pickup चाहिए",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Book a pickup from Andheri to Powai!",
		"  What's   the RATE? ",
		"10.5 kg, fragile items",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"book", "a", "pickup"}, Tokens("Book a pickup!"))
	assert.Empty(t, Tokens("  ?! "))
}
