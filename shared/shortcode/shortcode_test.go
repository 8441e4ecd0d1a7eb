package shortcode_test

import (
	"strings"
	"testing"

	"atelier/shared/shortcode"
)

func TestNew_Length(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		expected int
	}{
		{
			name:     "explicit length",
			length:   8,
			expected: 8,
		},
		{
			name:     "zero length falls back to default",
			length:   0,
			expected: shortcode.DefaultLength,
		},
		{
			name:     "negative length falls back to default",
			length:   -3,
			expected: shortcode.DefaultLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := shortcode.New(tt.length)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(code) != tt.expected {
				t.Errorf("expected code length %d, got %d", tt.expected, len(code))
			}
		})
	}
}

func TestNew_Alphabet(t *testing.T) {
	code, err := shortcode.New(64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range code {
		if strings.ContainsRune("01OIL", r) {
			t.Errorf("code %q contains ambiguous character %q", code, r)
		}
	}
}

func TestNew_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)

	for range 100 {
		code, err := shortcode.New(shortcode.DefaultLength)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if seen[code] {
			t.Fatalf("duplicate code generated: %s", code)
		}

		seen[code] = true
	}
}
