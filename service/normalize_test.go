package service

import (
	"errors"
	"testing"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"thousands separator with comma decimal", "1.234,56", "1234,56"},
		{"period decimal", "1234.56", "1234,56"},
		{"multiple thousands separators", "1.234.567,89", "1234567,89"},
		{"plain integer", "450", "450"},
		{"single comma untouched", "450,50", "450,50"},
		{"empty", "", ""},
		{"garbage passes through", "ca. 100 kr", "ca, 100 kr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeAmount(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNormalizeAmountIdempotent(t *testing.T) {
	inputs := []string{"1.234,56", "1234.56", "1.2.3.4", "450,50"}
	for _, input := range inputs {
		once := NormalizeAmount(input)
		twice := NormalizeAmount(once)
		if once != twice {
			t.Errorf("Not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestDeriveReference(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"two months",
			`[{"dato":"2024-01-10"},{"dato":"2024-02-20"}]`,
			"Januar/Februar 2024",
		},
		{
			"calendar order regardless of input order",
			`[{"dato":"2024-03-01"},{"dato":"2024-01-15"}]`,
			"Januar/Marts 2024",
		},
		{
			"duplicate months collapse",
			`[{"dato":"2024-05-01"},{"dato":"2024-05-20"}]`,
			"Maj 2024",
		},
		{
			"single-quoted form export",
			`[{'dato': '2024-10-05'}]`,
			"Oktober 2024",
		},
		{
			"entries without dato are skipped",
			`[{"dato":"2024-06-01"},{"andet":"felt"}]`,
			"Juni 2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DeriveReference(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestDeriveReferenceErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a list", "hello"},
		{"malformed date", `[{"dato":"10-01-2024"}]`},
		{"empty list", `[]`},
		{"no dated entries", `[{"andet":"felt"}]`},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveReference(tt.input)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			var parseErr *model.ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("Expected *model.ParseError, got %T", err)
			}
		})
	}
}
