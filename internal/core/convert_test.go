package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"plain integer", "8", "8", true},
		{"decimal point", "8.5", "8.5", true},
		{"decimal comma", "8,50", "8.5", true},
		{"european thousands", "1.234,56", "1234.56", true},
		{"us thousands", "1,234.56", "1234.56", true},
		{"repeated commas", "1,234,567", "1234567", true},
		{"repeated dots", "1.234.567", "1234567", true},
		{"euro suffix", "8,50 \u20ac", "8.5", true},
		{"dollar prefix", "$12.00", "12", true},
		{"currency code", "3.20 EUR", "3.2", true},
		{"no-break space thousands", "1\u00a0234,5", "1234.5", true},
		{"accounting negative", "(3.50)", "-3.5", true},
		{"explicit negative", "-2", "-2", true},
		{"leading dot", ".5", "0.5", true},
		{"surrounding space", "  4.25  ", "4.25", true},
		{"empty", "", "0", false},
		{"whitespace", "   ", "0", false},
		{"text", "free", "0", false},
		{"per unit artifact", "8,50 \u20ac/u", "0", false},
		{"dash placeholder", "-", "0", false},
		{"two numbers", "1 2/3", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestAmountOrZero(t *testing.T) {
	if got := AmountOrZero("n/a"); !got.IsZero() {
		t.Errorf("AmountOrZero(n/a) = %s, want 0", got)
	}
	if got := AmountOrZero("2,5"); !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("AmountOrZero(2,5) = %s, want 2.5", got)
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  burger1  ", "burger1"},
		{`="00123"`, "00123"},
		{"=SUM", "=SUM"},
		{`"quoted"`, "quoted"},
		{"'single'", "single"},
		{"", ""},
		{`  =" padded "  `, "padded"},
		{"burger'", "burger'"},
		{`Burger "La Especial"`, `Burger "La Especial"`},
		{`"mismatched'`, `"mismatched'`},
		{`"`, `"`},
		{`=""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeUTF8(t *testing.T) {
	valid := []byte("Jalape\u00f1o")
	if got := sanitizeUTF8(valid); string(got) != string(valid) {
		t.Errorf("valid input changed: %q", got)
	}

	invalid := []byte{'a', 0xff, 'b'}
	if got := string(sanitizeUTF8(invalid)); got != "a\uFFFDb" {
		t.Errorf("sanitizeUTF8 = %q, want %q", got, "a\uFFFDb")
	}
}

func TestIsEmptyRow(t *testing.T) {
	tests := []struct {
		row  []string
		want bool
	}{
		{nil, true},
		{[]string{"", "  ", "\t"}, true},
		{[]string{"", "x"}, false},
	}
	for _, tt := range tests {
		if got := isEmptyRow(tt.row); got != tt.want {
			t.Errorf("isEmptyRow(%q) = %v, want %v", tt.row, got, tt.want)
		}
	}
}
