package chave

import (
	"strings"
	"testing"
)

func TestNormalize_StripsEverythingButDigits(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", ""},
		{"3524 0312.345-678", "35240312345678"},
		{"NFe35240312345678000199550010000001231000001234", "35240312345678000199550010000001231000001234"},
		{" 12-34 ", "1234"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_OutputIsDigitsOnlyAndNoLonger(t *testing.T) {
	inputs := []string{"a1b2c3", "R$ 1.234,56", "chave: 35 24 03", strings.Repeat("9x", 50)}
	for _, in := range inputs {
		got := Normalize(in)
		if strings.ContainsFunc(got, func(r rune) bool { return r < '0' || r > '9' }) {
			t.Fatalf("Normalize(%q) = %q contains non-digits", in, got)
		}
		digits := 0
		for _, r := range in {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if len(got) > digits {
			t.Fatalf("Normalize(%q) longer than digit count of input", in)
		}
	}
}

func TestDateFromKey_FullKey(t *testing.T) {
	// Digits 2-3 are the year, 4-5 the month.
	key := "35" + "24" + "03" + strings.Repeat("0", 38)
	if got := DateFromKey(key); got != "03/2024" {
		t.Fatalf("DateFromKey = %q, want 03/2024", got)
	}
	// Decoration does not change the derived date.
	decorated := "NFe 3524-03" + strings.Repeat("0", 38)
	if got := DateFromKey(decorated); got != "03/2024" {
		t.Fatalf("DateFromKey(decorated) = %q, want 03/2024", got)
	}
}

func TestDateFromKey_WrongLengthIsEmpty(t *testing.T) {
	for _, in := range []string{"", "1234", strings.Repeat("1", 43), strings.Repeat("1", 45)} {
		if got := DateFromKey(in); got != "" {
			t.Fatalf("DateFromKey(%q) = %q, want empty", in, got)
		}
	}
}
