package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{123456, "1234.56"},
		{-40, "-0.40"},
		{-123400, "-1234.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

// Summing 0.1 three times must yield exactly 0.3: money never touches
// binary floating point.
func TestMoneyExactness(t *testing.T) {
	tenth, err := ParseDecimalToCents("0.1")
	if err != nil {
		t.Fatal(err)
	}
	sum := Money{}
	for i := 0; i < 3; i++ {
		sum = sum.Add(Money{Cents: tenth})
	}
	if sum != (Money{Cents: 30}) {
		t.Fatalf("expected exactly 30 cents, got %d", sum.Cents)
	}
	if sum.String() != "0.30" {
		t.Fatalf("expected \"0.30\", got %q", sum.String())
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: -512})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"-5.12"` {
		t.Fatalf("expected quoted decimal string, got %s", b)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"12.34"`), &m); err != nil {
		t.Fatal(err)
	}
	if m.Cents != 1234 {
		t.Fatalf("expected 1234 cents, got %d", m.Cents)
	}
	if err := json.Unmarshal([]byte(`12.34`), &m); err == nil {
		t.Fatal("bare float must be rejected")
	}
}
