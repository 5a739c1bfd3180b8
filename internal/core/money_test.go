package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"3.50", 350, true},
		{"3,50", 350, true},
		{"12", 1200, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-2.00", -200, true},
		{"-0.5", -50, true},
		{"+7.25", 725, true},
		{"12.344", 1234, true}, // third decimal below 5 truncates
		{"12.345", 1235, true}, // half rounds up
		{"12.346", 1235, true},
		{".99", 99, true},
		{"92233720368547758.07", 9223372036854775807, true}, // largest representable
		{"92233720368547758.08", 0, false},                  // one cent past int64
		{"92233720368547758.99", 0, false},
		{"92233720368547759", 0, false},
		{"99999999999999999999", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"12a", 0, false},
		{"1e3", 0, false},
	}
	for _, tc := range cases {
		cents, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToCents(%q) expected error, got %d", tc.in, cents)
		}
		if tc.ok && cents != tc.cents {
			t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tc.in, cents, tc.cents)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1550, "15.50"},
		{5, "0.05"},
		{0, "0.00"},
		{-200, "-2.00"},
		{100000, "1000.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1550})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "15.50" {
		t.Fatalf("marshal = %s, want 15.50", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("12.00"), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 1200 {
		t.Fatalf("unmarshal number = %d cents", m.Cents)
	}
	if err := json.Unmarshal([]byte(`"-3.25"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != -325 {
		t.Fatalf("unmarshal string = %d cents", m.Cents)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Description: "coffee",
		Amount:      Money{Cents: 350},
		Date:        NewDate(2024, 1, 5),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Negative amounts are deliberately accepted.
	refund := good
	refund.Amount = Money{Cents: -350}
	if err := refund.Validate(); err != nil {
		t.Fatalf("negative amount should validate, got %v", err)
	}

	bads := []Expense{
		{Description: "", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 5)},
		{Description: "   ", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 5)},
		{Description: "a", Amount: Money{Cents: 1}, Date: NewDate(2024, 13, 1)},
		{Description: "a", Amount: Money{Cents: 1}, Date: Date{}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
