package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"-4.50", -4.5, true},
		{"2500.00", 2500, true},
		{"2500", 2500, true},
		{"+12.34", 12.34, true},
		{".5", 0.5, true},
		{"1e3", 1000, true},
		{"1.5e-2", 0.015, true},
		{" 42 ", 42, true},
		{"12.34 USD", 12.34, true},
		{"-10.00CR", -10, true},
		{"7e", 7, true}, // incomplete exponent ignored
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"USD 12", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("ParseAmount(%q) = %v, %v; want %v", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Fatalf("ParseAmount(%q) expected error, got %v", tc.in, got)
		}
	}
}
