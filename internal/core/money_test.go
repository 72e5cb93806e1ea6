package core

import "testing"

func TestParseSignedCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"-50", -5000, true},
		{"-12,34", -1234, true},
		{"+7", 700, true},
		{"0", 0, true},
		{"12.344", 1234, true}, // third decimal below half rounds down
		{"12.345", 1235, true}, // half rounds up
		{"0.005", 1, true},
		{".5", 50, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseSignedCents(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseSignedCents(%q) ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseSignedCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
