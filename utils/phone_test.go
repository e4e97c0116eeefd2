package utils

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	cases := map[string]string{
		"555-0100":         "5550100",
		"(222) 45 67 89":   "222456789",
		"+1 555 010 0200":  "+15550100200",
		"  555.010.0300  ": "5550100300",
	}
	for in, want := range cases {
		if got := NormalizePhoneNumber(in); got != want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", in, got, want)
		}
	}
}
