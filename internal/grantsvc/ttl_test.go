package grantsvc

import (
	"testing"
	"time"
)

func TestParseTTL_Accepts(t *testing.T) {
	cases := map[string]time.Duration{
		"30s": 30 * time.Second,
		"5m":  5 * time.Minute,
		"1h":  time.Hour,
		"2d":  48 * time.Hour,
	}
	for in, want := range cases {
		got, err := ParseTTL(in)
		if err != nil {
			t.Fatalf("ParseTTL(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseTTL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseTTL_Rejects(t *testing.T) {
	for _, in := range []string{"", "0s", "-5m", "5", "5x", "1 h", "1w"} {
		if _, err := ParseTTL(in); err == nil {
			t.Fatalf("ParseTTL(%q): expected error, got nil", in)
		}
	}
}
