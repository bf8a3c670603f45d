package nameparse

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseInstance(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     int
		explicit bool
	}{
		{"marker with digits", "bench-log-run2-out.txt", 2, true},
		{"multi digit", "log-run12-x.log", 12, true},
		{"digits end of segment", "x-log-run3.txt", 3, true},
		{"no marker", "notes.txt", 1, false},
		{"marker without digits", "log-run-x.txt", 1, false},
		{"marker at end", "suite-log-run", 1, false},
		{"digits after dash not counted", "log-run-7.txt", 1, false},
		{"mixed segment keeps digits", "log-runa4b.txt", 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInstance(tt.filename)
			if got.N != tt.want {
				t.Errorf("ParseInstance(%q).N = %d, want %d", tt.filename, got.N, tt.want)
			}
			if got.Explicit != tt.explicit {
				t.Errorf("ParseInstance(%q).Explicit = %v, want %v", tt.filename, got.Explicit, tt.explicit)
			}
		})
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VM1", "1"},
		{"SUT_primary3", "3"},
		{"vm10b2", "102"},
		{"nodigits", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Digits(tt.in); got != tt.want {
			t.Errorf("Digits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsIterationName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"iteration1", true},
		{"Iteration2", true},
		{"ITERATION", true},
		{"iteratio", false},
		{"my-iteration1", false},
		{"run1", false},
	}

	for _, tt := range tests {
		if got := IsIterationName(tt.name); got != tt.want {
			t.Errorf("IsIterationName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseInstanceRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("instance numbers embedded after log-run are recovered exactly", prop.ForAll(
		func(n int, suffix string) bool {
			filename := fmt.Sprintf("bench-log-run%d-%s.txt", n, suffix)
			got := ParseInstance(filename)
			return got.Explicit && got.N == n
		},
		gen.IntRange(0, 9999),
		gen.AlphaString(),
	))

	properties.Property("Digits is idempotent", prop.ForAll(
		func(s string) bool {
			once := Digits(s)
			return Digits(once) == once
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
