// Package nameparse extracts run and instance numbering from artifact names.
package nameparse

import (
	"strconv"
	"strings"
)

// instanceMarker precedes the instance number in benchmark log filenames,
// e.g. "bench-log-run2-out.txt" encodes instance 2.
const instanceMarker = "log-run"

// InstanceNumber is the result of parsing an instance number from a filename.
// Explicit is false when the filename carried no usable number and the
// default of 1 was substituted; callers decide whether that is worth a
// warning, the parser never hides it.
type InstanceNumber struct {
	N        int
	Explicit bool
}

// ParseInstance extracts the instance number encoded after "log-run" in a
// filename. Digits are taken immediately after the marker, up to the next
// '-'. A missing marker, missing digits, or an unparseable value all fall
// back to instance 1 with Explicit false.
func ParseInstance(filename string) InstanceNumber {
	_, rest, found := strings.Cut(filename, instanceMarker)
	if !found {
		return InstanceNumber{N: 1}
	}

	segment, _, _ := strings.Cut(rest, "-")
	digits := Digits(segment)
	if digits == "" {
		return InstanceNumber{N: 1}
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		// Digit runs long enough to overflow int do occur in corrupt names.
		return InstanceNumber{N: 1}
	}

	return InstanceNumber{N: n, Explicit: true}
}

// Digits returns every digit character of s, in order.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsIterationName reports whether a folder name denotes an iteration folder.
// Matching is a case-insensitive prefix test.
func IsIterationName(name string) bool {
	return len(name) >= len("iteration") &&
		strings.EqualFold(name[:len("iteration")], "iteration")
}
