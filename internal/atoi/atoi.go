// Package atoi parses the leading decimal integer of a string the way C's
// strtol does: optional whitespace, an optional sign, then the longest run
// of digits, with everything after the last digit ignored.
package atoi

import (
	"errors"
	"math"
)

// Error variables for leading-integer parsing.
var (
	// ErrNoDigits indicates the input has no leading integer at all.
	// Leading reports 0 alongside it.
	ErrNoDigits = errors.New("no leading digits")

	// ErrRange indicates the integer does not fit in an int64. Leading
	// reports the clamped extreme alongside it.
	ErrRange = errors.New("value out of range")
)

// Leading parses the longest leading base-10 integer of s.
//
// ASCII whitespace is skipped and a single +/- sign is honored. Parsing
// stops at the first non-digit, so "42abc" parses to 42. Inputs with no
// digits report (0, ErrNoDigits). Values outside the int64 range report
// [math.MaxInt64] or [math.MinInt64] and ErrRange.
func Leading(s string) (int64, error) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	negative := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}

	// The magnitude limit differs by one between the two signs.
	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}

	var (
		magnitude uint64
		overflow  bool
	)

	start := i

	for ; i < len(s) && isDigit(s[i]); i++ {
		if overflow {
			continue
		}

		digit := uint64(s[i] - '0')
		if magnitude > limit/10 || (magnitude == limit/10 && digit > limit%10) {
			overflow = true

			continue
		}

		magnitude = magnitude*10 + digit
	}

	if i == start {
		return 0, ErrNoDigits
	}

	if overflow {
		if negative {
			return math.MinInt64, ErrRange
		}

		return math.MaxInt64, ErrRange
	}

	if negative {
		if magnitude == limit {
			return math.MinInt64, nil
		}

		return -int64(magnitude), nil
	}

	return int64(magnitude), nil
}

// isSpace matches C's isspace in the default locale.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}

	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
