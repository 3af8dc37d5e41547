// Package core defines the transaction record model shared by the ingestion
// pipeline, the aggregation engine and the record stores.
//
// This file contains amount parsing. Statement exports are messy: amounts
// frequently carry currency codes or other trailing text ("-4.50 USD"), so
// parsing follows leading-float semantics, where the longest numeric prefix is
// taken and anything after it is ignored.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount parses a signed decimal amount from the start of s.
//
// The numeric prefix may include a sign, a fractional part and an exponent;
// trailing garbage after the prefix is ignored. An error is returned when no
// digits are found. The result is always a finite float64.
//
// Examples:
//
//	ParseAmount("-4.50")     -> -4.5, nil
//	ParseAmount("2500")      -> 2500, nil
//	ParseAmount("12.34 USD") -> 12.34, nil
//	ParseAmount("1e3")       -> 1000, nil
//	ParseAmount("abc")       -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	end := numericPrefixLen(s)
	if end == 0 {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// numericPrefixLen returns the length of the longest prefix of s that forms
// a valid decimal number: [+-] digits [. digits] [(e|E) [+-] digits].
func numericPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digitsBefore := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digitsBefore++
	}
	digitsAfter := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			digitsAfter++
		}
		// A bare trailing dot without fraction digits still parses ("4.").
		if digitsBefore > 0 || digitsAfter > 0 {
			i = j
		}
	}
	if digitsBefore == 0 && digitsAfter == 0 {
		return 0
	}
	// Optional exponent; only consumed when complete.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			expDigits++
		}
		if expDigits > 0 {
			i = j
		}
	}
	return i
}
