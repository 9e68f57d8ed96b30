// Package core provides the expense tracker's domain types.
//
// This file contains parsing and formatting for rupiah amounts. IDR is
// treated as a zero-decimal currency: amounts are whole rupiah and
// fractional input is rejected rather than rounded.
package core

import (
	"strconv"
	"strings"
)

// ParseRupiah converts a user-supplied amount string to whole rupiah.
//
// It accepts an optional "Rp" prefix and id-ID style dot thousand
// separators. Returns an error for empty, negative, zero, fractional,
// or otherwise malformed input.
//
// Examples:
//
//	ParseRupiah("50000")     -> 50000, nil
//	ParseRupiah("50.000")    -> 50000, nil
//	ParseRupiah("Rp 50.000") -> 50000, nil
//	ParseRupiah("50000,50")  -> 0, ErrInvalidAmount
func ParseRupiah(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		// Decimal comma: no fractional rupiah
		return 0, ErrInvalidAmount
	}
	// Dots are thousand separators in id-ID formatting
	s = strings.ReplaceAll(s, ".", "")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Format renders the amount the way the id-ID locale does, e.g. Rp50.000.
func (m Money) Format() string {
	neg := m.Rupiah < 0
	v := m.Rupiah
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}

// MarshalJSON encodes the amount as a bare number, matching the stored
// record layout.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Rupiah, 10)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseInt(strings.Trim(string(b), `"`), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Rupiah = v
	return nil
}
