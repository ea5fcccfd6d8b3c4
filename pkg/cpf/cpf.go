// Package cpf validates the Brazilian CPF, the 11-digit national
// identifier carried by every enrollment.
package cpf

import "strings"

// Valid reports whether id is a well-formed CPF. Formatting characters
// (dots, dash, spaces) are ignored; only the digits matter.
func Valid(id string) bool {
	digits := stripNonDigits(id)
	if len(digits) != 11 {
		return false
	}
	if allSame(digits) {
		return false
	}

	// First check digit: weights 10..2 over the first nine digits.
	if checkDigit(digits[:9], 10) != int(digits[9]-'0') {
		return false
	}
	// Second check digit: weights 11..2 over the first ten digits.
	return checkDigit(digits[:10], 11) == int(digits[10]-'0')
}

func checkDigit(digits string, startWeight int) int {
	sum := 0
	for i, r := range digits {
		sum += int(r-'0') * (startWeight - i)
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
