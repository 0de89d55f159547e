// Package numfmt appends numbers to byte slices without intermediate strings.
//
// Two float policies exist and they are not interchangeable: AppendFixed2
// always renders exactly two fractional digits, AppendShortest renders the
// fewest digits that parse back to the identical float64.
package numfmt

import (
	"math"
	"strconv"
)

// Decimal notation is used for magnitudes in [1e-5, 1e16); scientific
// notation outside that window.
const (
	minDecimalExp = -5
	maxDecimalExp = 16
)

// AppendUint appends the canonical decimal form of v.
func AppendUint(dst []byte, v uint64) []byte {
	return strconv.AppendUint(dst, v, 10)
}

// AppendInt appends the canonical decimal form of v.
func AppendInt(dst []byte, v int64) []byte {
	return strconv.AppendInt(dst, v, 10)
}

// AppendFixed2 appends f rounded to exactly two fractional digits.
func AppendFixed2(dst []byte, f float64) []byte {
	return strconv.AppendFloat(dst, f, 'f', 2, 64)
}

// AppendShortest appends the shortest decimal text that round-trips to f.
//
// Integral values keep a trailing ".0" so the text always reads as a float.
// Scientific notation has no '+' sign and no exponent padding: 1e16, 1.5e-7.
func AppendShortest(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "inf"...)
	case math.IsInf(f, -1):
		return append(dst, "-inf"...)
	}

	var scratch [32]byte
	sci := strconv.AppendFloat(scratch[:0], f, 'e', -1, 64)

	neg := sci[0] == '-'
	if neg {
		sci = sci[1:]
	}

	var digitBuf [24]byte
	digits := digitBuf[:0]
	i := 0
	for ; i < len(sci) && sci[i] != 'e'; i++ {
		if sci[i] != '.' {
			digits = append(digits, sci[i])
		}
	}
	exp := parseExp(sci[i+1:])

	length := len(digits)
	kk := exp + 1 // position of the decimal point relative to the digits
	k := kk - length

	if neg {
		dst = append(dst, '-')
	}

	switch {
	case k >= 0 && kk <= maxDecimalExp:
		dst = append(dst, digits...)
		for j := 0; j < k; j++ {
			dst = append(dst, '0')
		}
		dst = append(dst, '.', '0')
	case kk > 0 && kk <= maxDecimalExp:
		dst = append(dst, digits[:kk]...)
		dst = append(dst, '.')
		dst = append(dst, digits[kk:]...)
	case kk > minDecimalExp && kk <= 0:
		dst = append(dst, '0', '.')
		for j := 0; j < -kk; j++ {
			dst = append(dst, '0')
		}
		dst = append(dst, digits...)
	case length == 1:
		dst = append(dst, digits[0], 'e')
		dst = strconv.AppendInt(dst, int64(exp), 10)
	default:
		dst = append(dst, digits[0], '.')
		dst = append(dst, digits[1:]...)
		dst = append(dst, 'e')
		dst = strconv.AppendInt(dst, int64(exp), 10)
	}
	return dst
}

// FormatShortest is the string form of AppendShortest.
func FormatShortest(f float64) string {
	return string(AppendShortest(nil, f))
}

// parseExp reads the signed exponent strconv emits after 'e'.
func parseExp(b []byte) int {
	neg := false
	if len(b) > 0 && (b[0] == '+' || b[0] == '-') {
		neg = b[0] == '-'
		b = b[1:]
	}
	n := 0
	for _, c := range b {
		n = n*10 + int(c-'0')
	}
	if neg {
		return -n
	}
	return n
}
