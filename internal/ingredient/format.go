package ingredient

import (
	"math"
	"strconv"
	"strings"
)

// fractionTolerance is how close a value must be to a table entry.
const fractionTolerance = 0.01

type commonFraction struct {
	value float64
	text  string
}

var commonFractions = []commonFraction{
	{0.125, "1/8"},
	{0.25, "1/4"},
	{0.333, "1/3"},
	{0.5, "1/2"},
	{0.667, "2/3"},
	{0.75, "3/4"},
}

func lookupFraction(v float64) (string, bool) {
	for _, f := range commonFractions {
		if math.Abs(v-f.value) < fractionTolerance {
			return f.text, true
		}
	}
	return "", false
}

// FormatQuantity renders a quantity for shopping lists: common fractions
// and mixed numbers where they fit, integers as-is, otherwise up to two
// decimals. Zero renders as the empty string.
func FormatQuantity(q float64) string {
	if q == 0 {
		return ""
	}
	if s, ok := lookupFraction(q); ok {
		return s
	}

	whole := math.Floor(q)
	if whole > 0 {
		if s, ok := lookupFraction(q - whole); ok {
			return strconv.FormatFloat(whole, 'f', 0, 64) + " " + s
		}
	}

	if q == math.Trunc(q) {
		return strconv.FormatFloat(q, 'f', 0, 64)
	}
	return TrimDecimal(strconv.FormatFloat(q, 'f', 2, 64))
}

// TrimDecimal drops trailing zeros and a dangling point: "1.50" -> "1.5".
func TrimDecimal(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// fractionIterations bounds the continued-fraction expansion.
const fractionIterations = 64

// ToFraction converts q to the simplest fraction within a relative
// tolerance of 1e-6 using continued fractions. The result is "n", "n/d"
// or the mixed form "w n/d". Non-positive input falls back to decimal form.
func ToFraction(q float64) string {
	if q <= 0 || math.IsInf(q, 0) || math.IsNaN(q) {
		return TrimDecimal(strconv.FormatFloat(q, 'f', 2, 64))
	}
	// Whole numbers need no expansion, and large ones would not fit int64.
	if q == math.Trunc(q) {
		return strconv.FormatFloat(q, 'f', 0, 64)
	}

	const tolerance = 1e-6
	h1, h2 := 1.0, 0.0
	k1, k2 := 0.0, 1.0
	b := q
	for i := 0; i < fractionIterations; i++ {
		a := math.Floor(b)
		h1, h2 = a*h1+h2, h1
		k1, k2 = a*k1+k2, k1
		if math.Abs(q-h1/k1) <= q*tolerance {
			break
		}
		if b-a == 0 {
			break
		}
		b = 1 / (b - a)
	}

	num, den := int64(h1), int64(k1)
	if den == 1 {
		return strconv.FormatInt(num, 10)
	}
	if num > den {
		whole, rem := num/den, num%den
		if rem == 0 {
			return strconv.FormatInt(whole, 10)
		}
		return strconv.FormatInt(whole, 10) + " " + strconv.FormatInt(rem, 10) + "/" + strconv.FormatInt(den, 10)
	}
	return strconv.FormatInt(num, 10) + "/" + strconv.FormatInt(den, 10)
}
