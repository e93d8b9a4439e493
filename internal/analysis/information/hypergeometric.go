package information

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// hypPrecision is the number of decimal places carried by the series. The
// series value is at least 1, so this is also a lower bound on its
// significant digits.
const hypPrecision int32 = 120

var ln10 = math.Log(10)

// logHyp2F1AtOne returns ln 2F1(a, -m; c; 1) for a > 0, m >= 0 and a
// non-positive integer c with c + m - 1 < 0, i.e. a terminating series whose
// denominators never vanish. Every term of that series is positive.
func logHyp2F1AtOne(a, m, c int) float64 {
	sum := decimal.NewFromInt(1)
	term := decimal.NewFromInt(1)
	b := -m
	for k := 0; k < m; k++ {
		num := decimal.NewFromInt(int64(a+k) * int64(b+k))
		den := decimal.NewFromInt(int64(c+k) * int64(k+1))
		term = term.Mul(num).DivRound(den, hypPrecision)
		if term.IsZero() {
			break
		}
		sum = sum.Add(term)
	}
	return logDecimal(sum)
}

// logDecimal returns the natural log of a positive decimal as a float64.
// The coefficient is scaled down to 63 significant bits before conversion,
// which is far more than a float64 mantissa keeps.
func logDecimal(d decimal.Decimal) float64 {
	coef := new(big.Int).Set(d.Coefficient())
	shift := 0
	if bits := coef.BitLen(); bits > 63 {
		shift = bits - 63
		coef.Rsh(coef, uint(shift))
	}
	mantissa, _ := new(big.Float).SetInt(coef).Float64()
	return math.Log(mantissa) + float64(shift)*math.Ln2 + float64(d.Exponent())*ln10
}
