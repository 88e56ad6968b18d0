package interp

import (
	"math/big"
	"unicode/utf8"
)

// BigInt is the arbitrary-precision signed integer carried by droplets,
// stack slots, and reservoir cells. Arithmetic never wraps and never
// panics: division and modulo by zero yield zero.
//
// BigInt values are immutable; every operation returns a fresh value and
// callers may share them freely.
type BigInt struct {
	v *big.Int
}

var (
	bigZero = BigInt{big.NewInt(0)}
	bigOne  = BigInt{big.NewInt(1)}
)

// Zero returns the BigInt zero.
func Zero() BigInt { return bigZero }

// One returns the BigInt one.
func One() BigInt { return bigOne }

// NewBigInt returns a BigInt holding the given native value.
func NewBigInt(n int64) BigInt {
	switch n {
	case 0:
		return bigZero
	case 1:
		return bigOne
	}
	return BigInt{big.NewInt(n)}
}

// BigIntFromRune returns a BigInt holding the code point of r.
func BigIntFromRune(r rune) BigInt {
	return NewBigInt(int64(r))
}

// ParseBigInt parses a base-10 integer string. The boolean reports whether
// the string was a valid numeral.
func ParseBigInt(s string) (BigInt, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return bigZero, false
	}
	return BigInt{v}, true
}

func (b BigInt) int() *big.Int {
	if b.v == nil {
		return bigZero.v
	}
	return b.v
}

// Add returns b + o.
func (b BigInt) Add(o BigInt) BigInt {
	return BigInt{new(big.Int).Add(b.int(), o.int())}
}

// Sub returns b - o.
func (b BigInt) Sub(o BigInt) BigInt {
	return BigInt{new(big.Int).Sub(b.int(), o.int())}
}

// Mul returns b * o.
func (b BigInt) Mul(o BigInt) BigInt {
	return BigInt{new(big.Int).Mul(b.int(), o.int())}
}

// SafeDiv returns b / o, truncated toward zero. Dividing by zero yields
// zero rather than an error.
func (b BigInt) SafeDiv(o BigInt) BigInt {
	if o.IsZero() {
		return bigZero
	}
	return BigInt{new(big.Int).Quo(b.int(), o.int())}
}

// SafeMod returns b mod o with the sign of the dividend. A zero modulus
// yields zero rather than an error.
func (b BigInt) SafeMod(o BigInt) BigInt {
	if o.IsZero() {
		return bigZero
	}
	return BigInt{new(big.Int).Rem(b.int(), o.int())}
}

// Inc returns b + 1.
func (b BigInt) Inc() BigInt { return b.Add(bigOne) }

// Dec returns b - 1.
func (b BigInt) Dec() BigInt { return b.Sub(bigOne) }

// Neg returns -b.
func (b BigInt) Neg() BigInt {
	return BigInt{new(big.Int).Neg(b.int())}
}

// Cmp compares b and o, returning -1, 0 or +1.
func (b BigInt) Cmp(o BigInt) int {
	return b.int().Cmp(o.int())
}

// Equal reports whether b and o hold the same value.
func (b BigInt) Equal(o BigInt) bool {
	return b.Cmp(o) == 0
}

// Sign returns -1, 0 or +1 according to the sign of b.
func (b BigInt) Sign() int { return b.int().Sign() }

// IsZero reports whether b is zero.
func (b BigInt) IsZero() bool { return b.int().Sign() == 0 }

// Int64 extracts the native value of b. The boolean is false when b does
// not fit in an int64; callers substitute zero in that case.
func (b BigInt) Int64() (int64, bool) {
	if !b.int().IsInt64() {
		return 0, false
	}
	return b.int().Int64(), true
}

// Int64OrZero returns the native value of b, or zero when b is outside
// int64 range. Coordinate arithmetic in the reservoir and jump targets use
// this degraded form.
func (b BigInt) Int64OrZero() int64 {
	n, ok := b.Int64()
	if !ok {
		return 0
	}
	return n
}

// Rune extracts b as a Unicode code point. The boolean is false when b is
// negative, out of code-point range, or a surrogate half.
func (b BigInt) Rune() (rune, bool) {
	n, ok := b.Int64()
	if !ok || n < 0 || n > utf8.MaxRune {
		return 0, false
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}

// String renders b as a decimal numeral, with a leading '-' if negative.
func (b BigInt) String() string {
	return b.int().String()
}
