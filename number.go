package codex

import (
	"fmt"
	"math"
	"strconv"
)

type numberKind uint8

const (
	numberInt numberKind = iota
	numberUint
	numberFloat
)

// Number is a numeric tree value. It keeps the widest exact representation
// the source offered so integers never pass through float64.
type Number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

// Int returns a signed integer Number.
func Int(v int64) Number { return Number{kind: numberInt, i: v} }

// Uint returns an unsigned integer Number.
func Uint(v uint64) Number { return Number{kind: numberUint, u: v} }

// Float returns a floating point Number.
func Float(v float64) Number { return Number{kind: numberFloat, f: v} }

// IsFloat reports whether n was created from a floating point value.
func (n Number) IsFloat() bool { return n.kind == numberFloat }

// IsUint reports whether n was created from an unsigned integer.
func (n Number) IsUint() bool { return n.kind == numberUint }

// Float64 returns n as a float64.
func (n Number) Float64() float64 {
	switch n.kind {
	case numberInt:
		return float64(n.i)
	case numberUint:
		return float64(n.u)
	default:
		return n.f
	}
}

// Int64 returns n as an int64, failing when n is fractional or does not fit.
func (n Number) Int64() (int64, error) {
	switch n.kind {
	case numberInt:
		return n.i, nil
	case numberUint:
		if n.u > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrDecode, n.u)
		}
		return int64(n.u), nil
	default:
		if n.f != math.Trunc(n.f) || n.f < math.MinInt64 || n.f >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrDecode, n.f)
		}
		return int64(n.f), nil
	}
}

// Uint64 returns n as a uint64, failing when n is negative, fractional or
// does not fit.
func (n Number) Uint64() (uint64, error) {
	switch n.kind {
	case numberInt:
		if n.i < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrDecode, n.i)
		}
		return uint64(n.i), nil
	case numberUint:
		return n.u, nil
	default:
		if n.f != math.Trunc(n.f) || n.f < 0 || n.f >= math.MaxUint64 {
			return 0, fmt.Errorf("%w: %v is not an unsigned integer", ErrDecode, n.f)
		}
		return uint64(n.f), nil
	}
}

// Value returns the underlying int64, uint64 or float64.
func (n Number) Value() any {
	switch n.kind {
	case numberInt:
		return n.i
	case numberUint:
		return n.u
	default:
		return n.f
	}
}

func (n Number) String() string {
	switch n.kind {
	case numberInt:
		return strconv.FormatInt(n.i, 10)
	case numberUint:
		return strconv.FormatUint(n.u, 10)
	default:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
}

// ParseNumber reads a decimal integer or float literal.
func ParseNumber(s string) (Number, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Uint(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, fmt.Errorf("%w: %q is not a number", ErrDecode, s)
	}
	return Float(f), nil
}

// NumberOf converts a Go numeric value into a Number.
func NumberOf(v any) (Number, bool) {
	switch x := v.(type) {
	case int:
		return Int(int64(x)), true
	case int8:
		return Int(int64(x)), true
	case int16:
		return Int(int64(x)), true
	case int32:
		return Int(int64(x)), true
	case int64:
		return Int(x), true
	case uint:
		return Uint(uint64(x)), true
	case uint8:
		return Uint(uint64(x)), true
	case uint16:
		return Uint(uint64(x)), true
	case uint32:
		return Uint(uint64(x)), true
	case uint64:
		return Uint(x), true
	case float32:
		return Float(float64(x)), true
	case float64:
		return Float(x), true
	case Number:
		return x, true
	default:
		return Number{}, false
	}
}
