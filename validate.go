package codex

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Validator checks values flowing through a field adapter.
type Validator interface {
	Validate(value any) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(value any) error

// Validate calls f.
func (f ValidatorFunc) Validate(value any) error {
	return f(value)
}

// Predicate returns a validator that rejects values failing test. The error
// message is message, or a generic one when message is empty.
func Predicate(test func(any) bool, message string) Validator {
	return ValidatorFunc(func(value any) error {
		if test(value) {
			return nil
		}
		if message == "" {
			return fmt.Errorf("%w: %q did not pass validation", ErrValidation, fmt.Sprint(value))
		}
		return fmt.Errorf("%w: %s", ErrValidation, message)
	})
}

func isRangedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// numericRange is an inclusive range parsed for one numeric kind.
type numericRange struct {
	kind     reflect.Kind
	min, max Number
	raw      [2]string
}

func parseRange(t reflect.Type, raw string) (*numericRange, error) {
	if !isRangedKind(t.Kind()) {
		return nil, fmt.Errorf("range on non-numeric type %s", t)
	}
	lo, hi, ok := strings.Cut(raw, ",")
	if !ok {
		return nil, fmt.Errorf("range %q must be \"min,max\"", raw)
	}
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
	r := &numericRange{kind: t.Kind(), raw: [2]string{lo, hi}}
	var err error
	if r.min, err = parseBound(t, lo); err != nil {
		return nil, err
	}
	if r.max, err = parseBound(t, hi); err != nil {
		return nil, err
	}
	if compareNumbers(r.min, r.max) > 0 {
		return nil, fmt.Errorf("range %q has min above max", raw)
	}
	return r, nil
}

func parseBound(t reflect.Type, s string) (Number, error) {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return Number{}, fmt.Errorf("invalid range bound %q", s)
		}
		return Float(f), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return Number{}, fmt.Errorf("invalid range bound %q", s)
		}
		return Uint(u), nil
	default:
		i, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return Number{}, fmt.Errorf("invalid range bound %q", s)
		}
		return Int(i), nil
	}
}

func compareNumbers(a, b Number) int {
	if a.IsFloat() || b.IsFloat() {
		x, y := a.Float64(), b.Float64()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	if a.IsUint() || b.IsUint() {
		// Both are non-negative when either is a uint bound of a uint field.
		x, errX := a.Uint64()
		y, errY := b.Uint64()
		switch {
		case errX != nil:
			return -1
		case errY != nil:
			return 1
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	x, _ := a.Int64()
	y, _ := b.Int64()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func (r *numericRange) check(value any) error {
	n, ok := NumberOf(reflect.ValueOf(value).Convert(basicOf(r.kind)).Interface())
	if !ok {
		return fmt.Errorf("%w: %v is not a number", ErrOutOfRange, value)
	}
	if compareNumbers(n, r.min) < 0 || compareNumbers(n, r.max) > 0 {
		return fmt.Errorf("%w: value %v outside of range [%s, %s]", ErrOutOfRange, value, r.raw[0], r.raw[1])
	}
	return nil
}

// basicOf returns the predeclared type of a numeric kind.
func basicOf(k reflect.Kind) reflect.Type {
	switch k {
	case reflect.Int:
		return reflect.TypeFor[int]()
	case reflect.Int8:
		return reflect.TypeFor[int8]()
	case reflect.Int16:
		return reflect.TypeFor[int16]()
	case reflect.Int32:
		return reflect.TypeFor[int32]()
	case reflect.Int64:
		return reflect.TypeFor[int64]()
	case reflect.Uint:
		return reflect.TypeFor[uint]()
	case reflect.Uint8:
		return reflect.TypeFor[uint8]()
	case reflect.Uint16:
		return reflect.TypeFor[uint16]()
	case reflect.Uint32:
		return reflect.TypeFor[uint32]()
	case reflect.Uint64:
		return reflect.TypeFor[uint64]()
	case reflect.Float32:
		return reflect.TypeFor[float32]()
	default:
		return reflect.TypeFor[float64]()
	}
}
