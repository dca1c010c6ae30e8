package codex

import (
	"fmt"
	"reflect"
)

// Adapter converts values of one type to and from trees of any Ops.
//
// Encode writes value into prefix, which is usually ops.Empty(). Decode reads
// input and returns the value together with the remainder of input the
// adapter did not consume. On failure Decode returns an error; a
// *PartialError carries a best-effort value when one exists.
type Adapter interface {
	Encode(value any, ops Ops, prefix Tree) (Tree, error)
	Decode(ops Ops, input Tree) (any, Tree, error)
}

// AdapterFuncs builds an Adapter from a pair of functions.
type AdapterFuncs struct {
	EncodeFunc func(value any, ops Ops, prefix Tree) (Tree, error)
	DecodeFunc func(ops Ops, input Tree) (any, Tree, error)
}

// Encode calls EncodeFunc.
func (a AdapterFuncs) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	return a.EncodeFunc(value, ops, prefix)
}

// Decode calls DecodeFunc.
func (a AdapterFuncs) Decode(ops Ops, input Tree) (any, Tree, error) {
	return a.DecodeFunc(ops, input)
}

// Map derives an adapter for B from an adapter for A and a lossless pair of
// conversions.
func Map(a Adapter, to func(any) any, from func(any) any) Adapter {
	return FlatMap(a,
		func(v any) (any, error) { return to(v), nil },
		func(v any) (any, error) { return from(v), nil },
	)
}

// FlatMap derives an adapter from a with conversions that may fail. to runs
// after a decodes; from runs before a encodes.
func FlatMap(a Adapter, to func(any) (any, error), from func(any) (any, error)) Adapter {
	return AdapterFuncs{
		EncodeFunc: func(value any, ops Ops, prefix Tree) (Tree, error) {
			inner, err := from(value)
			if err != nil {
				return nil, err
			}
			return a.Encode(inner, ops, prefix)
		},
		DecodeFunc: func(ops Ops, input Tree) (any, Tree, error) {
			v, rest, err := a.Decode(ops, input)
			if err != nil {
				if partial, ok := Partial(err); ok {
					if mapped, mapErr := to(partial); mapErr == nil {
						return nil, rest, &PartialError{Err: err, Value: mapped}
					}
				}
				return nil, rest, err
			}
			out, err := to(v)
			if err != nil {
				return nil, rest, err
			}
			return out, rest, nil
		},
	}
}

// Checked wraps a so values are passed through check in the enabled
// directions. A failed check on decode keeps the rejected value as partial.
func Checked(a Adapter, check func(any) error, onEncode, onDecode bool) Adapter {
	return AdapterFuncs{
		EncodeFunc: func(value any, ops Ops, prefix Tree) (Tree, error) {
			if onEncode {
				if err := check(value); err != nil {
					return nil, err
				}
			}
			return a.Encode(value, ops, prefix)
		},
		DecodeFunc: func(ops Ops, input Tree) (any, Tree, error) {
			v, rest, err := a.Decode(ops, input)
			if err != nil || !onDecode {
				return v, rest, err
			}
			if err := check(v); err != nil {
				return nil, rest, &PartialError{Err: err, Value: v}
			}
			return v, rest, nil
		},
	}
}

// assign stores v into dst, converting between identical underlying types.
// A nil v stores the zero value.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.SetZero()
		return nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(dst.Type()):
		dst.Set(rv)
	case rv.Type().ConvertibleTo(dst.Type()) && rv.Kind() == dst.Kind():
		dst.Set(rv.Convert(dst.Type()))
	default:
		return fmt.Errorf("%w: cannot assign %s to %s", ErrDecode, rv.Type(), dst.Type())
	}
	return nil
}

// valueOf returns v as a reflect.Value of type t, converting when needed.
func valueOf(t reflect.Type, v any) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if err := assign(out, v); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}
