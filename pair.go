package codex

import (
	"fmt"
	"reflect"
)

// Pair holds two values. It encodes as a map with "first" and "second" keys.
type Pair[A, B any] struct {
	First  A
	Second B
}

// PairOf returns a Pair of a and b.
func PairOf[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// TypeArgs reports A and B.
func (Pair[A, B]) TypeArgs() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()}
}

// Either holds a value of one of two types. It encodes as the held value;
// decoding tries the left type first.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left returns an Either holding l.
func Left[L, R any](l L) Either[L, R] {
	return Either[L, R]{left: l}
}

// Right returns an Either holding r.
func Right[L, R any](r R) Either[L, R] {
	return Either[L, R]{right: r, isRight: true}
}

// IsRight reports whether e holds a right value.
func (e Either[L, R]) IsRight() bool { return e.isRight }

// LeftValue returns the left value and whether e holds one.
func (e Either[L, R]) LeftValue() (L, bool) { return e.left, !e.isRight }

// RightValue returns the right value and whether e holds one.
func (e Either[L, R]) RightValue() (R, bool) { return e.right, e.isRight }

// TypeArgs reports L and R.
func (Either[L, R]) TypeArgs() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[L](), reflect.TypeFor[R]()}
}

var (
	pairRaw   = Describe(reflect.TypeFor[Pair[any, any]]()).Raw()
	eitherRaw = Describe(reflect.TypeFor[Either[any, any]]()).Raw()
)

func isPair(t TypeDescriptor) bool {
	return t.rt.Kind() == reflect.Struct && t.rt.PkgPath() == reflect.TypeFor[Pair[any, any]]().PkgPath() && t.Raw() == pairRaw
}

func isEither(t TypeDescriptor) bool {
	return t.rt.Kind() == reflect.Struct && t.rt.PkgPath() == reflect.TypeFor[Either[any, any]]().PkgPath() && t.Raw() == eitherRaw
}

var pairFactory = Generic(isPair, 2, func(_ Creator, t TypeDescriptor, args []Adapter) (Adapter, error) {
	return &pairAdapter{typ: t.rt, first: args[0], second: args[1]}, nil
})

var eitherFactory = Generic(isEither, 2, func(_ Creator, t TypeDescriptor, args []Adapter) (Adapter, error) {
	return &eitherAdapter{typ: t.rt, left: args[0], right: args[1]}, nil
})

type pairAdapter struct {
	typ           reflect.Type
	first, second Adapter
}

func (a *pairAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv, err := valueOf(a.typ, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	first, err := a.first.Encode(rv.Field(0).Interface(), ops, ops.Empty())
	if err != nil {
		return nil, &ObjectError{Type: a.typ.String(), Fields: []*FieldError{{Err: ErrEncode, Field: "first", Cause: err}}}
	}
	second, err := a.second.Encode(rv.Field(1).Interface(), ops, ops.Empty())
	if err != nil {
		return nil, &ObjectError{Type: a.typ.String(), Fields: []*FieldError{{Err: ErrEncode, Field: "second", Cause: err}}}
	}
	return mergeMap(ops, prefix, []Entry{{Key: "first", Value: first}, {Key: "second", Value: second}})
}

func (a *pairAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	out := reflect.New(a.typ).Elem()
	var errs []*FieldError
	for i, part := range []struct {
		key     string
		adapter Adapter
	}{{"first", a.first}, {"second", a.second}} {
		node, ok, err := Lookup(ops, input, part.key)
		if err != nil {
			return nil, input, err
		}
		if !ok {
			errs = append(errs, &FieldError{Err: ErrMissingKey, Field: part.key})
			continue
		}
		v, _, err := part.adapter.Decode(ops, node)
		if err != nil {
			errs = append(errs, &FieldError{Err: ErrDecode, Field: part.key, Cause: err})
			continue
		}
		if err := assign(out.Field(i), v); err != nil {
			errs = append(errs, &FieldError{Err: ErrDecode, Field: part.key, Cause: err})
		}
	}
	if len(errs) > 0 {
		return nil, input, &ObjectError{Type: a.typ.String(), Fields: errs}
	}
	return out.Interface(), input, nil
}

type eitherAdapter struct {
	typ         reflect.Type
	left, right Adapter
}

func (a *eitherAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	e, ok := value.(eitherParts)
	if !ok {
		return nil, fmt.Errorf("%w: expected %s, got %T", ErrEncode, a.typ, value)
	}
	v, right := e.parts()
	if right {
		return a.right.Encode(v, ops, prefix)
	}
	return a.left.Encode(v, ops, prefix)
}

func (a *eitherAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	out := reflect.New(a.typ)
	setter := out.Interface().(eitherSetter)

	left, rest, leftErr := a.left.Decode(ops, input)
	if leftErr == nil && setter.setParts(left, false) == nil {
		return out.Elem().Interface(), rest, nil
	}
	right, rest, rightErr := a.right.Decode(ops, input)
	if rightErr != nil {
		return nil, input, fmt.Errorf("%w: neither alternative matched: %v; %v", ErrDecode, leftErr, rightErr)
	}
	if err := setter.setParts(right, true); err != nil {
		return nil, input, err
	}
	return out.Elem().Interface(), rest, nil
}

type eitherParts interface {
	parts() (any, bool)
}

type eitherSetter interface {
	setParts(v any, right bool) error
}

func (e Either[L, R]) parts() (any, bool) {
	if e.isRight {
		return e.right, true
	}
	return e.left, false
}

func (e *Either[L, R]) setParts(v any, right bool) error {
	e.isRight = right
	if right {
		return assign(reflect.ValueOf(&e.right).Elem(), v)
	}
	return assign(reflect.ValueOf(&e.left).Elem(), v)
}
