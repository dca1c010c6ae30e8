package codex

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"net/url"
	"reflect"
	"time"
)

// scalarAdapter encodes bool, integer, float and string kinds, including
// named types with those underlying kinds. Decoded values have exactly typ.
type scalarAdapter struct {
	typ reflect.Type
}

// StringAdapter is the adapter for string. Maps keyed by a type whose
// adapter is StringAdapter encode as native maps.
var StringAdapter Adapter = &scalarAdapter{typ: reflect.TypeFor[string]()}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func scalarFactory(_ Creator, t TypeDescriptor) (Adapter, error) {
	if !isScalarKind(t.rt.Kind()) {
		return nil, nil
	}
	return &scalarAdapter{typ: t.rt}, nil
}

func (a *scalarAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv, err := valueOf(a.typ, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	var node Tree
	switch a.typ.Kind() {
	case reflect.Bool:
		node = ops.CreateBool(rv.Bool())
	case reflect.String:
		node = ops.CreateString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		node = ops.CreateNumber(Int(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		node = ops.CreateNumber(Uint(rv.Uint()))
	default:
		node = ops.CreateNumber(Float(rv.Float()))
	}
	return mergePrimitive(ops, prefix, node)
}

func (a *scalarAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	out := reflect.New(a.typ).Elem()
	switch a.typ.Kind() {
	case reflect.Bool:
		b, err := ops.BoolValue(input)
		if err != nil {
			return nil, input, err
		}
		out.SetBool(b)
	case reflect.String:
		s, err := ops.StringValue(input)
		if err != nil {
			return nil, input, err
		}
		out.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := ops.NumberValue(input)
		if err != nil {
			return nil, input, err
		}
		i, err := n.Int64()
		if err != nil {
			return nil, input, err
		}
		if out.OverflowInt(i) {
			return nil, input, fmt.Errorf("%w: %d overflows %s", ErrDecode, i, a.typ)
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := ops.NumberValue(input)
		if err != nil {
			return nil, input, err
		}
		u, err := n.Uint64()
		if err != nil {
			return nil, input, err
		}
		if out.OverflowUint(u) {
			return nil, input, fmt.Errorf("%w: %d overflows %s", ErrDecode, u, a.typ)
		}
		out.SetUint(u)
	default:
		n, err := ops.NumberValue(input)
		if err != nil {
			return nil, input, err
		}
		f := n.Float64()
		if out.OverflowFloat(f) {
			return nil, input, fmt.Errorf("%w: %v overflows %s", ErrDecode, f, a.typ)
		}
		out.SetFloat(f)
	}
	return out.Interface(), ops.Empty(), nil
}

// stringBacked builds an adapter that stores values of T as strings.
func stringBacked[T any](format func(T) (string, error), parse func(string) (T, error)) Adapter {
	return FlatMap(StringAdapter,
		func(v any) (any, error) {
			out, err := parse(v.(string))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrDecode, err)
			}
			return out, nil
		},
		func(v any) (any, error) {
			t, ok := v.(T)
			if !ok {
				return nil, fmt.Errorf("%w: expected %s, got %T", ErrEncode, reflect.TypeFor[T](), v)
			}
			s, err := format(t)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrEncode, err)
			}
			return s, nil
		},
	)
}

var (
	bytesAdapter = stringBacked(
		func(b []byte) (string, error) { return base64.StdEncoding.EncodeToString(b), nil },
		base64.StdEncoding.DecodeString,
	)
	durationAdapter = stringBacked(
		func(d time.Duration) (string, error) { return d.String(), nil },
		time.ParseDuration,
	)
	bigIntAdapter = stringBacked(
		func(i big.Int) (string, error) { return i.String(), nil },
		func(s string) (big.Int, error) {
			var i big.Int
			if _, ok := i.SetString(s, 10); !ok {
				return big.Int{}, fmt.Errorf("invalid integer %q", s)
			}
			return i, nil
		},
	)
	urlAdapter = stringBacked(
		func(u url.URL) (string, error) { return u.String(), nil },
		func(s string) (url.URL, error) {
			u, err := url.Parse(s)
			if err != nil {
				return url.URL{}, err
			}
			return *u, nil
		},
	)
)

func pin[T any](r *Registry, a Adapter) {
	r.Register(reflect.TypeFor[T](), a)
}

func pinScalar[T any](r *Registry) {
	t := reflect.TypeFor[T]()
	r.Register(t, &scalarAdapter{typ: t})
}

// Builtin registers the adapters and factories every registry starts with.
var Builtin = Bundle{
	Name: "builtin",
	Apply: func(r *Registry) {
		pinScalar[bool](r)
		pinScalar[int](r)
		pinScalar[int8](r)
		pinScalar[int16](r)
		pinScalar[int32](r)
		pinScalar[int64](r)
		pinScalar[uint](r)
		pinScalar[uint8](r)
		pinScalar[uint16](r)
		pinScalar[uint32](r)
		pinScalar[uint64](r)
		pinScalar[float32](r)
		pinScalar[float64](r)
		pin[string](r, StringAdapter)
		r.RegisterStringLike(reflect.TypeFor[string](), StringAdapter)

		pin[[]byte](r, bytesAdapter)
		pin[time.Duration](r, durationAdapter)
		r.RegisterStringLike(reflect.TypeFor[time.Duration](), durationAdapter)
		pin[big.Int](r, bigIntAdapter)
		r.RegisterStringLike(reflect.TypeFor[big.Int](), bigIntAdapter)
		pin[url.URL](r, urlAdapter)
		r.RegisterStringLike(reflect.TypeFor[url.URL](), urlAdapter)

		r.RegisterFactory(FactoryFunc(enumFactory), 0)
		r.RegisterFactory(FactoryFunc(textFactory), 0)
		r.RegisterFactory(pairFactory, 0)
		r.RegisterFactory(eitherFactory, 0)
		r.RegisterFactory(FactoryFunc(pointerFactory), 0)
		r.RegisterFactory(FactoryFunc(interfaceFactory), 0)
		r.RegisterFactory(FactoryFunc(setFactory), 0)
		r.RegisterFactory(FactoryFunc(listFactory), 0)
		r.RegisterFactory(FactoryFunc(mapFactory), 0)
		r.RegisterFactory(FactoryFunc(scalarFactory), 0)
	},
}
