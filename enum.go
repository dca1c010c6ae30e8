package codex

import (
	"fmt"
	"reflect"
)

// Enum is implemented by enum-like types: named types with a fixed, ordered
// set of constants. Each constant is serialized by its String form, or by
// EnumName when the type implements EnumNamer. When the Ops compress maps the
// constant's position in EnumValues is written instead.
type Enum interface {
	fmt.Stringer
	EnumValues() []any
}

// EnumNamer overrides the serialized name of an enum constant.
type EnumNamer interface {
	EnumName() string
}

func isEnum(t reflect.Type) bool {
	_, ok := capability[Enum](t)
	return ok
}

// enumAdapter translates between constants and their names or ordinals.
// The tables are built once when the adapter is created.
type enumAdapter struct {
	typ     reflect.Type
	values  []any
	names   []string
	byName  map[string]int
	byValue map[any]int
}

func enumFactory(_ Creator, t TypeDescriptor) (Adapter, error) {
	if t.rt.Kind() == reflect.Pointer {
		return nil, nil
	}
	e, ok := capability[Enum](t.rt)
	if !ok {
		return nil, nil
	}
	if !t.rt.Comparable() {
		return nil, &ConfigError{Err: ErrConfiguration, Type: t.String(), Detail: "enum type is not comparable"}
	}

	values := e.EnumValues()
	a := &enumAdapter{
		typ:     t.rt,
		values:  make([]any, len(values)),
		names:   make([]string, len(values)),
		byName:  make(map[string]int, len(values)),
		byValue: make(map[any]int, len(values)),
	}
	for i, v := range values {
		rv, err := valueOf(t.rt, v)
		if err != nil {
			return nil, &ConfigError{Err: ErrConfiguration, Type: t.String(), Detail: fmt.Sprintf("enum constant %v has type %T", v, v)}
		}
		v = rv.Interface()
		name := enumName(v)
		if _, dup := a.byName[name]; dup {
			return nil, &ConfigError{Err: ErrConfiguration, Type: t.String(), Detail: fmt.Sprintf("duplicate enum name %q", name)}
		}
		a.values[i] = v
		a.names[i] = name
		a.byName[name] = i
		a.byValue[v] = i
	}
	return a, nil
}

func enumName(v any) string {
	if n, ok := v.(EnumNamer); ok {
		return n.EnumName()
	}
	return v.(fmt.Stringer).String()
}

func (a *enumAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv, err := valueOf(a.typ, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	i, ok := a.byValue[rv.Interface()]
	if !ok {
		return nil, fmt.Errorf("%w: Unknown element %v", ErrEncode, value)
	}
	if ops.CompressMaps() {
		return mergePrimitive(ops, prefix, ops.CreateNumber(Int(int64(i))))
	}
	return mergePrimitive(ops, prefix, ops.CreateString(a.names[i]))
}

func (a *enumAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	if ops.CompressMaps() {
		n, err := ops.NumberValue(input)
		if err != nil {
			return nil, input, err
		}
		i, err := n.Int64()
		if err != nil || i < 0 || i >= int64(len(a.values)) {
			return nil, input, fmt.Errorf("%w: Unknown element id: %s", ErrDecode, n)
		}
		return a.values[i], ops.Empty(), nil
	}
	s, err := ops.StringValue(input)
	if err != nil {
		return nil, input, err
	}
	i, ok := a.byName[s]
	if !ok {
		return nil, input, fmt.Errorf("%w: Unknown element name: %s", ErrDecode, s)
	}
	return a.values[i], ops.Empty(), nil
}
