package codex

import (
	"encoding"
	"fmt"
	"reflect"
)

// Creator is the handle a factory uses to resolve the adapters it depends on.
// Resolutions made through it take part in the caller's cycle tracking.
type Creator interface {
	Resolve(t TypeDescriptor) (Adapter, error)
	StringLike(t TypeDescriptor) (Adapter, bool)
}

// Factory builds adapters for the types it supports. Create returns a nil
// adapter and nil error to decline a type; an error aborts the resolution.
type Factory interface {
	Create(c Creator, t TypeDescriptor) (Adapter, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(c Creator, t TypeDescriptor) (Adapter, error)

// Create calls f.
func (f FactoryFunc) Create(c Creator, t TypeDescriptor) (Adapter, error) {
	return f(c, t)
}

// GenericBuild builds an adapter from the adapters of a type's arguments.
type GenericBuild func(c Creator, t TypeDescriptor, args []Adapter) (Adapter, error)

// Generic returns a factory for types matched by match that take arity type
// arguments. Argument adapters are resolved before build runs; arguments the
// descriptor does not carry resolve to the adapter of any.
func Generic(match func(TypeDescriptor) bool, arity int, build GenericBuild) Factory {
	return FactoryFunc(func(c Creator, t TypeDescriptor) (Adapter, error) {
		if !match(t) {
			return nil, nil
		}
		args := t.Args()
		adapters := make([]Adapter, arity)
		for i := range adapters {
			arg := TypeOf[any]()
			if i < len(args) {
				arg = args[i]
			}
			a, err := c.Resolve(arg)
			if err != nil {
				return nil, err
			}
			adapters[i] = a
		}
		return build(c, t, adapters)
	})
}

// selfAdapterFactory serves types that carry their own adapter through
// AdapterProvider. It is always consulted first.
type selfAdapterFactory struct{}

func (selfAdapterFactory) Create(_ Creator, t TypeDescriptor) (Adapter, error) {
	provider, ok := capability[AdapterProvider](t.rt)
	if !ok {
		return nil, nil
	}
	a := provider.CodexAdapter()
	if p, pending := a.(*pendingAdapter); pending && p.typ == t.rt {
		return nil, nil
	}
	return a, nil
}

// pointerAdapter treats *T as an optional T. A nil pointer encodes to the
// empty value and the empty value decodes to a nil pointer.
type pointerAdapter struct {
	typ  reflect.Type
	elem Adapter
}

func pointerFactory(c Creator, t TypeDescriptor) (Adapter, error) {
	if t.rt.Kind() != reflect.Pointer {
		return nil, nil
	}
	elem, err := c.Resolve(Describe(t.rt.Elem()))
	if err != nil {
		return nil, err
	}
	return &pointerAdapter{typ: t.rt, elem: elem}, nil
}

func (a *pointerAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		if IsEmpty(ops, prefix) {
			return ops.Empty(), nil
		}
		return prefix, nil
	}
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	return a.elem.Encode(rv.Interface(), ops, prefix)
}

func (a *pointerAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	if IsEmpty(ops, input) {
		return reflect.Zero(a.typ).Interface(), ops.Empty(), nil
	}
	v, rest, err := a.elem.Decode(ops, input)
	if err != nil {
		if partial, ok := Partial(err); ok {
			if ptr, wrapErr := a.wrap(partial); wrapErr == nil {
				return nil, rest, &PartialError{Err: err, Value: ptr}
			}
		}
		return nil, rest, err
	}
	ptr, err := a.wrap(v)
	if err != nil {
		return nil, rest, err
	}
	return ptr, rest, nil
}

func (a *pointerAdapter) wrap(v any) (any, error) {
	ptr := reflect.New(a.typ.Elem())
	if err := assign(ptr.Elem(), v); err != nil {
		return nil, err
	}
	return ptr.Interface(), nil
}

// dynamicAdapter serves the empty interface. Values are encoded with the
// adapter of their dynamic type; trees decode to plain Go values.
type dynamicAdapter struct {
	reg *Registry
}

func interfaceFactory(c Creator, t TypeDescriptor) (Adapter, error) {
	if t.rt.Kind() != reflect.Interface || t.rt.NumMethod() != 0 {
		return nil, nil
	}
	s, ok := c.(*session)
	if !ok {
		return nil, nil
	}
	return &dynamicAdapter{reg: s.reg}, nil
}

func (a *dynamicAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	if value == nil {
		if IsEmpty(ops, prefix) {
			return ops.Empty(), nil
		}
		return prefix, nil
	}
	inner, err := a.reg.ResolveType(reflect.TypeOf(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return inner.Encode(value, ops, prefix)
}

func (a *dynamicAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	v, err := plain(ops, input)
	return v, ops.Empty(), err
}

// plain converts a tree into string, int64, uint64, float64, bool, []any,
// map[string]any or nil.
func plain(ops Ops, t Tree) (any, error) {
	switch ops.Kind(t) {
	case KindString:
		return ops.StringValue(t)
	case KindNumber:
		n, err := ops.NumberValue(t)
		if err != nil {
			return nil, err
		}
		return n.Value(), nil
	case KindBool:
		return ops.BoolValue(t)
	case KindList:
		items, err := ops.ListValue(t)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, item := range items {
			if out[i], err = plain(ops, item); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KindMap:
		entries, err := ops.MapValue(t)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			if out[e.Key], err = plain(ops, e.Value); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, nil
	}
}

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// isText reports whether values of t round trip through their text form.
func isText(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	ptr := reflect.PointerTo(t)
	return (t.Implements(textMarshalerType) || ptr.Implements(textMarshalerType)) && ptr.Implements(textUnmarshalerType)
}

// textAdapter encodes encoding.TextMarshaler values as string nodes.
type textAdapter struct {
	typ reflect.Type
}

func textFactory(_ Creator, t TypeDescriptor) (Adapter, error) {
	if !isText(t.rt) {
		return nil, nil
	}
	return &textAdapter{typ: t.rt}, nil
}

func (a *textAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv, err := valueOf(a.typ, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	var m encoding.TextMarshaler
	if a.typ.Implements(textMarshalerType) {
		m = rv.Interface().(encoding.TextMarshaler)
	} else {
		ptr := reflect.New(a.typ)
		ptr.Elem().Set(rv)
		m = ptr.Interface().(encoding.TextMarshaler)
	}
	text, err := m.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return mergePrimitive(ops, prefix, ops.CreateString(string(text)))
}

func (a *textAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	s, err := ops.StringValue(input)
	if err != nil {
		return nil, input, err
	}
	ptr := reflect.New(a.typ)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return nil, input, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ptr.Elem().Interface(), ops.Empty(), nil
}
