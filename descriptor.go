package codex

import (
	"path"
	"reflect"
	"strings"
)

// TypeDescriptor is a reified, fully parameterized type. Two descriptors are
// equal exactly when they describe the same type, so a descriptor can be used
// as a map key.
type TypeDescriptor struct {
	rt reflect.Type
}

// TypeOf returns the descriptor of T.
func TypeOf[T any]() TypeDescriptor {
	return TypeDescriptor{rt: reflect.TypeFor[T]()}
}

// Describe returns the descriptor of rt.
func Describe(rt reflect.Type) TypeDescriptor {
	return TypeDescriptor{rt: rt}
}

// Type returns the underlying reflect.Type.
func (d TypeDescriptor) Type() reflect.Type { return d.rt }

// IsZero reports whether d describes no type.
func (d TypeDescriptor) IsZero() bool { return d.rt == nil }

func (d TypeDescriptor) String() string {
	if d.rt == nil {
		return "<nil>"
	}
	return d.rt.String()
}

// Raw returns the identity of the type constructor with type arguments
// removed: "[]" for slices, "map" for maps, "pkg.Pair" for Pair[int, string].
func (d TypeDescriptor) Raw() string {
	if d.rt == nil {
		return ""
	}
	switch d.rt.Kind() {
	case reflect.Slice:
		if d.rt.Name() == "" {
			return "[]"
		}
	case reflect.Array:
		if d.rt.Name() == "" {
			return "[n]"
		}
	case reflect.Map:
		if d.rt.Name() == "" {
			return "map"
		}
	case reflect.Pointer:
		if d.rt.Name() == "" {
			return "*"
		}
	}
	name := stripTypeParams(d.rt.Name())
	if name == "" {
		return d.rt.String()
	}
	if p := d.rt.PkgPath(); p != "" {
		return path.Base(p) + "." + name
	}
	return name
}

// Args returns the type arguments of d: the element of slices, arrays and
// pointers, the key and element of maps, and the arguments reported by
// generic containers implementing TypeArgs.
func (d TypeDescriptor) Args() []TypeDescriptor {
	if d.rt == nil {
		return nil
	}
	if ta, ok := capability[typeArgser](d.rt); ok {
		raw := ta.TypeArgs()
		out := make([]TypeDescriptor, len(raw))
		for i, rt := range raw {
			out[i] = TypeDescriptor{rt: rt}
		}
		return out
	}
	switch d.rt.Kind() {
	case reflect.Slice, reflect.Array, reflect.Pointer:
		return []TypeDescriptor{{rt: d.rt.Elem()}}
	case reflect.Map:
		return []TypeDescriptor{{rt: d.rt.Key()}, {rt: d.rt.Elem()}}
	default:
		return nil
	}
}

// Arg returns the i-th type argument, or the zero descriptor when d has
// fewer arguments.
func (d TypeDescriptor) Arg(i int) TypeDescriptor {
	args := d.Args()
	if i < 0 || i >= len(args) {
		return TypeDescriptor{}
	}
	return args[i]
}

// typeArgser is implemented by generic containers that expose their type
// arguments to factories.
type typeArgser interface {
	TypeArgs() []reflect.Type
}

// stripTypeParams removes a generic instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// capability reports whether t, or a pointer to t, implements I and returns
// the implementation bound to a zero value.
func capability[I any](t reflect.Type) (I, bool) {
	var zero I
	iface := reflect.TypeFor[I]()
	if t == nil || t.Kind() == reflect.Interface {
		return zero, false
	}
	if t.Implements(iface) {
		if t.Kind() == reflect.Pointer {
			return reflect.New(t.Elem()).Interface().(I), true
		}
		return reflect.Zero(t).Interface().(I), true
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface) {
		return reflect.New(t).Interface().(I), true
	}
	return zero, false
}
