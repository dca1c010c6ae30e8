package codex

import (
	"fmt"
	"reflect"
	"unsafe"
)

// accessor reads and writes one member of an aggregate value. Readers report
// false when the member sits behind a nil embedded pointer.
type accessor struct {
	read  func(owner reflect.Value) (any, bool, error)
	write func(owner reflect.Value, v reflect.Value)
}

// compileAccessor builds the accessor for m. Direct fields of predeclared
// basic types are read and written through their offset; everything else
// goes through reflection.
func compileAccessor(owner reflect.Type, m member) accessor {
	if m.method != "" {
		return methodAccessor(m.method)
	}
	if len(m.index) == 1 {
		sf := owner.Field(m.index[0])
		off := sf.Offset
		switch sf.Type {
		case reflect.TypeFor[string]():
			return offsetAccessor[string](m.index, off)
		case reflect.TypeFor[int]():
			return offsetAccessor[int](m.index, off)
		case reflect.TypeFor[int64]():
			return offsetAccessor[int64](m.index, off)
		case reflect.TypeFor[int32]():
			return offsetAccessor[int32](m.index, off)
		case reflect.TypeFor[uint64]():
			return offsetAccessor[uint64](m.index, off)
		case reflect.TypeFor[float64]():
			return offsetAccessor[float64](m.index, off)
		case reflect.TypeFor[bool]():
			return offsetAccessor[bool](m.index, off)
		}
	}
	return reflectAccessor(m.index)
}

func offsetAccessor[T any](index []int, off uintptr) accessor {
	fallback := reflectAccessor(index)
	return accessor{
		read: func(owner reflect.Value) (any, bool, error) {
			if !owner.CanAddr() {
				return fallback.read(owner)
			}
			return *(*T)(unsafe.Add(unsafe.Pointer(owner.UnsafeAddr()), off)), true, nil
		},
		write: func(owner reflect.Value, v reflect.Value) {
			*(*T)(unsafe.Add(unsafe.Pointer(owner.UnsafeAddr()), off)) = v.Interface().(T)
		},
	}
}

func reflectAccessor(index []int) accessor {
	return accessor{
		read: func(owner reflect.Value) (any, bool, error) {
			v := owner
			for i, x := range index {
				if i > 0 && v.Kind() == reflect.Pointer {
					if v.IsNil() {
						return nil, false, nil
					}
					v = v.Elem()
				}
				v = v.Field(x)
			}
			return v.Interface(), true, nil
		},
		write: func(owner reflect.Value, val reflect.Value) {
			v := owner
			for i, x := range index {
				if i > 0 && v.Kind() == reflect.Pointer {
					if v.IsNil() {
						v.Set(reflect.New(v.Type().Elem()))
					}
					v = v.Elem()
				}
				v = v.Field(x)
			}
			v.Set(val)
		},
	}
}

func methodAccessor(name string) accessor {
	return accessor{
		read: func(owner reflect.Value) (any, bool, error) {
			m := owner.MethodByName(name)
			if !m.IsValid() && owner.CanAddr() {
				m = owner.Addr().MethodByName(name)
			}
			if !m.IsValid() {
				return nil, false, fmt.Errorf("%w: no accessor %s on %s", ErrEncode, name, owner.Type())
			}
			out := m.Call(nil)
			if len(out) == 2 && !out[1].IsNil() {
				return nil, false, out[1].Interface().(error)
			}
			return out[0].Interface(), true, nil
		},
	}
}
