package codex

import (
	"fmt"
	"reflect"
)

// instanceFunc returns a new addressable value of one type.
type instanceFunc func() (reflect.Value, error)

// instanceFor returns the memoized allocation strategy for t: a registered
// creator, then InstanceProvider, then the zero value.
func (r *Registry) instanceFor(t reflect.Type) instanceFunc {
	if r == nil {
		return zeroInstance(t)
	}
	if fn, ok := r.instances.Load(t); ok {
		return fn.(instanceFunc)
	}
	fn := r.compileInstance(t)
	actual, _ := r.instances.LoadOrStore(t, fn)
	return actual.(instanceFunc)
}

func (r *Registry) compileInstance(t reflect.Type) instanceFunc {
	if c, ok := r.creators.Load(t); ok {
		create := c.(func() any)
		return func() (reflect.Value, error) {
			return valueOf(t, create())
		}
	}
	if p, ok := capability[InstanceProvider](t); ok {
		return func() (reflect.Value, error) {
			v, err := valueOf(t, p.CodexNewInstance())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %s.CodexNewInstance: %w", ErrDecode, t, err)
			}
			return v, nil
		}
	}
	return zeroInstance(t)
}

func zeroInstance(t reflect.Type) instanceFunc {
	switch t.Kind() {
	case reflect.Slice:
		return func() (reflect.Value, error) {
			v := reflect.New(t).Elem()
			v.Set(reflect.MakeSlice(t, 0, 0))
			return v, nil
		}
	case reflect.Map:
		return func() (reflect.Value, error) {
			v := reflect.New(t).Elem()
			v.Set(reflect.MakeMap(t))
			return v, nil
		}
	default:
		return func() (reflect.Value, error) {
			return reflect.New(t).Elem(), nil
		}
	}
}

// newCollection allocates an empty slice or map of type t with room for n
// elements.
func (r *Registry) newCollection(t reflect.Type, n int) reflect.Value {
	if r != nil {
		if _, ok := r.creators.Load(t); ok {
			if v, err := r.instanceFor(t)(); err == nil {
				if t.Kind() == reflect.Map && v.IsNil() {
					v.Set(reflect.MakeMapWithSize(t, n))
				}
				return v
			}
		}
	}
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Slice:
		v.Set(reflect.MakeSlice(t, 0, n))
	case reflect.Map:
		v.Set(reflect.MakeMapWithSize(t, n))
	}
	return v
}

// constructor is a registered record constructor.
type constructor struct {
	fn reflect.Value
}

// RegisterConstructor declares t as an immutable record built by fn.
// The signature of fn is checked when t is resolved.
func (r *Registry) RegisterConstructor(t reflect.Type, fn any) {
	r.constructors.Store(t, &constructor{fn: reflect.ValueOf(fn)})
}

// check verifies that c builds t from the given members.
func (c *constructor) check(t reflect.Type, fields []*FieldBinding) error {
	fail := func(detail string) error {
		return &ConfigError{Err: ErrConfiguration, Type: t.String(), Detail: detail}
	}
	if !c.fn.IsValid() || c.fn.Kind() != reflect.Func {
		return fail("constructor is not a function")
	}
	ft := c.fn.Type()
	if ft.IsVariadic() {
		return fail("constructor must not be variadic")
	}
	if ft.NumOut() < 1 || ft.NumOut() > 2 || ft.Out(0) != t || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		return fail(fmt.Sprintf("constructor must return %s or (%s, error)", t, t))
	}
	if ft.NumIn() != len(fields) {
		return fail(fmt.Sprintf("constructor takes %d parameters, record has %d members", ft.NumIn(), len(fields)))
	}
	for i, f := range fields {
		if ft.In(i) != f.Type {
			return fail(fmt.Sprintf("constructor parameter %d is %s, member %s is %s", i, ft.In(i), f.Member, f.Type))
		}
	}
	return nil
}
