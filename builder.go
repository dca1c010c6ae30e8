package codex

import (
	"fmt"
	"reflect"
)

// instanceBuilder produces the per-decode state that accumulates field
// values into one instance.
type instanceBuilder interface {
	start() (acceptor, error)
}

// acceptor receives decoded field values for one instance.
type acceptor interface {
	accept(f *FieldBinding, v any) error
	acceptPartial(f *FieldBinding, v any) error
	// finish returns the complete instance.
	finish() (any, error)
	// finishNow returns whatever was built so far. It reports false when
	// the strategy can not produce a partial instance.
	finishNow() (any, bool)
}

// allocatingBuilder allocates the instance up front and writes each field
// into it as it arrives.
type allocatingBuilder struct {
	typ      reflect.Type
	allocate instanceFunc
}

func (b *allocatingBuilder) start() (acceptor, error) {
	obj, err := b.allocate()
	if err != nil {
		return nil, err
	}
	return &allocatingAcceptor{obj: obj}, nil
}

type allocatingAcceptor struct {
	obj reflect.Value
}

func (a *allocatingAcceptor) accept(f *FieldBinding, v any) error {
	rv, err := f.value(v)
	if err != nil {
		return err
	}
	f.access.write(a.obj, rv)
	return nil
}

func (a *allocatingAcceptor) acceptPartial(f *FieldBinding, v any) error {
	return a.accept(f, v)
}

func (a *allocatingAcceptor) finish() (any, error) {
	return a.obj.Interface(), nil
}

func (a *allocatingAcceptor) finishNow() (any, bool) {
	return a.obj.Interface(), true
}

// constructingBuilder collects field values positionally and calls the
// record constructor once every field was seen.
type constructingBuilder struct {
	typ    reflect.Type
	ctor   reflect.Value
	params []reflect.Type
}

func newConstructingBuilder(t reflect.Type, c *constructor) *constructingBuilder {
	ft := c.fn.Type()
	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}
	return &constructingBuilder{typ: t, ctor: c.fn, params: params}
}

func (b *constructingBuilder) start() (acceptor, error) {
	args := make([]reflect.Value, len(b.params))
	for i, p := range b.params {
		args[i] = reflect.Zero(p)
	}
	return &constructingAcceptor{builder: b, args: args}, nil
}

type constructingAcceptor struct {
	builder *constructingBuilder
	args    []reflect.Value
}

func (a *constructingAcceptor) accept(f *FieldBinding, v any) error {
	rv, err := f.value(v)
	if err != nil {
		return err
	}
	a.args[f.position] = rv
	return nil
}

func (a *constructingAcceptor) acceptPartial(f *FieldBinding, v any) error {
	return a.accept(f, v)
}

func (a *constructingAcceptor) finish() (any, error) {
	out := a.builder.ctor.Call(a.args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("%w: %s constructor: %w", ErrDecode, a.builder.typ, out[1].Interface().(error))
	}
	return out[0].Interface(), nil
}

func (a *constructingAcceptor) finishNow() (any, bool) {
	return nil, false
}
