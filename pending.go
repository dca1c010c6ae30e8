package codex

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// pendingAdapter stands in for an adapter that is still being built. It is
// cached before the factory chain runs so recursive references to the same
// type resolve to it. It is assigned exactly once.
type pendingAdapter struct {
	typ    reflect.Type
	target atomic.Pointer[adapterCell]
}

type adapterCell struct {
	adapter Adapter
}

func newPendingAdapter(t reflect.Type) *pendingAdapter {
	return &pendingAdapter{typ: t}
}

// set assigns the target. Later assignments are ignored and report false.
func (p *pendingAdapter) set(a Adapter) bool {
	return p.target.CompareAndSwap(nil, &adapterCell{adapter: a})
}

// fail assigns an adapter that reports err on every call. Adapters built
// while p was pending keep working and surface err instead of panicking.
func (p *pendingAdapter) fail(err error) {
	p.set(failedAdapter{typ: p.typ, err: err})
}

func (p *pendingAdapter) ready() bool {
	return p.target.Load() != nil
}

// failed reports whether p was assigned by fail.
func (p *pendingAdapter) failed() bool {
	cell := p.target.Load()
	if cell == nil {
		return false
	}
	_, ok := cell.adapter.(failedAdapter)
	return ok
}

func (p *pendingAdapter) resolved() Adapter {
	cell := p.target.Load()
	if cell == nil {
		panic(fmt.Errorf("%w: %s", ErrPendingAdapter, p.typ))
	}
	return cell.adapter
}

func (p *pendingAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	return p.resolved().Encode(value, ops, prefix)
}

func (p *pendingAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	return p.resolved().Decode(ops, input)
}

type failedAdapter struct {
	typ reflect.Type
	err error
}

func (f failedAdapter) Encode(_ any, _ Ops, prefix Tree) (Tree, error) {
	return prefix, fmt.Errorf("%s did not resolve: %w", f.typ, f.err)
}

func (f failedAdapter) Decode(_ Ops, input Tree) (any, Tree, error) {
	return nil, input, fmt.Errorf("%s did not resolve: %w", f.typ, f.err)
}

// unwrapAdapter returns the adapter a placeholder stands for, or a itself.
func unwrapAdapter(a Adapter) Adapter {
	if p, ok := a.(*pendingAdapter); ok && p.ready() {
		return p.resolved()
	}
	return a
}
