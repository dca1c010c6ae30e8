package codex

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/zoobzio/sentinel"
)

// Format binds an Ops tree representation to a byte encoding.
type Format interface {
	// ContentType returns the MIME type for this format (e.g., "application/json").
	ContentType() string

	// Ops returns the tree operations the format reads and writes.
	Ops() Ops

	// Marshal encodes a tree of Ops() into bytes.
	Marshal(t Tree) ([]byte, error)

	// Unmarshal decodes data into a tree of Ops().
	Unmarshal(data []byte) (Tree, error)
}

// Codec is the typed front of the adapter for T.
type Codec[T any] struct {
	reg      *Registry
	adapter  Adapter
	typeName string
}

func newCodec[T any](r *Registry) (*Codec[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Struct && t.Name() != "" {
		sentinel.Scan[T]()
	}
	a, err := r.Resolve(TypeOf[T]())
	if err != nil {
		return nil, err
	}
	c := &Codec[T]{reg: r, adapter: a, typeName: t.String()}
	emitCodecCreated(context.Background(), c.typeName)
	return c, nil
}

// Adapter returns the untyped adapter behind c.
func (c *Codec[T]) Adapter() Adapter {
	return c.adapter
}

// Encode converts v into a tree of ops. On field failures the tree built
// from the remaining fields is returned together with the error.
func (c *Codec[T]) Encode(ctx context.Context, v T, ops Ops) (Tree, error) {
	start := time.Now()
	emitEncodeStart(ctx, c.typeName, ops.Name())

	out, err := c.adapter.Encode(v, ops, ops.Empty())

	elapsed := time.Since(start)
	c.reg.metrics.observe("encode", elapsed, err)
	emitEncodeComplete(ctx, c.typeName, ops.Name(), elapsed, err)
	return out, err
}

// Decode reads a T from t. When decoding fails but a partial value exists,
// the partial value is returned together with the error.
func (c *Codec[T]) Decode(ctx context.Context, ops Ops, t Tree) (T, error) {
	start := time.Now()
	emitDecodeStart(ctx, c.typeName, ops.Name())

	out, err := c.decode(ops, t)

	elapsed := time.Since(start)
	c.reg.metrics.observe("decode", elapsed, err)
	emitDecodeComplete(ctx, c.typeName, ops.Name(), elapsed, err)
	return out, err
}

func (c *Codec[T]) decode(ops Ops, t Tree) (T, error) {
	var zero T
	v, _, err := c.adapter.Decode(ops, t)
	if err != nil {
		if partial, ok := Partial(err); ok {
			if tv, ok := partial.(T); ok {
				return tv, err
			}
		}
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	tv, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: adapter produced %T, want %s", ErrDecode, v, c.typeName)
	}
	return tv, nil
}

// Marshal encodes v with f.
func (c *Codec[T]) Marshal(ctx context.Context, f Format, v T) ([]byte, error) {
	tree, err := c.Encode(ctx, v, f.Ops())
	if err != nil {
		return nil, err
	}
	data, err := f.Marshal(tree)
	if err != nil {
		return nil, &CodecError{Err: ErrEncode, ContentType: f.ContentType(), Cause: err}
	}
	return data, nil
}

// Unmarshal decodes data with f.
func (c *Codec[T]) Unmarshal(ctx context.Context, f Format, data []byte) (T, error) {
	tree, err := f.Unmarshal(data)
	if err != nil {
		var zero T
		return zero, &CodecError{Err: ErrDecode, ContentType: f.ContentType(), Cause: err}
	}
	return c.Decode(ctx, f.Ops(), tree)
}
