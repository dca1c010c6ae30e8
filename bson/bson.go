// Package bson provides a BSON format and tree operations over bson.D.
package bson

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/zoobzio/codex"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotDocument indicates a tree whose root is not a map. BSON data is
// always a document.
var ErrNotDocument = errors.New("bson: document root must be a map")

// docOps implements codex.Ops for BSON trees: bson.D for maps, bson.A for
// lists, string, int32, int64, float64 and bool scalars, nil for empty.
type docOps struct{}

// Ops returns the BSON tree operations.
func Ops() codex.Ops {
	return docOps{}
}

func (docOps) Name() string { return "bson" }

func (docOps) Empty() codex.Tree { return nil }

func (docOps) CompressMaps() bool { return false }

func (docOps) Kind(t codex.Tree) codex.TreeKind {
	switch x := t.(type) {
	case nil:
		return codex.KindEmpty
	case string:
		return codex.KindString
	case bool:
		return codex.KindBool
	case bson.A, []any:
		return codex.KindList
	case bson.D, bson.M, map[string]any:
		return codex.KindMap
	default:
		if _, ok := codex.NumberOf(x); ok {
			return codex.KindNumber
		}
		return codex.KindEmpty
	}
}

func (docOps) CreateString(s string) codex.Tree { return s }

func (docOps) StringValue(t codex.Tree) (string, error) {
	s, ok := t.(string)
	if !ok {
		return "", mismatch("string", t)
	}
	return s, nil
}

// CreateNumber stores integers as int64. Unsigned values above the int64
// range fall back to float64, which BSON can represent.
func (docOps) CreateNumber(n codex.Number) codex.Tree {
	switch v := n.Value().(type) {
	case uint64:
		if v > math.MaxInt64 {
			return float64(v)
		}
		return int64(v)
	default:
		return v
	}
}

func (docOps) NumberValue(t codex.Tree) (codex.Number, error) {
	n, ok := codex.NumberOf(t)
	if !ok {
		return codex.Number{}, mismatch("number", t)
	}
	return n, nil
}

func (docOps) CreateBool(b bool) codex.Tree { return b }

func (docOps) BoolValue(t codex.Tree) (bool, error) {
	b, ok := t.(bool)
	if !ok {
		return false, mismatch("bool", t)
	}
	return b, nil
}

func (docOps) CreateList(items []codex.Tree) codex.Tree {
	out := make(bson.A, len(items))
	copy(out, items)
	return out
}

func (docOps) ListValue(t codex.Tree) ([]codex.Tree, error) {
	switch x := t.(type) {
	case bson.A:
		return x, nil
	case []any:
		return x, nil
	default:
		return nil, fmt.Errorf("%w: %s", codex.ErrNotList, describe(t))
	}
}

func (docOps) CreateMap(entries []codex.Entry) codex.Tree {
	out := make(bson.D, len(entries))
	for i, e := range entries {
		out[i] = bson.E{Key: e.Key, Value: e.Value}
	}
	return out
}

// MapValue returns the entries of a document in order. Unordered maps are
// returned ordered by key.
func (docOps) MapValue(t codex.Tree) ([]codex.Entry, error) {
	d, err := asDoc(t)
	if err != nil {
		return nil, err
	}
	entries := make([]codex.Entry, len(d))
	for i, e := range d {
		entries[i] = codex.Entry{Key: e.Key, Value: e.Value}
	}
	return entries, nil
}

func (o docOps) MergeToList(list codex.Tree, value codex.Tree) (codex.Tree, error) {
	if list == nil {
		return bson.A{value}, nil
	}
	items, err := o.ListValue(list)
	if err != nil {
		return nil, err
	}
	out := make(bson.A, len(items), len(items)+1)
	copy(out, items)
	return append(out, value), nil
}

func (docOps) MergeToMap(m codex.Tree, key string, value codex.Tree) (codex.Tree, error) {
	if m == nil {
		return bson.D{{Key: key, Value: value}}, nil
	}
	d, err := asDoc(m)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(d)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out, nil
		}
	}
	return append(out, bson.E{Key: key, Value: value}), nil
}

func (docOps) Remove(t codex.Tree, key string) codex.Tree {
	d, err := asDoc(t)
	if err != nil {
		return t
	}
	return slices.DeleteFunc(slices.Clone(d), func(e bson.E) bool { return e.Key == key })
}

func (o docOps) ConvertTo(out codex.Ops, t codex.Tree) codex.Tree {
	return codex.Convert(o, out, t)
}

func asDoc(t codex.Tree) (bson.D, error) {
	var m map[string]any
	switch x := t.(type) {
	case bson.D:
		return x, nil
	case bson.M:
		m = x
	case map[string]any:
		m = x
	default:
		return nil, fmt.Errorf("%w: %s", codex.ErrNotMap, describe(t))
	}
	d := make(bson.D, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		d = append(d, bson.E{Key: k, Value: m[k]})
	}
	return d, nil
}

func mismatch(want string, t codex.Tree) error {
	return fmt.Errorf("%w: not a %s: %s", codex.ErrDecode, want, describe(t))
}

func describe(t codex.Tree) string {
	if t == nil {
		return "empty"
	}
	return fmt.Sprintf("%T", t)
}

// bsonFormat implements codex.Format for BSON.
type bsonFormat struct{}

// New returns a BSON format.
func New() codex.Format {
	return &bsonFormat{}
}

// ContentType returns the MIME type for BSON.
func (f *bsonFormat) ContentType() string {
	return "application/bson"
}

// Ops returns the BSON tree operations.
func (f *bsonFormat) Ops() codex.Ops {
	return docOps{}
}

// Marshal encodes t as a BSON document.
func (f *bsonFormat) Marshal(t codex.Tree) ([]byte, error) {
	d, err := asDoc(t)
	if err != nil {
		return nil, ErrNotDocument
	}
	return bson.Marshal(d)
}

// Unmarshal decodes a BSON document into a bson.D tree.
func (f *bsonFormat) Unmarshal(data []byte) (codex.Tree, error) {
	var d bson.D
	if err := bson.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d, nil
}
