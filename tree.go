package codex

import "fmt"

// Tree is a node in a format-agnostic value tree. Its concrete representation
// belongs to the Ops implementation that produced it.
type Tree = any

// TreeKind classifies a Tree node.
type TreeKind int

// Tree node kinds.
const (
	KindEmpty TreeKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k TreeKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("TreeKind(%d)", int(k))
	}
}

// Entry is a single key/value pair of a map node.
type Entry struct {
	Key   string
	Value Tree
}

// Ops creates and inspects the nodes of one tree representation.
// Adapters are written against Ops only and never see the concrete format.
type Ops interface {
	// Name identifies the representation (e.g. "native", "yaml").
	Name() string

	// Empty returns the sentinel for an absent value.
	Empty() Tree

	// Kind reports which kind of node t is.
	Kind(t Tree) TreeKind

	CreateString(s string) Tree
	StringValue(t Tree) (string, error)

	CreateNumber(n Number) Tree
	NumberValue(t Tree) (Number, error)

	CreateBool(b bool) Tree
	BoolValue(t Tree) (bool, error)

	CreateList(items []Tree) Tree
	ListValue(t Tree) ([]Tree, error)

	// CreateMap builds a map node preserving entry order where the
	// representation allows it.
	CreateMap(entries []Entry) Tree
	MapValue(t Tree) ([]Entry, error)

	// MergeToList appends value to list and returns the resulting list.
	// An empty list argument starts a new list. The input is never mutated.
	MergeToList(list Tree, value Tree) (Tree, error)

	// MergeToMap sets key to value in m and returns the resulting map.
	// An empty map argument starts a new map. The input is never mutated.
	MergeToMap(m Tree, key string, value Tree) (Tree, error)

	// Remove returns t without key. Non-map nodes are returned unchanged.
	Remove(t Tree, key string) Tree

	// ConvertTo rebuilds t as an equivalent tree of out.
	ConvertTo(out Ops, t Tree) Tree

	// CompressMaps reports whether enum-like values should be written as
	// ordinals instead of names.
	CompressMaps() bool
}

// Convert rebuilds t, produced by in, as a tree of out.
// Nodes in can not read are converted to out's empty value.
func Convert(in, out Ops, t Tree) Tree {
	switch in.Kind(t) {
	case KindString:
		s, err := in.StringValue(t)
		if err != nil {
			return out.Empty()
		}
		return out.CreateString(s)
	case KindNumber:
		n, err := in.NumberValue(t)
		if err != nil {
			return out.Empty()
		}
		return out.CreateNumber(n)
	case KindBool:
		b, err := in.BoolValue(t)
		if err != nil {
			return out.Empty()
		}
		return out.CreateBool(b)
	case KindList:
		items, err := in.ListValue(t)
		if err != nil {
			return out.Empty()
		}
		converted := make([]Tree, len(items))
		for i, item := range items {
			converted[i] = Convert(in, out, item)
		}
		return out.CreateList(converted)
	case KindMap:
		entries, err := in.MapValue(t)
		if err != nil {
			return out.Empty()
		}
		converted := make([]Entry, len(entries))
		for i, e := range entries {
			converted[i] = Entry{Key: e.Key, Value: Convert(in, out, e.Value)}
		}
		return out.CreateMap(converted)
	default:
		return out.Empty()
	}
}

// Lookup returns the value stored under key in the map node m.
func Lookup(ops Ops, m Tree, key string) (Tree, bool, error) {
	entries, err := ops.MapValue(m)
	if err != nil {
		return nil, false, err
	}
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true, nil
		}
	}
	return nil, false, nil
}

// IsEmpty reports whether t is the absent value of ops.
func IsEmpty(ops Ops, t Tree) bool {
	return ops.Kind(t) == KindEmpty
}

// mergePrimitive places a scalar node under prefix. Scalars can only be
// written into an empty prefix.
func mergePrimitive(ops Ops, prefix, value Tree) (Tree, error) {
	if IsEmpty(ops, prefix) {
		return value, nil
	}
	return nil, fmt.Errorf("%w: cannot merge %s into non-empty %s prefix", ErrEncode, ops.Kind(value), ops.Kind(prefix))
}

// mergeList appends items to prefix, or creates a list when prefix is empty.
func mergeList(ops Ops, prefix Tree, items []Tree) (Tree, error) {
	if IsEmpty(ops, prefix) {
		return ops.CreateList(items), nil
	}
	out := prefix
	for _, item := range items {
		var err error
		out, err = ops.MergeToList(out, item)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// mergeMap sets entries on prefix, or creates a map when prefix is empty.
func mergeMap(ops Ops, prefix Tree, entries []Entry) (Tree, error) {
	if IsEmpty(ops, prefix) {
		return ops.CreateMap(entries), nil
	}
	out := prefix
	for _, e := range entries {
		var err error
		out, err = ops.MergeToMap(out, e.Key, e.Value)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
