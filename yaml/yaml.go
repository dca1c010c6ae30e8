// Package yaml provides a YAML format and tree operations over yaml.Node.
package yaml

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/zoobzio/codex"
	"gopkg.in/yaml.v3"
)

// Short tags of the YAML core schema.
const (
	tagNull  = "!!null"
	tagStr   = "!!str"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagBool  = "!!bool"
	tagSeq   = "!!seq"
	tagMap   = "!!map"
)

// nodeOps implements codex.Ops for *yaml.Node trees. The empty value is nil.
type nodeOps struct{}

// Ops returns the yaml.Node tree operations.
func Ops() codex.Ops {
	return nodeOps{}
}

func (nodeOps) Name() string { return "yaml" }

func (nodeOps) Empty() codex.Tree { return nil }

func (nodeOps) CompressMaps() bool { return false }

// node returns the content node behind t, following documents and aliases.
func node(t codex.Tree) *yaml.Node {
	n, ok := t.(*yaml.Node)
	if !ok || n == nil {
		return nil
	}
	for {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) == 1:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
}

func (nodeOps) Kind(t codex.Tree) codex.TreeKind {
	n := node(t)
	if n == nil {
		return codex.KindEmpty
	}
	switch n.Kind {
	case yaml.SequenceNode:
		return codex.KindList
	case yaml.MappingNode:
		return codex.KindMap
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case tagNull:
			return codex.KindEmpty
		case tagInt, tagFloat:
			return codex.KindNumber
		case tagBool:
			return codex.KindBool
		default:
			return codex.KindString
		}
	default:
		return codex.KindEmpty
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (nodeOps) CreateString(s string) codex.Tree {
	return scalar(tagStr, s)
}

func (o nodeOps) StringValue(t codex.Tree) (string, error) {
	if o.Kind(t) != codex.KindString {
		return "", mismatch("string", t)
	}
	return node(t).Value, nil
}

func (nodeOps) CreateNumber(n codex.Number) codex.Tree {
	if !n.IsFloat() {
		return scalar(tagInt, n.String())
	}
	return scalar(tagFloat, formatFloat(n.Float64()))
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (o nodeOps) NumberValue(t codex.Tree) (codex.Number, error) {
	if o.Kind(t) != codex.KindNumber {
		return codex.Number{}, mismatch("number", t)
	}
	n := node(t)
	value := strings.ReplaceAll(n.Value, "_", "")
	if n.ShortTag() == tagFloat {
		switch strings.ToLower(value) {
		case ".inf", "+.inf":
			return codex.Float(math.Inf(1)), nil
		case "-.inf":
			return codex.Float(math.Inf(-1)), nil
		case ".nan":
			return codex.Float(math.NaN()), nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return codex.Number{}, fmt.Errorf("%w: %q is not a float", codex.ErrDecode, n.Value)
		}
		return codex.Float(f), nil
	}
	if num, err := codex.ParseNumber(value); err == nil {
		return num, nil
	}
	i, err := strconv.ParseInt(value, 0, 64)
	if err != nil {
		return codex.Number{}, fmt.Errorf("%w: %q is not an integer", codex.ErrDecode, n.Value)
	}
	return codex.Int(i), nil
}

func (nodeOps) CreateBool(b bool) codex.Tree {
	return scalar(tagBool, strconv.FormatBool(b))
}

func (o nodeOps) BoolValue(t codex.Tree) (bool, error) {
	if o.Kind(t) != codex.KindBool {
		return false, mismatch("bool", t)
	}
	var b bool
	if err := node(t).Decode(&b); err != nil {
		return false, fmt.Errorf("%w: %v", codex.ErrDecode, err)
	}
	return b, nil
}

// content converts a tree into a node that can sit inside a collection.
func content(t codex.Tree) *yaml.Node {
	if n, ok := t.(*yaml.Node); ok && n != nil {
		if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
			return n.Content[0]
		}
		return n
	}
	return scalar(tagNull, "null")
}

func (nodeOps) CreateList(items []codex.Tree) codex.Tree {
	out := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq, Content: make([]*yaml.Node, len(items))}
	for i, item := range items {
		out.Content[i] = content(item)
	}
	return out
}

func (nodeOps) ListValue(t codex.Tree) ([]codex.Tree, error) {
	n := node(t)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: %s", codex.ErrNotList, describe(t))
	}
	out := make([]codex.Tree, len(n.Content))
	for i, c := range n.Content {
		out[i] = c
	}
	return out, nil
}

func (nodeOps) CreateMap(entries []codex.Entry) codex.Tree {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap, Content: make([]*yaml.Node, 0, 2*len(entries))}
	for _, e := range entries {
		out.Content = append(out.Content, scalar(tagStr, e.Key), content(e.Value))
	}
	return out
}

// MapValue returns the entries of t in document order.
func (nodeOps) MapValue(t codex.Tree) ([]codex.Entry, error) {
	n := node(t)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s", codex.ErrNotMap, describe(t))
	}
	entries := make([]codex.Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		entries = append(entries, codex.Entry{Key: n.Content[i].Value, Value: n.Content[i+1]})
	}
	return entries, nil
}

func (o nodeOps) MergeToList(list codex.Tree, value codex.Tree) (codex.Tree, error) {
	if o.Kind(list) == codex.KindEmpty {
		return o.CreateList([]codex.Tree{value}), nil
	}
	n := node(list)
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: %s", codex.ErrNotList, describe(list))
	}
	out := *n
	out.Content = append(slices.Clone(n.Content), content(value))
	return &out, nil
}

func (o nodeOps) MergeToMap(m codex.Tree, key string, value codex.Tree) (codex.Tree, error) {
	if o.Kind(m) == codex.KindEmpty {
		return o.CreateMap([]codex.Entry{{Key: key, Value: value}}), nil
	}
	n := node(m)
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s", codex.ErrNotMap, describe(m))
	}
	out := *n
	out.Content = slices.Clone(n.Content)
	for i := 0; i+1 < len(out.Content); i += 2 {
		if out.Content[i].Value == key {
			out.Content[i+1] = content(value)
			return &out, nil
		}
	}
	out.Content = append(out.Content, scalar(tagStr, key), content(value))
	return &out, nil
}

func (nodeOps) Remove(t codex.Tree, key string) codex.Tree {
	n := node(t)
	if n == nil || n.Kind != yaml.MappingNode {
		return t
	}
	out := *n
	out.Content = make([]*yaml.Node, 0, len(n.Content))
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != key {
			out.Content = append(out.Content, n.Content[i], n.Content[i+1])
		}
	}
	return &out
}

func (o nodeOps) ConvertTo(out codex.Ops, t codex.Tree) codex.Tree {
	return codex.Convert(o, out, t)
}

func mismatch(want string, t codex.Tree) error {
	return fmt.Errorf("%w: not a %s: %s", codex.ErrDecode, want, describe(t))
}

func describe(t codex.Tree) string {
	n := node(t)
	if n == nil {
		return "empty"
	}
	if n.Kind == yaml.ScalarNode {
		return n.ShortTag()
	}
	switch n.Kind {
	case yaml.SequenceNode:
		return tagSeq
	case yaml.MappingNode:
		return tagMap
	default:
		return fmt.Sprintf("node kind %d", n.Kind)
	}
}

// yamlFormat implements codex.Format for YAML.
type yamlFormat struct{}

// New returns a YAML format.
func New() codex.Format {
	return &yamlFormat{}
}

// ContentType returns the MIME type for YAML.
func (f *yamlFormat) ContentType() string {
	return "application/yaml"
}

// Ops returns the yaml.Node tree operations.
func (f *yamlFormat) Ops() codex.Ops {
	return nodeOps{}
}

// Marshal encodes t as YAML.
func (f *yamlFormat) Marshal(t codex.Tree) ([]byte, error) {
	return yaml.Marshal(content(t))
}

// Unmarshal decodes YAML data into a yaml.Node tree.
func (f *yamlFormat) Unmarshal(data []byte) (codex.Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	n := node(&doc)
	if n == nil || n.Kind == 0 || n.Kind == yaml.DocumentNode {
		return nil, nil
	}
	return n, nil
}
