// Package msgpack provides a MessagePack format for codex trees.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/codex"
	"github.com/zoobzio/codex/native"
)

// msgpackFormat implements codex.Format for MessagePack.
type msgpackFormat struct{}

// New returns a MessagePack format. Trees are native trees with compressed
// maps, so enum-like values are written as ordinals.
func New() codex.Format {
	return &msgpackFormat{}
}

// ContentType returns the MIME type for MessagePack.
func (f *msgpackFormat) ContentType() string {
	return "application/msgpack"
}

// Ops returns the compressed native tree operations.
func (f *msgpackFormat) Ops() codex.Ops {
	return native.CompressedOps()
}

// Marshal encodes t as MessagePack.
func (f *msgpackFormat) Marshal(t codex.Tree) ([]byte, error) {
	return msgpack.Marshal(t)
}

// Unmarshal decodes MessagePack data into a native tree.
func (f *msgpackFormat) Unmarshal(data []byte) (codex.Tree, error) {
	var out any
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
