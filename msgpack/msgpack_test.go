package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zoobzio/codex"
)

func TestContentType(t *testing.T) {
	require.Equal(t, "application/msgpack", New().ContentType())
}

func TestOpsCompressMaps(t *testing.T) {
	require.True(t, New().Ops().CompressMaps(), "msgpack trees write enum-like values as ordinals")
}

func TestMarshalUnmarshal(t *testing.T) {
	f := New()
	tree := map[string]any{"name": "test", "value": int64(42), "ratio": 0.5, "tags": []any{"a", "b"}, "ok": true}

	data, err := f.Marshal(tree)
	require.NoError(t, err)

	restored, err := f.Unmarshal(data)
	require.NoError(t, err)

	ops := f.Ops()
	entries, err := ops.MapValue(restored)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	value, ok, err := codex.Lookup(ops, restored, "value")
	require.NoError(t, err)
	require.True(t, ok)
	n, err := ops.NumberValue(value)
	require.NoError(t, err)
	i, err := n.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(42), i)

	tags, _, err := codex.Lookup(ops, restored, "tags")
	require.NoError(t, err)
	require.Equal(t, codex.KindList, ops.Kind(tags))
}

func TestUnmarshalInvalid(t *testing.T) {
	_, err := New().Unmarshal([]byte{0xc1})
	require.Error(t, err)
}
