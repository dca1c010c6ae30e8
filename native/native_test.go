package native

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zoobzio/codex"
)

func TestOps_Kind(t *testing.T) {
	ops := Ops()
	tests := []struct {
		name string
		in   codex.Tree
		want codex.TreeKind
	}{
		{"nil", nil, codex.KindEmpty},
		{"string", "x", codex.KindString},
		{"int", 1, codex.KindNumber},
		{"uint8", uint8(1), codex.KindNumber},
		{"json number", json.Number("1.5"), codex.KindNumber},
		{"bool", false, codex.KindBool},
		{"list", []any{}, codex.KindList},
		{"typed slice", []string{"a"}, codex.KindList},
		{"map", map[string]any{}, codex.KindMap},
		{"typed map", map[string]int{}, codex.KindMap},
		{"int keyed map", map[int]int{}, codex.KindEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ops.Kind(tt.in))
		})
	}
}

func TestOps_Scalars(t *testing.T) {
	ops := Ops()

	s, err := ops.StringValue(ops.CreateString("x"))
	require.NoError(t, err)
	require.Equal(t, "x", s)

	n, err := ops.NumberValue(json.Number("12"))
	require.NoError(t, err)
	require.Equal(t, codex.Int(12), n)

	b, err := ops.BoolValue(ops.CreateBool(true))
	require.NoError(t, err)
	require.True(t, b)

	_, err = ops.StringValue(1)
	require.ErrorIs(t, err, codex.ErrDecode)
}

func TestOps_MapValueSorted(t *testing.T) {
	entries, err := Ops().MapValue(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)
	require.Equal(t, []codex.Entry{{Key: "a", Value: 1}, {Key: "b", Value: 2}}, entries)
}

func TestOps_MergeDoesNotMutate(t *testing.T) {
	ops := Ops()

	list := []any{"a"}
	merged, err := ops.MergeToList(list, "b")
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b"}, merged)
	require.Equal(t, []any{"a"}, list)

	m := map[string]any{"a": 1}
	mergedMap, err := ops.MergeToMap(m, "b", 2)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": 1, "b": 2}, mergedMap)
	require.Len(t, m, 1)

	require.Equal(t, map[string]any{"b": 2}, ops.Remove(mergedMap, "a"))

	_, err = ops.MergeToMap([]any{}, "a", 1)
	require.ErrorIs(t, err, codex.ErrNotMap)
}

func TestCompressedOps(t *testing.T) {
	require.False(t, Ops().CompressMaps())
	require.True(t, CompressedOps().CompressMaps())
	require.NotEqual(t, Ops().Name(), CompressedOps().Name())
}

func TestConvertTo(t *testing.T) {
	in := map[string]any{"a": []any{int64(1), "x"}}
	out := Ops().ConvertTo(CompressedOps(), in)
	require.Equal(t, in, out)
}
