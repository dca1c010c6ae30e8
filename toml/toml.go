// Package toml provides a TOML format for codex trees.
package toml

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
	"github.com/zoobzio/codex"
	"github.com/zoobzio/codex/native"
)

// ErrNotTable indicates a tree whose root is not a map. TOML documents are
// always tables.
var ErrNotTable = errors.New("toml: document root must be a map")

// tomlFormat implements codex.Format for TOML.
type tomlFormat struct{}

// New returns a TOML format. Trees are native trees.
func New() codex.Format {
	return &tomlFormat{}
}

// ContentType returns the MIME type for TOML.
func (f *tomlFormat) ContentType() string {
	return "application/toml"
}

// Ops returns the native tree operations.
func (f *tomlFormat) Ops() codex.Ops {
	return native.Ops()
}

// Marshal encodes t as TOML.
func (f *tomlFormat) Marshal(t codex.Tree) ([]byte, error) {
	m, ok := t.(map[string]any)
	if !ok {
		return nil, ErrNotTable
	}
	return toml.Marshal(m)
}

// Unmarshal decodes TOML data into a native tree.
func (f *tomlFormat) Unmarshal(data []byte) (codex.Tree, error) {
	out := map[string]any{}
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
