// Package json provides a JSON format for codex trees.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/zoobzio/codex"
	"github.com/zoobzio/codex/native"
)

// jsonFormat implements codex.Format for JSON.
type jsonFormat struct{}

// New returns a JSON format. Trees are native trees; numbers are read as
// json.Number so integers keep their precision.
func New() codex.Format {
	return &jsonFormat{}
}

// ContentType returns the MIME type for JSON.
func (f *jsonFormat) ContentType() string {
	return "application/json"
}

// Ops returns the native tree operations.
func (f *jsonFormat) Ops() codex.Ops {
	return native.Ops()
}

// Marshal encodes t as JSON.
func (f *jsonFormat) Marshal(t codex.Tree) ([]byte, error) {
	return json.Marshal(t)
}

// Unmarshal decodes JSON data into a native tree.
func (f *jsonFormat) Unmarshal(data []byte) (codex.Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("json: trailing data after document")
	}
	return out, nil
}
