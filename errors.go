package codex

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnresolvedType indicates no factory produced an adapter for a type.
	ErrUnresolvedType = errors.New("cannot create adapter")

	// ErrConfiguration indicates malformed or conflicting declarations on a type.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrMissingName indicates a member whose serialized name can not be derived.
	ErrMissingName = errors.New("missing serialized name")

	// ErrMissingKey indicates a required field was absent from the input.
	ErrMissingKey = errors.New("missing required key")

	// ErrDecode indicates a tree node could not be read as the requested value.
	ErrDecode = errors.New("decode failed")

	// ErrEncode indicates a value could not be written as a tree node.
	ErrEncode = errors.New("encode failed")

	// ErrOutOfRange indicates a value outside a declared numeric range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrValidation indicates a value rejected by a validator.
	ErrValidation = errors.New("validation failed")

	// ErrNotMap indicates a map node was expected.
	ErrNotMap = errors.New("not a map")

	// ErrNotList indicates a list node was expected.
	ErrNotList = errors.New("not a list")

	// ErrPendingAdapter indicates a placeholder adapter was used before the
	// adapter it stands for was built. This is a programming error.
	ErrPendingAdapter = errors.New("adapter used before it was resolved")
)

// ConfigError represents a declaration error found while building an adapter.
// It wraps a sentinel error with the type and member that carried it.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrConfiguration, ErrMissingName, ...)
	Type   string // Declaring type
	Field  string // Member name, if any
	Detail string // Human readable description
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("could not compute field data")
	if e.Type != "" {
		b.WriteString(" for ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FieldError represents a failure to encode or decode a single field.
type FieldError struct {
	Err   error  // Underlying sentinel error (ErrMissingKey, ErrDecode, ErrEncode)
	Field string // Serialized field name
	Cause error  // Error from the field adapter, if any
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingKey) {
		return fmt.Sprintf("Missing required key: %s", e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// ObjectError aggregates every field failure of one object encode or decode.
// Its message joins the field messages with "; ".
type ObjectError struct {
	Type   string
	Fields []*FieldError
}

func (e *ObjectError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *ObjectError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}

// PartialError is a failure that still carries a best-effort value.
// Callers that can tolerate incomplete data read it with Partial.
type PartialError struct {
	Err   error
	Value any
}

func (e *PartialError) Error() string {
	return e.Err.Error()
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// Partial extracts the best-effort value carried by err, if any.
func Partial(err error) (any, bool) {
	var pe *PartialError
	if errors.As(err, &pe) {
		return pe.Value, true
	}
	return nil, false
}

// CodecError represents a failure of the byte-level format.
type CodecError struct {
	Err         error  // ErrDecode or ErrEncode
	ContentType string // Format that failed
	Cause       error  // Original error from the format library
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.ContentType, e.Err.Error(), e.Cause)
}

func (e *CodecError) Unwrap() []error {
	return []error{e.Err, e.Cause}
}

// joinMessages renders errs as a single "; " separated message.
func joinMessages(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ListError aggregates element failures of a collection decode. Remainder
// holds the raw nodes that failed.
type ListError struct {
	Errs      []error
	Remainder Tree
}

func (e *ListError) Error() string {
	return joinMessages(e.Errs)
}

func (e *ListError) Unwrap() []error {
	return e.Errs
}
