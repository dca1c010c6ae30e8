package codex

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codex events.
var (
	SignalCodecCreated   = capitan.NewSignal("codex.codec.created", "Codec instantiated")
	SignalResolveFailed  = capitan.NewSignal("codex.resolve.failed", "Adapter resolution failed")
	SignalEncodeStart    = capitan.NewSignal("codex.encode.start", "Encode operation beginning")
	SignalEncodeComplete = capitan.NewSignal("codex.encode.complete", "Encode operation finished")
	SignalDecodeStart    = capitan.NewSignal("codex.decode.start", "Decode operation beginning")
	SignalDecodeComplete = capitan.NewSignal("codex.decode.complete", "Decode operation finished")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyOps         = capitan.NewStringKey("ops")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeyFieldErrors = capitan.NewIntKey("field_errors")
)

// emitCodecCreated emits an event when a codec is created.
func emitCodecCreated(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalCodecCreated,
		KeyTypeName.Field(typeName),
	)
}

// emitResolveFailed emits an event when no adapter could be built.
func emitResolveFailed(typeName string, err error) {
	capitan.Error(context.Background(), SignalResolveFailed,
		KeyTypeName.Field(typeName),
		KeyError.Field(err),
	)
}

// emitEncodeStart emits an event when encode begins.
func emitEncodeStart(ctx context.Context, typeName, ops string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyTypeName.Field(typeName),
		KeyOps.Field(ops),
	)
}

// emitEncodeComplete emits an event when encode finishes.
func emitEncodeComplete(ctx context.Context, typeName, ops string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyOps.Field(ops),
		KeyDuration.Field(duration),
		KeyFieldErrors.Field(fieldErrorCount(err)),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeStart emits an event when decode begins.
func emitDecodeStart(ctx context.Context, typeName, ops string) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyTypeName.Field(typeName),
		KeyOps.Field(ops),
	)
}

// emitDecodeComplete emits an event when decode finishes.
func emitDecodeComplete(ctx context.Context, typeName, ops string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyOps.Field(ops),
		KeyDuration.Field(duration),
		KeyFieldErrors.Field(fieldErrorCount(err)),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// fieldErrorCount counts the field failures aggregated in err.
func fieldErrorCount(err error) int {
	var oe *ObjectError
	if errors.As(err, &oe) {
		return len(oe.Fields)
	}
	if err != nil {
		return 1
	}
	return 0
}
