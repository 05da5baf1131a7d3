package middleware

import (
	"context"

	"github.com/reoring/lossy"
)

// Decoded is a request body decoded at an HTTP boundary together with the
// losses recorded while decoding it.
type Decoded[T any] struct {
	Value  T
	Losses lossy.Losses
}

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, d Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, d)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(Decoded[T])
	return v, ok
}

// DefaultDecodeOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies are capped at 4 MiB
func DefaultDecodeOpt() lossy.DecodeOpt {
	return lossy.DecodeOpt{
		Strictness: lossy.Strictness{OnDuplicateKey: lossy.Error},
		MaxBytes:   4 << 20,
	}
}

// LossView is the JSON shape of one loss.
type LossView struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Raw     string `json:"raw,omitempty"`
}

// LossPayload shapes losses for JSON responses.
func LossPayload(ls lossy.Losses) []LossView {
	out := make([]LossView, 0, len(ls))
	for _, l := range ls {
		out = append(out, LossView{Path: l.Path.Pointer(), Message: l.Message, Raw: l.Raw})
	}
	return out
}

// ErrorPayload shapes an unrecoverable decode error for JSON responses.
func ErrorPayload(err error, ls lossy.Losses) map[string]any {
	body := map[string]any{"error": err.Error()}
	if de, ok := lossy.AsDecodeError(err); ok {
		body["kind"] = string(de.Kind)
		body["path"] = de.FullPath().Pointer()
	}
	if len(ls) > 0 {
		body["losses"] = LossPayload(ls)
	}
	return body
}
