package lossy

import (
	"context"
	"io"
)

// DecodeAs decodes src into a new T.
func DecodeAs[T any](ctx context.Context, src Source, opts ...DecodeOpt) (T, error) {
	var v T
	err := Decode(ctx, src, &v, opts...)
	return v, err
}

// UnmarshalAs decodes JSON bytes into a new T.
func UnmarshalAs[T any](ctx context.Context, data []byte, opts ...DecodeOpt) (T, error) {
	var v T
	err := Unmarshal(ctx, data, &v, opts...)
	return v, err
}

// DecodeCollect decodes src into a new T and returns the losses recorded
// along the way. Reporters already installed on ctx receive them as well.
func DecodeCollect[T any](ctx context.Context, src Source, opts ...DecodeOpt) (T, Losses, error) {
	col := NewCollector()
	var r Reporter = col
	if prev, ok := ReporterFrom(ctx); ok {
		r = Tee(prev, col)
	}
	v, err := DecodeAs[T](WithReporter(ctx, r), src, opts...)
	return v, col.Losses(), err
}

// DecodeReaderCollect is DecodeCollect for a JSON reader.
func DecodeReaderCollect[T any](ctx context.Context, rd io.Reader, opts ...DecodeOpt) (T, Losses, error) {
	col := NewCollector()
	var r Reporter = col
	if prev, ok := ReporterFrom(ctx); ok {
		r = Tee(prev, col)
	}
	var v T
	err := DecodeReader(WithReporter(ctx, r), rd, &v, opts...)
	return v, col.Losses(), err
}
