package lossy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	eng "github.com/reoring/lossy/internal/engine"
)

// Decode is the primary entry point. It reads one document from src and
// decodes it into v, which must be a non-nil pointer. Resilient wrappers
// inside v report their losses to the reporter installed on ctx with
// WithReporter.
func Decode(ctx context.Context, src Source, v any, opts ...DecodeOpt) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &DecodeError{Kind: KindDataCorrupted, Message: fmt.Sprintf("decode target must be a non-nil pointer, got %T", v)}
	}
	c, err := Open(ctx, src, opts...)
	if err != nil {
		return err
	}
	return decodeValue(c, rv.Elem())
}

// Open reads one document from src and returns a cursor at its root. The
// cursor starts a new session bound to ctx.
func Open(ctx context.Context, src Source, opts ...DecodeOpt) (*Cursor, error) {
	if src == nil {
		return nil, &DecodeError{Kind: KindParseError, Message: "nil source"}
	}
	sess := newSession(ctx, lastOpt(opts))
	root, err := buildTree(sess, src)
	if err != nil {
		return nil, err
	}
	return &Cursor{node: root, sess: sess}, nil
}

// Unmarshal decodes JSON bytes into v using the current JSON driver.
func Unmarshal(ctx context.Context, data []byte, v any, opts ...DecodeOpt) error {
	if err := checkSize(int64(len(data)), lastOpt(opts)); err != nil {
		return err
	}
	return Decode(ctx, JSONBytes(data), v, opts...)
}

// UnmarshalYAML decodes the first YAML document in data into v.
func UnmarshalYAML(ctx context.Context, data []byte, v any, opts ...DecodeOpt) error {
	if err := checkSize(int64(len(data)), lastOpt(opts)); err != nil {
		return err
	}
	return Decode(ctx, YAMLBytes(data), v, opts...)
}

// DecodeReader decodes JSON from r. When MaxBytes is set it enforces the
// size cap up front, otherwise it streams through the current driver.
func DecodeReader(ctx context.Context, r io.Reader, v any, opts ...DecodeOpt) error {
	opt := lastOpt(opts)
	if opt.MaxBytes <= 0 {
		return Decode(ctx, JSONReader(r), v, opts...)
	}
	data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
	if err != nil {
		return &DecodeError{Kind: KindParseError, Err: err}
	}
	return Unmarshal(ctx, data, v, opts...)
}

func checkSize(n int64, opt DecodeOpt) error {
	if opt.MaxBytes > 0 && n > opt.MaxBytes {
		return &DecodeError{Kind: KindTruncated, Message: "max bytes exceeded"}
	}
	return nil
}

// buildTree reads the whole document under the session's enforcement
// options. Duplicate keys tolerated with a warning become losses.
func buildTree(sess *Session, src Source) (*eng.Node, error) {
	opt := sess.opt
	enforced := eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		Sink: func(v eng.Violation) {
			sess.report(Loss{
				Path:    pathFromEngine(v.Path).Append(Named(v.Key)),
				Message: v.Message,
			})
		},
	})
	root, err := eng.BuildTree(enforced)
	if err != nil {
		return nil, toDecodeError(err)
	}
	return root, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

func toDecodeError(err error) error {
	var ve eng.ViolationError
	if errors.As(err, &ve) {
		kind := KindParseError
		switch ve.Code {
		case eng.CodeDuplicateKey:
			kind = KindDuplicateKey
		case eng.CodeTruncated:
			kind = KindTruncated
		}
		de := &DecodeError{Kind: kind, Path: pathFromEngine(ve.Path), Message: ve.Message}
		if ve.Key != "" {
			k := Named(ve.Key)
			de.Key = &k
		}
		return de
	}
	return &DecodeError{Kind: KindParseError, Err: err}
}
