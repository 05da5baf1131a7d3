package lossy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/lossy/i18n"
)

// ErrorKind classifies a structured decode failure.
type ErrorKind string

// Error kinds (exported consts for IDE completion and type safety by convention)
const (
	KindKeyNotFound   ErrorKind = "key_not_found"
	KindValueNotFound ErrorKind = "value_not_found"
	KindTypeMismatch  ErrorKind = "type_mismatch"
	KindDataCorrupted ErrorKind = "data_corrupted"
	// Input-level failures raised before any value is decoded.
	KindParseError   ErrorKind = "parse_error"
	KindDuplicateKey ErrorKind = "duplicate_key"
	KindTruncated    ErrorKind = "truncated"
)

// DecodeError is the structured error raised by the decode framework.
type DecodeError struct {
	Kind ErrorKind
	// Path is the location of the container or value being decoded.
	Path Path
	// Key is the missing member for KindKeyNotFound.
	Key *PathSegment
	// Message carries details such as the expected and found shapes.
	Message string
	// Err is an optional underlying error.
	Err error
}

// Error renders e.g. "type mismatch at values.1: expected int, found string".
func (e *DecodeError) Error() string {
	b := &strings.Builder{}
	b.WriteString(i18n.T(string(e.Kind), nil))
	if p := e.FullPath(); len(p) > 0 {
		fmt.Fprintf(b, " at %s", p)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FullPath returns Path, extended with Key for KindKeyNotFound.
func (e *DecodeError) FullPath() Path {
	if e.Kind == KindKeyNotFound && e.Key != nil {
		return e.Path.Append(*e.Key)
	}
	return e.Path
}

// AsDecodeError extracts a *DecodeError using errors.As internally.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries a DecodeError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	de, ok := AsDecodeError(err)
	return ok && de.Kind == kind
}

func keyNotFound(p Path, key string) *DecodeError {
	k := Named(key)
	return &DecodeError{Kind: KindKeyNotFound, Path: p, Key: &k, Message: fmt.Sprintf("no value for key %q", key)}
}

func valueNotFound(p Path, expected string) *DecodeError {
	return &DecodeError{Kind: KindValueNotFound, Path: p, Message: "expected " + expected + ", found null"}
}

func typeMismatch(p Path, expected, found string) *DecodeError {
	return &DecodeError{Kind: KindTypeMismatch, Path: p, Message: "expected " + expected + ", found " + found}
}

func dataCorrupted(p Path, msg string, err error) *DecodeError {
	return &DecodeError{Kind: KindDataCorrupted, Path: p, Message: msg, Err: err}
}

// Losses is a collection of loss records that implements error. It lets
// callers surface recovered losses through ordinary error plumbing.
type Losses []Loss

// Error summarizes the first few losses.
func (ls Losses) Error() string {
	if len(ls) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(ls)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		l := ls[i]
		if len(l.Path) > 0 {
			fmt.Fprintf(b, "%s at %s", l.Message, l.Path)
		} else {
			b.WriteString(l.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Err returns ls as an error, or nil when empty.
func (ls Losses) Err() error {
	if len(ls) == 0 {
		return nil
	}
	return ls
}
