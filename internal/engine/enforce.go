package engine

import (
	"strconv"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling,
// max depth checks, and max bytes truncation in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// Violation codes.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// Segment is one step of a location inside the token stream.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// Violation is a lightweight enforcement finding.
type Violation struct {
	Code    string
	Path    []Segment
	Key     string
	Message string
}

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// Sink receives non-fatal violations (duplicate keys under DupWarn).
	Sink func(Violation)
}

// ViolationError is a fatal enforcement finding.
type ViolationError struct{ Violation }

func (e ViolationError) Error() string { return e.Violation.Message }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         []Segment
	nextIndex    int
	pendingKey   string
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes. It returns inner
// unchanged when every check is disabled.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	if opt.OnDuplicate == DupIgnore && opt.MaxDepth == 0 && opt.MaxBytes == 0 {
		return inner
	}
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
	depth int
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	path := e.pathForToken(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, path: path}
		}
		e.stack = append(e.stack, f)
		e.depth++
		if e.opt.MaxDepth > 0 && e.depth > e.opt.MaxDepth {
			return Token{}, ViolationError{Violation{Code: CodeParseError, Path: path, Message: "max depth exceeded"}}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		if e.depth > 0 {
			e.depth--
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if !tok.Anonymous && e.opt.OnDuplicate != DupIgnore {
					if _, ok := top.keys[tok.String]; ok {
						v := Violation{
							Code:    CodeDuplicateKey,
							Path:    top.path,
							Key:     tok.String,
							Message: "Duplicate key " + tok.String,
						}
						if e.opt.OnDuplicate == DupError {
							return Token{}, ViolationError{v}
						}
						if e.opt.Sink != nil {
							e.opt.Sink(v)
						}
					}
				}
				if !tok.Anonymous {
					top.keys[tok.String] = struct{}{}
				}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	case KindString, KindNumber, KindBool, KindNull:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return Token{}, ViolationError{Violation{Code: CodeTruncated, Path: path, Message: "max bytes exceeded"}}
		}
	}

	return tok, nil
}

// valueDone flips the enclosing object back to expecting a key.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

func (e *enforcingTokenSource) pathForToken(tok Token) []Segment {
	if len(e.stack) == 0 {
		return nil
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindBeginObject, KindBeginArray, KindString, KindNumber, KindBool, KindNull:
		if top.kind == kindArray {
			p := appendSegment(top.path, Segment{Index: top.nextIndex, IsIndex: true})
			top.nextIndex++
			return p
		}
		if !top.expectingKey {
			return appendSegment(top.path, Segment{Name: top.pendingKey})
		}
	}
	return top.path
}

func appendSegment(base []Segment, s Segment) []Segment {
	out := make([]Segment, len(base)+1)
	copy(out, base)
	out[len(base)] = s
	return out
}

// String renders a segment for messages.
func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
