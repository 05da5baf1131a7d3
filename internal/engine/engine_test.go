package engine

import (
	"errors"
	"io"
	"testing"
)

type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return -1 }

func key(k string) Token          { return Token{Kind: KindKey, String: k} }
func num(n string) Token          { return Token{Kind: KindNumber, Number: n} }
func str(v string) Token          { return Token{Kind: KindString, String: v} }
func tok(k Kind) Token            { return Token{Kind: k} }
func anonymousKey() Token         { return Token{Kind: KindKey, Anonymous: true} }
func src(t ...Token) *sliceSource { return &sliceSource{toks: t} }

func TestBuildTree_DuplicateKeepsFirstPositionLastValue(t *testing.T) {
	n, err := BuildTree(src(tok(KindBeginObject), key("a"), num("1"), key("b"), num("2"), key("a"), num("3"), tok(KindEndObject)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.Fields) != 2 || n.Fields[0].Key != "a" || n.Fields[0].Value.Num != "3" {
		t.Fatalf("unexpected fields: %+v", n.Fields)
	}
	if got := string(AppendJSON(nil, n)); got != `{"a":3,"b":2}` {
		t.Fatalf("unexpected encoding: %s", got)
	}
}

func TestBuildTree_AnonymousKeys(t *testing.T) {
	n, err := BuildTree(src(tok(KindBeginObject), anonymousKey(), str("x"), key("k"), tok(KindBeginArray), tok(KindEndArray), tok(KindEndObject)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Fields[0].Named {
		t.Fatalf("expected anonymous first key")
	}
	if _, ok := n.Lookup("k"); !ok {
		t.Fatalf("expected k to be found")
	}
	if got := string(AppendJSON(nil, n)); got != `{"Index 0":"x","k":[]}` {
		t.Fatalf("unexpected encoding: %s", got)
	}
}

func TestBuildTree_Errors(t *testing.T) {
	if _, err := BuildTree(src()); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
	if _, err := BuildTree(src(tok(KindBeginArray), num("1"))); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
	if _, err := BuildTree(src(num("1"), num("2"))); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected trailing data, got %v", err)
	}
}

func TestEnforcement_DuplicateWarnGoesToSink(t *testing.T) {
	var got []Violation
	s := WrapWithEnforcement(src(tok(KindBeginArray), tok(KindBeginObject), key("a"), num("1"), key("a"), num("2"), tok(KindEndObject), tok(KindEndArray)),
		EnforceOptions{OnDuplicate: DupWarn, Sink: func(v Violation) { got = append(got, v) }})
	if _, err := BuildTree(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Key != "a" || len(got[0].Path) != 1 || got[0].Path[0].Index != 0 {
		t.Fatalf("unexpected violations: %+v", got)
	}
}

func TestEnforcement_MaxDepth(t *testing.T) {
	s := WrapWithEnforcement(src(tok(KindBeginArray), tok(KindBeginArray), tok(KindEndArray), tok(KindEndArray)), EnforceOptions{MaxDepth: 1})
	_, err := BuildTree(s)
	var ve ViolationError
	if !errors.As(err, &ve) || ve.Code != CodeParseError {
		t.Fatalf("expected depth violation, got %v", err)
	}
}

func TestWrapWithEnforcement_Disabled(t *testing.T) {
	inner := src()
	if WrapWithEnforcement(inner, EnforceOptions{}) != TokenSource(inner) {
		t.Fatalf("expected inner source when every check is disabled")
	}
}
