package engine

import (
	"errors"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
// Anonymous marks a KindKey token whose key has no textual name in the
// source format (for example a YAML mapping used as a key).
type Token struct {
	Kind      Kind
	String    string
	Number    string
	Bool      bool
	Anonymous bool
	Offset    int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// NodeKind classifies a node of the decoded tree.
type NodeKind int

const (
	NodeNull NodeKind = iota
	NodeBool
	NodeNumber
	NodeString
	NodeArray
	NodeObject
)

func (k NodeKind) String() string {
	switch k {
	case NodeNull:
		return "null"
	case NodeBool:
		return "bool"
	case NodeNumber:
		return "number"
	case NodeString:
		return "string"
	case NodeArray:
		return "array"
	case NodeObject:
		return "object"
	}
	return "unknown"
}

// Node is one value of the decoded tree. Numbers keep their literal text and
// objects keep their key order.
type Node struct {
	Kind   NodeKind
	Str    string
	Num    string
	Bool   bool
	Elems  []*Node
	Fields []Field
	Offset int64
}

// Field is a single object member. Named is false when the key has no
// textual name in the source format.
type Field struct {
	Key   string
	Named bool
	Value *Node
}

// Lookup returns the value for a named key.
func (n *Node) Lookup(key string) (*Node, bool) {
	if n == nil || n.Kind != NodeObject {
		return nil, false
	}
	for i := range n.Fields {
		if n.Fields[i].Named && n.Fields[i].Key == key {
			return n.Fields[i].Value, true
		}
	}
	return nil, false
}

// ErrTrailingData is returned when a source holds more than one top-level value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// BuildTree consumes exactly one value from src and returns it as a Node tree.
// Duplicate keys keep the position of the first occurrence and the value of
// the last one.
func BuildTree(src TokenSource) (*Node, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	root, err := buildValue(src, tok)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); err == nil {
		return nil, ErrTrailingData
	} else if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return root, nil
}

func buildValue(src TokenSource, tok Token) (*Node, error) {
	switch tok.Kind {
	case KindBeginObject:
		return buildObject(src, tok.Offset)
	case KindBeginArray:
		return buildArray(src, tok.Offset)
	case KindString:
		return &Node{Kind: NodeString, Str: tok.String, Offset: tok.Offset}, nil
	case KindNumber:
		return &Node{Kind: NodeNumber, Num: tok.Number, Offset: tok.Offset}, nil
	case KindBool:
		return &Node{Kind: NodeBool, Bool: tok.Bool, Offset: tok.Offset}, nil
	case KindNull:
		return &Node{Kind: NodeNull, Offset: tok.Offset}, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func buildObject(src TokenSource, off int64) (*Node, error) {
	n := &Node{Kind: NodeObject, Offset: off}
	var seen map[string]int
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if tok.Kind == KindEndObject {
			return n, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		v, err := buildValue(src, vt)
		if err != nil {
			return nil, err
		}
		if tok.Anonymous {
			n.Fields = append(n.Fields, Field{Value: v})
			continue
		}
		if seen == nil {
			seen = make(map[string]int)
		}
		if i, dup := seen[tok.String]; dup {
			n.Fields[i].Value = v
			continue
		}
		seen[tok.String] = len(n.Fields)
		n.Fields = append(n.Fields, Field{Key: tok.String, Named: true, Value: v})
	}
}

func buildArray(src TokenSource, off int64) (*Node, error) {
	n := &Node{Kind: NodeArray, Offset: off, Elems: []*Node{}}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if tok.Kind == KindEndArray {
			return n, nil
		}
		v, err := buildValue(src, tok)
		if err != nil {
			return nil, err
		}
		n.Elems = append(n.Elems, v)
	}
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
