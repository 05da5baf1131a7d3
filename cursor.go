package lossy

import (
	"context"
	"fmt"
	"reflect"

	eng "github.com/reoring/lossy/internal/engine"
)

// Cursor is a read position inside the decoded tree. Cursors are cheap,
// immutable and restartable: reading through one never consumes input, so a
// failed typed read can be followed by a raw read of the same node.
type Cursor struct {
	node *eng.Node // nil when the position holds no value
	path Path
	sess *Session
}

// Unmarshaler is implemented by types that decode themselves from a cursor.
type Unmarshaler interface {
	UnmarshalLossy(c *Cursor) error
}

// absentDecoder is implemented by wrappers that define a value for a key
// missing from its parent object.
type absentDecoder interface {
	decodeAbsent(parent *Cursor, key string) error
}

// Path returns the location of the cursor.
func (c *Cursor) Path() Path { return c.path }

// Session returns the decode session the cursor belongs to.
func (c *Cursor) Session() *Session { return c.sess }

// Context returns the context of the decode session.
func (c *Cursor) Context() context.Context { return c.sess.ctx }

// Exists reports whether the cursor points at a value.
func (c *Cursor) Exists() bool { return c.node != nil }

// Shape names the node kind ("null", "string", "array", ...), or "absent".
func (c *Cursor) Shape() string {
	if c.node == nil {
		return "absent"
	}
	return c.node.Kind.String()
}

func (c *Cursor) child(n *eng.Node, seg PathSegment) *Cursor {
	return &Cursor{node: n, path: c.path.Append(seg), sess: c.sess}
}

// Decode decodes the value at the cursor into dst, which must be a non-nil
// pointer. It reports no losses itself; resilient wrappers inside dst do.
func (c *Cursor) Decode(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &DecodeError{Kind: KindDataCorrupted, Path: c.path, Message: fmt.Sprintf("decode target must be a non-nil pointer, got %T", dst)}
	}
	return decodeValue(c, rv.Elem())
}

// Raw renders the value at the cursor as compact JSON-like text for
// diagnostics. It reports false when the cursor holds no value.
func (c *Cursor) Raw() (string, bool) { return serializeRaw(c) }

// SingleValue opens the cursor as a single value.
func (c *Cursor) SingleValue() SingleValue { return SingleValue{c: c} }

// SingleValue is a cursor opened as one scalar or composite value.
type SingleValue struct{ c *Cursor }

// IsNull reports whether the value is an explicit null.
func (v SingleValue) IsNull() bool { return v.c.node != nil && v.c.node.Kind == eng.NodeNull }

// Decode decodes the value into dst.
func (v SingleValue) Decode(dst any) error { return v.c.Decode(dst) }

// Sequence opens the cursor as an ordered sequence.
func (c *Cursor) Sequence() (*SequenceCursor, error) {
	switch {
	case c.node == nil:
		return nil, valueNotFound(c.path, "array")
	case c.node.Kind == eng.NodeNull:
		return nil, valueNotFound(c.path, "array")
	case c.node.Kind != eng.NodeArray:
		return nil, typeMismatch(c.path, "array", c.node.Kind.String())
	}
	return &SequenceCursor{parent: c}, nil
}

// SequenceCursor walks the elements of a sequence with an explicit index.
type SequenceCursor struct {
	parent *Cursor
	idx    int
}

// Len returns the number of elements.
func (s *SequenceCursor) Len() int { return len(s.parent.node.Elems) }

// Index returns the zero-based position of the current element.
func (s *SequenceCursor) Index() int { return s.idx }

// AtEnd reports whether every element has been visited.
func (s *SequenceCursor) AtEnd() bool { return s.idx >= s.Len() }

// Element returns a raw sub-cursor at the current element without consuming it.
func (s *SequenceCursor) Element() *Cursor {
	if s.AtEnd() {
		return &Cursor{path: s.parent.path.Append(Indexed(s.idx)), sess: s.parent.sess}
	}
	return s.parent.child(s.parent.node.Elems[s.idx], Indexed(s.idx))
}

// Decode decodes the current element into dst and advances only on success.
func (s *SequenceCursor) Decode(dst any) error {
	if s.AtEnd() {
		return valueNotFound(s.parent.path.Append(Indexed(s.idx)), "element")
	}
	if err := s.Element().Decode(dst); err != nil {
		return err
	}
	s.idx++
	return nil
}

// Advance skips the current element.
func (s *SequenceCursor) Advance() {
	if !s.AtEnd() {
		s.idx++
	}
}

// Keyed opens the cursor as a keyed container.
func (c *Cursor) Keyed() (*KeyedCursor, error) {
	switch {
	case c.node == nil:
		return nil, valueNotFound(c.path, "object")
	case c.node.Kind == eng.NodeNull:
		return nil, valueNotFound(c.path, "object")
	case c.node.Kind != eng.NodeObject:
		return nil, typeMismatch(c.path, "object", c.node.Kind.String())
	}
	return &KeyedCursor{parent: c}, nil
}

// KeyedCursor gives access to the members of an object.
type KeyedCursor struct {
	parent *Cursor
}

// Keys lists the members in input order. Members without a textual name in
// the source format are returned as Indexed(position).
func (k *KeyedCursor) Keys() []PathSegment {
	fields := k.parent.node.Fields
	out := make([]PathSegment, len(fields))
	for i, f := range fields {
		if f.Named {
			out[i] = Named(f.Key)
		} else {
			out[i] = Indexed(i)
		}
	}
	return out
}

// Contains reports whether the named member is present.
func (k *KeyedCursor) Contains(key string) bool {
	_, ok := k.parent.node.Lookup(key)
	return ok
}

// Cursor returns a sub-cursor for the named member.
func (k *KeyedCursor) Cursor(key string) (*Cursor, error) {
	n, ok := k.parent.node.Lookup(key)
	if !ok {
		return nil, keyNotFound(k.parent.path, key)
	}
	return k.parent.child(n, Named(key)), nil
}

// At returns a sub-cursor for a segment returned by Keys.
func (k *KeyedCursor) At(seg PathSegment) (*Cursor, error) {
	if !seg.IsIndex() {
		return k.Cursor(seg.Name())
	}
	fields := k.parent.node.Fields
	if seg.Index() < 0 || seg.Index() >= len(fields) {
		return nil, keyNotFound(k.parent.path, seg.String())
	}
	return k.parent.child(fields[seg.Index()].Value, seg), nil
}
