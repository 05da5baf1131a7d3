package lossy

import (
	"context"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Value holds a required value. A failed decode is reported as a loss and
// returned, leaving the previous payload untouched.
type Value[T any] struct {
	Wrapped T
}

// NewValue wraps v.
func NewValue[T any](v T) Value[T] { return Value[T]{Wrapped: v} }

// Get returns the payload.
func (v Value[T]) Get() T { return v.Wrapped }

func (v *Value[T]) UnmarshalLossy(c *Cursor) error {
	return decodeScalar(c, &v.Wrapped)
}

// A required value with no key in its parent is reported and propagated.
func (v *Value[T]) decodeAbsent(parent *Cursor, key string) error {
	err := keyNotFound(parent.path, key)
	reportLoss(parent.child(nil, Named(key)), MsgRequiredFailed, err)
	return err
}

// UnmarshalJSON lets the wrapper work under encoding/json. Losses go to a
// no-op reporter.
func (v *Value[T]) UnmarshalJSON(b []byte) error {
	return Unmarshal(context.Background(), b, v)
}

func (v *Value[T]) UnmarshalYAML(n *yaml.Node) error {
	return unmarshalYAMLNode(n, v)
}

func (v Value[T]) MarshalJSON() ([]byte, error) { return json.Marshal(v.Wrapped) }

func (v Value[T]) MarshalYAML() (any, error) { return v.Wrapped, nil }

// JSONSchemaAlias makes schema generators describe the payload type.
func (Value[T]) JSONSchemaAlias() any { return new(T) }

// Slice holds a sequence whose invalid elements are dropped and reported.
type Slice[T any] struct {
	Wrapped []T
}

// NewSlice wraps elems.
func NewSlice[T any](elems ...T) Slice[T] { return Slice[T]{Wrapped: elems} }

// Get returns the elements.
func (s Slice[T]) Get() []T { return s.Wrapped }

// Len returns the number of elements.
func (s Slice[T]) Len() int { return len(s.Wrapped) }

func (s *Slice[T]) UnmarshalLossy(c *Cursor) error {
	out, err := decodeSequence[T](c)
	if err != nil {
		return err
	}
	s.Wrapped = out
	return nil
}

// A missing sequence decodes as empty.
func (s *Slice[T]) decodeAbsent(*Cursor, string) error {
	s.Wrapped = []T{}
	return nil
}

func (s *Slice[T]) UnmarshalJSON(b []byte) error {
	return Unmarshal(context.Background(), b, s)
}

func (s *Slice[T]) UnmarshalYAML(n *yaml.Node) error {
	return unmarshalYAMLNode(n, s)
}

func (s Slice[T]) MarshalJSON() ([]byte, error) {
	if s.Wrapped == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Wrapped)
}

func (s Slice[T]) MarshalYAML() (any, error) {
	if s.Wrapped == nil {
		return []T{}, nil
	}
	return s.Wrapped, nil
}

func (Slice[T]) JSONSchemaAlias() any { return new([]T) }

// Optional holds a value that resolves to absent on null, on a missing key
// or on any invalid input. Invalid input is reported. A slice payload is
// decoded as one value; use OptionalSlice to drop invalid elements instead.
type Optional[T any] struct {
	Wrapped T
	Valid   bool
}

// Some returns a present optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Wrapped: v, Valid: true} }

// None returns an absent optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the payload and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.Wrapped, o.Valid }

// OrElse returns the payload, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.Valid {
		return o.Wrapped
	}
	return def
}

// IsZero reports absence; it lets encoders honor omitempty-style options.
func (o Optional[T]) IsZero() bool { return !o.Valid }

func (o *Optional[T]) UnmarshalLossy(c *Cursor) error {
	o.Wrapped, o.Valid = decodeOptional[T](c)
	return nil
}

func (o *Optional[T]) decodeAbsent(*Cursor, string) error {
	*o = None[T]()
	return nil
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	return Unmarshal(context.Background(), b, o)
}

func (o *Optional[T]) UnmarshalYAML(n *yaml.Node) error {
	return unmarshalYAMLNode(n, o)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Wrapped)
}

func (o Optional[T]) MarshalYAML() (any, error) {
	if !o.Valid {
		return nil, nil
	}
	return o.Wrapped, nil
}

func (Optional[T]) JSONSchemaAlias() any { return new(T) }

// OptionalSlice holds a sequence that resolves to absent when the input is
// null, missing, or not a sequence. Invalid elements are dropped as in Slice.
type OptionalSlice[T any] struct {
	Wrapped []T
	Valid   bool
}

// SomeSlice returns a present optional sequence.
func SomeSlice[T any](elems ...T) OptionalSlice[T] {
	if elems == nil {
		elems = []T{}
	}
	return OptionalSlice[T]{Wrapped: elems, Valid: true}
}

// NoneSlice returns an absent optional sequence.
func NoneSlice[T any]() OptionalSlice[T] { return OptionalSlice[T]{} }

func (o OptionalSlice[T]) Get() ([]T, bool) { return o.Wrapped, o.Valid }

func (o OptionalSlice[T]) IsZero() bool { return !o.Valid }

func (o *OptionalSlice[T]) UnmarshalLossy(c *Cursor) error {
	o.Wrapped, o.Valid = decodeOptionalSequence[T](c)
	return nil
}

func (o *OptionalSlice[T]) decodeAbsent(*Cursor, string) error {
	*o = NoneSlice[T]()
	return nil
}

func (o *OptionalSlice[T]) UnmarshalJSON(b []byte) error {
	return Unmarshal(context.Background(), b, o)
}

func (o *OptionalSlice[T]) UnmarshalYAML(n *yaml.Node) error {
	return unmarshalYAMLNode(n, o)
}

func (o OptionalSlice[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	if o.Wrapped == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.Wrapped)
}

func (o OptionalSlice[T]) MarshalYAML() (any, error) {
	if !o.Valid {
		return nil, nil
	}
	if o.Wrapped == nil {
		return []T{}, nil
	}
	return o.Wrapped, nil
}

func (OptionalSlice[T]) JSONSchemaAlias() any { return new([]T) }

// unmarshalYAMLNode re-reads a yaml.v3 node through the YAML driver so the
// wrappers behave the same under yaml.Unmarshal.
func unmarshalYAMLNode(n *yaml.Node, v any) error {
	b, err := yaml.Marshal(n)
	if err != nil {
		return &DecodeError{Kind: KindParseError, Err: err}
	}
	return UnmarshalYAML(context.Background(), b, v)
}

// mayBeAbsent is implemented by wrappers that accept a missing key without a
// loss.
type mayBeAbsent interface{ mayBeAbsent() }

func (Slice[T]) mayBeAbsent()         {}
func (Optional[T]) mayBeAbsent()      {}
func (OptionalSlice[T]) mayBeAbsent() {}
