package lossy

import (
	"encoding"
	"encoding/base64"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	eng "github.com/reoring/lossy/internal/engine"
)

var (
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	absentDecoderType   = reflect.TypeFor[absentDecoder]()
	jsonUnmarshalerType = reflect.TypeFor[stdjson.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	numberType          = reflect.TypeFor[stdjson.Number]()
)

// decodeValue decodes the node at c into rv, which must be settable.
func decodeValue(c *Cursor, rv reflect.Value) error {
	if c.node == nil {
		return valueNotFound(c.path, rv.Type().String())
	}

	if rv.Kind() == reflect.Pointer {
		if c.node.Kind == eng.NodeNull {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeValue(c, rv.Elem())
	}

	if rv.CanAddr() {
		pv := rv.Addr()
		switch {
		case pv.Type().Implements(unmarshalerType):
			return pv.Interface().(Unmarshaler).UnmarshalLossy(c)
		case pv.Type().Implements(jsonUnmarshalerType):
			if err := pv.Interface().(stdjson.Unmarshaler).UnmarshalJSON(eng.AppendJSON(nil, c.node)); err != nil {
				return wrapCustom(c, err)
			}
			return nil
		case c.node.Kind == eng.NodeString && pv.Type().Implements(textUnmarshalerType):
			if err := pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(c.node.Str)); err != nil {
				return wrapCustom(c, err)
			}
			return nil
		}
	}

	if rv.Type() == numberType {
		return decodeNumber(c, rv)
	}

	switch rv.Kind() {
	case reflect.Interface:
		return decodeInterface(c, rv)
	case reflect.Slice:
		return decodeSlice(c, rv)
	case reflect.Map:
		return decodeMap(c, rv)
	}

	if c.node.Kind == eng.NodeNull {
		return valueNotFound(c.path, rv.Type().String())
	}

	switch rv.Kind() {
	case reflect.Bool:
		if c.node.Kind != eng.NodeBool {
			return typeMismatch(c.path, "bool", c.node.Kind.String())
		}
		rv.SetBool(c.node.Bool)
	case reflect.String:
		if c.node.Kind != eng.NodeString {
			return typeMismatch(c.path, "string", c.node.Kind.String())
		}
		rv.SetString(c.node.Str)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if c.node.Kind != eng.NodeNumber {
			return typeMismatch(c.path, rv.Type().String(), c.node.Kind.String())
		}
		n, err := strconv.ParseInt(c.node.Num, 10, rv.Type().Bits())
		if err != nil {
			return numberError(c, rv.Type(), err)
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if c.node.Kind != eng.NodeNumber {
			return typeMismatch(c.path, rv.Type().String(), c.node.Kind.String())
		}
		n, err := strconv.ParseUint(c.node.Num, 10, rv.Type().Bits())
		if err != nil {
			return numberError(c, rv.Type(), err)
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if c.node.Kind != eng.NodeNumber {
			return typeMismatch(c.path, rv.Type().String(), c.node.Kind.String())
		}
		f, err := strconv.ParseFloat(c.node.Num, rv.Type().Bits())
		if err != nil {
			return numberError(c, rv.Type(), err)
		}
		rv.SetFloat(f)
	case reflect.Array:
		return decodeArray(c, rv)
	case reflect.Struct:
		return decodeStruct(c, rv)
	default:
		return typeMismatch(c.path, rv.Type().String(), c.node.Kind.String())
	}
	return nil
}

func numberError(c *Cursor, t reflect.Type, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return dataCorrupted(c.path, fmt.Sprintf("number %s does not fit in %s", c.node.Num, t), nil)
	}
	return dataCorrupted(c.path, fmt.Sprintf("number %s is not a valid %s", c.node.Num, t), nil)
}

func wrapCustom(c *Cursor, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return dataCorrupted(c.path, "", err)
}

func decodeNumber(c *Cursor, rv reflect.Value) error {
	if c.node.Kind == eng.NodeNull {
		return valueNotFound(c.path, "number")
	}
	if c.node.Kind != eng.NodeNumber {
		return typeMismatch(c.path, "number", c.node.Kind.String())
	}
	if !isValidNumber(c.node.Num) {
		return dataCorrupted(c.path, fmt.Sprintf("%s is not a decimal number", c.node.Num), nil)
	}
	rv.SetString(c.node.Num)
	return nil
}

func decodeInterface(c *Cursor, rv reflect.Value) error {
	if rv.Type().NumMethod() != 0 {
		return typeMismatch(c.path, rv.Type().String(), c.node.Kind.String())
	}
	v, err := nodeToAny(c.node, c.sess.opt.UseNumber)
	if err != nil {
		return dataCorrupted(c.path, "", err)
	}
	if v == nil {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	rv.Set(reflect.ValueOf(v))
	return nil
}

func decodeSlice(c *Cursor, rv reflect.Value) error {
	switch c.node.Kind {
	case eng.NodeNull:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case eng.NodeString:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b, err := base64.StdEncoding.DecodeString(c.node.Str)
			if err != nil {
				return dataCorrupted(c.path, "invalid base64 data", err)
			}
			rv.SetBytes(b)
			return nil
		}
	}
	seq, err := c.Sequence()
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(rv.Type(), seq.Len(), seq.Len())
	for i := 0; !seq.AtEnd(); i++ {
		if err := decodeValue(seq.Element(), out.Index(i)); err != nil {
			return err
		}
		seq.Advance()
	}
	rv.Set(out)
	return nil
}

func decodeArray(c *Cursor, rv reflect.Value) error {
	seq, err := c.Sequence()
	if err != nil {
		return err
	}
	n := rv.Len()
	for i := 0; i < n; i++ {
		if seq.AtEnd() {
			rv.Index(i).Set(reflect.Zero(rv.Type().Elem()))
			continue
		}
		if err := decodeValue(seq.Element(), rv.Index(i)); err != nil {
			return err
		}
		seq.Advance()
	}
	return nil
}

func decodeMap(c *Cursor, rv reflect.Value) error {
	if c.node.Kind == eng.NodeNull {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	kc, err := c.Keyed()
	if err != nil {
		return err
	}
	mt := rv.Type()
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(mt, len(c.node.Fields)))
	}
	for _, seg := range kc.Keys() {
		name := keyName(seg)
		key, err := mapKey(mt.Key(), name)
		if err != nil {
			return dataCorrupted(c.path, fmt.Sprintf("invalid map key %q", name), err)
		}
		sub, err := kc.At(seg)
		if err != nil {
			return err
		}
		elem := reflect.New(mt.Elem()).Elem()
		if err := decodeValue(sub, elem); err != nil {
			return err
		}
		rv.SetMapIndex(key, elem)
	}
	return nil
}

// keyName renders a key segment; keys without a textual name become "Index N".
func keyName(seg PathSegment) string {
	if seg.IsIndex() {
		return "Index " + strconv.Itoa(seg.Index())
	}
	return seg.Name()
}

func mapKey(t reflect.Type, name string) (reflect.Value, error) {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		kv := reflect.New(t)
		if err := kv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(name)); err != nil {
			return reflect.Value{}, err
		}
		return kv.Elem(), nil
	}
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(name).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(name, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(name, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported map key type %s", t)
}

func decodeStruct(c *Cursor, rv reflect.Value) error {
	kc, err := c.Keyed()
	if err != nil {
		return err
	}
	fields := structFields(rv.Type())
	used := make([]bool, len(c.node.Fields))
	for _, f := range fields {
		pos := lookupField(c.node, f.key, used)
		if pos < 0 {
			if !reflect.PointerTo(f.typ).Implements(absentDecoderType) {
				continue
			}
			if ad, ok := absentTarget(fieldByIndexAlloc(rv, f.index)); ok {
				if err := ad.decodeAbsent(c, f.key); err != nil {
					return err
				}
			}
			continue
		}
		used[pos] = true
		sub := c.child(c.node.Fields[pos].Value, Named(c.node.Fields[pos].Key))
		if err := decodeValue(sub, fieldByIndexAlloc(rv, f.index)); err != nil {
			return err
		}
	}
	if c.sess.opt.DisallowUnknownKeys {
		for i, seg := range kc.Keys() {
			if !used[i] {
				return dataCorrupted(c.path, fmt.Sprintf("unknown key %q", keyName(seg)), nil)
			}
		}
	}
	return nil
}

// lookupField finds the member for key: exact match first, then a
// case-insensitive match, skipping members already claimed.
func lookupField(n *eng.Node, key string, used []bool) int {
	for i, f := range n.Fields {
		if f.Named && !used[i] && f.Key == key {
			return i
		}
	}
	for i, f := range n.Fields {
		if f.Named && !used[i] && strings.EqualFold(f.Key, key) {
			return i
		}
	}
	return -1
}

func absentTarget(fv reflect.Value) (absentDecoder, bool) {
	if !fv.CanAddr() {
		return nil, false
	}
	pv := fv.Addr()
	if !pv.Type().Implements(absentDecoderType) {
		return nil, false
	}
	return pv.Interface().(absentDecoder), true
}

// nodeToAny converts a node to the generic Go representation used for
// interface{} targets.
func nodeToAny(n *eng.Node, useNumber bool) (any, error) {
	switch n.Kind {
	case eng.NodeNull:
		return nil, nil
	case eng.NodeBool:
		return n.Bool, nil
	case eng.NodeString:
		return n.Str, nil
	case eng.NodeNumber:
		if useNumber {
			return stdjson.Number(n.Num), nil
		}
		f, err := strconv.ParseFloat(n.Num, 64)
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", n.Num, err)
		}
		return f, nil
	case eng.NodeArray:
		out := make([]any, len(n.Elems))
		for i, e := range n.Elems {
			v, err := nodeToAny(e, useNumber)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case eng.NodeObject:
		out := make(map[string]any, len(n.Fields))
		for i, f := range n.Fields {
			v, err := nodeToAny(f.Value, useNumber)
			if err != nil {
				return nil, err
			}
			key := f.Key
			if !f.Named {
				key = "Index " + strconv.Itoa(i)
			}
			out[key] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown node kind %d", n.Kind)
}

// isValidNumber reports whether s is a valid JSON number literal.
func isValidNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
		if s == "" {
			return false
		}
	}
	switch {
	case s[0] == '0':
		s = s[1:]
	case '1' <= s[0] && s[0] <= '9':
		s = s[1:]
		for len(s) > 0 && '0' <= s[0] && s[0] <= '9' {
			s = s[1:]
		}
	default:
		return false
	}
	if len(s) >= 2 && s[0] == '.' && '0' <= s[1] && s[1] <= '9' {
		s = s[2:]
		for len(s) > 0 && '0' <= s[0] && s[0] <= '9' {
			s = s[1:]
		}
	}
	if len(s) >= 2 && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		if s[0] == '+' || s[0] == '-' {
			s = s[1:]
			if s == "" {
				return false
			}
		}
		for len(s) > 0 && '0' <= s[0] && s[0] <= '9' {
			s = s[1:]
		}
	}
	return s == ""
}
