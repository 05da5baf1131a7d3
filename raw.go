package lossy

import (
	stdjson "encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

// serializeRaw renders the value under c as compact JSON-like text. Scalars
// are probed in a fixed order through the cursor; composites recurse. It
// reports false only when c holds no value.
func serializeRaw(c *Cursor) (raw string, ok bool) {
	if c == nil || c.node == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			raw, ok = "", false
		}
	}()
	var b strings.Builder
	if !appendRaw(&b, c) {
		return "", false
	}
	return b.String(), true
}

func appendRaw(b *strings.Builder, c *Cursor) bool {
	if c.node == nil {
		return false
	}
	sv := c.SingleValue()
	if sv.IsNull() {
		b.WriteString("null")
		return true
	}
	var s string
	if sv.Decode(&s) == nil {
		quoteJSON(b, s)
		return true
	}
	var t bool
	if sv.Decode(&t) == nil {
		b.WriteString(strconv.FormatBool(t))
		return true
	}
	var i int64
	if sv.Decode(&i) == nil {
		b.WriteString(strconv.FormatInt(i, 10))
		return true
	}
	var u uint64
	if sv.Decode(&u) == nil {
		b.WriteString(strconv.FormatUint(u, 10))
		return true
	}
	var d stdjson.Number
	if sv.Decode(&d) == nil {
		b.WriteString(d.String())
		return true
	}
	var f float64
	if sv.Decode(&f) == nil {
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		return true
	}
	if seq, err := c.Sequence(); err == nil {
		b.WriteByte('[')
		for !seq.AtEnd() {
			if seq.Index() > 0 {
				b.WriteByte(',')
			}
			if !appendRaw(b, seq.Element()) {
				b.WriteString("null")
			}
			seq.Advance()
		}
		b.WriteByte(']')
		return true
	}
	if kc, err := c.Keyed(); err == nil {
		b.WriteByte('{')
		for i, seg := range kc.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			quoteJSON(b, keyName(seg))
			b.WriteByte(':')
			sub, err := kc.At(seg)
			if err != nil || !appendRaw(b, sub) {
				b.WriteString("null")
			}
		}
		b.WriteByte('}')
		return true
	}
	return false
}

const hexDigits = "0123456789abcdef"

// quoteJSON writes s as a JSON string literal. Only the characters JSON
// requires are escaped; non-ASCII text is kept as is.
func quoteJSON(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			case '\b':
				b.WriteString(`\b`)
			case '\f':
				b.WriteString(`\f`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				if c < 0x20 {
					b.WriteString(`\u00`)
					b.WriteByte(hexDigits[c>>4])
					b.WriteByte(hexDigits[c&0xF])
				} else {
					b.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(`�`)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
}
