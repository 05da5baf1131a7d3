package engine

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// AppendJSON appends an exact JSON encoding of n to buf. Number literals are
// copied verbatim. Keys without a textual name are written as "Index N".
func AppendJSON(buf []byte, n *Node) []byte {
	if n == nil {
		return append(buf, "null"...)
	}
	switch n.Kind {
	case NodeBool:
		return strconv.AppendBool(buf, n.Bool)
	case NodeNumber:
		return append(buf, n.Num...)
	case NodeString:
		return appendString(buf, n.Str)
	case NodeArray:
		buf = append(buf, '[')
		for i, e := range n.Elems {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = AppendJSON(buf, e)
		}
		return append(buf, ']')
	case NodeObject:
		buf = append(buf, '{')
		for i, f := range n.Fields {
			if i > 0 {
				buf = append(buf, ',')
			}
			key := f.Key
			if !f.Named {
				key = "Index " + strconv.Itoa(i)
			}
			buf = appendString(buf, key)
			buf = append(buf, ':')
			buf = AppendJSON(buf, f.Value)
		}
		return append(buf, '}')
	default:
		return append(buf, "null"...)
	}
}

func appendString(buf []byte, s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		return append(buf, `""`...)
	}
	return append(buf, b...)
}
